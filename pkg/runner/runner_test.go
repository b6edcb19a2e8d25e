package runner_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/aretw0/interviewer"
	"github.com/aretw0/interviewer/internal/testutils"
	"github.com/aretw0/interviewer/pkg/adapters/memory"
	"github.com/aretw0/interviewer/pkg/domain"
	"github.com/aretw0/interviewer/pkg/runner"
	"github.com/aretw0/interviewer/prompts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type brokenSink struct{}

func (brokenSink) Persist(context.Context, *domain.LogDocument) (string, error) {
	return "", errors.New("disk full")
}

var profile = interviewer.Profile{Position: "Data Analyst", TargetGrade: "Junior"}

func TestRunner_Run(t *testing.T) {
	gen := testutils.ScriptedBackend(t, "## Итог\nХорошо")
	eng, err := interviewer.New(profile, gen, memory.NewInput("ответ", "стоп"), memory.NewStore())
	require.NoError(t, err)

	var out bytes.Buffer
	r := runner.NewRunner(runner.WithOutput(&out), runner.WithRenderer(func(s string) (string, error) {
		return "[md]" + s, nil
	}))
	st, err := r.Run(context.Background(), eng)
	require.NoError(t, err)

	assert.True(t, st.Done)
	assert.Contains(t, out.String(), "[md]## Итог")
	assert.Contains(t, out.String(), st.LogID)
	assert.Contains(t, out.String(), "(2 turns)")
}

func TestRunner_JSON(t *testing.T) {
	gen := testutils.ScriptedBackend(t, "fine")
	eng, err := interviewer.New(profile, gen, memory.NewInput("exit"), memory.NewStore())
	require.NoError(t, err)

	var out bytes.Buffer
	_, err = runner.NewRunner(runner.WithOutput(&out), runner.WithJSON(true)).Run(context.Background(), eng)
	require.NoError(t, err)

	var ev runner.Event
	require.NoError(t, json.Unmarshal(out.Bytes(), &ev))
	assert.Equal(t, runner.EventFinished, ev.Type)
	assert.Equal(t, "fine", ev.Feedback)
	assert.Equal(t, 1, ev.Turns)
}

func TestRunner_PersistenceFailureStillShowsFeedback(t *testing.T) {
	gen := testutils.ScriptedBackend(t, "Итоговый отзыв")
	eng, err := interviewer.New(profile, gen, memory.NewInput("exit"), brokenSink{})
	require.NoError(t, err)

	var out bytes.Buffer
	st, err := runner.NewRunner(runner.WithOutput(&out)).Run(context.Background(), eng)

	var pErr *domain.PersistenceError
	require.ErrorAs(t, err, &pErr)
	assert.False(t, st.Done)
	assert.Contains(t, out.String(), "Итоговый отзыв")
}

func TestRunner_WithSimulatedCandidate(t *testing.T) {
	gen := testutils.ScriptedBackend(t, "ok")
	gen.On(memory.ForPrompt(prompts.CandidateSystemPrompt), memory.Reply("answer"))
	cand := runner.NewSimulatedCandidate(gen, "Junior", runner.WithMaxAnswers(3))

	eng, err := interviewer.New(profile, gen, cand, memory.NewStore())
	require.NoError(t, err)

	st, err := runner.NewRunner(runner.WithOutput(&bytes.Buffer{})).Run(context.Background(), eng)
	require.NoError(t, err)
	assert.Len(t, st.Turns, 4)
	assert.Equal(t, domain.DefaultStopKeywords()[0], st.Turns[3].CandidateMessage)
}
