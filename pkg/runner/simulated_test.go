package runner_test

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/aretw0/interviewer/pkg/adapters/memory"
	"github.com/aretw0/interviewer/pkg/domain"
	"github.com/aretw0/interviewer/pkg/runner"
	"github.com/aretw0/interviewer/prompts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulatedCandidate(t *testing.T) {
	gen := memory.NewGenerator().On(memory.ForPrompt(prompts.CandidateSystemPrompt),
		memory.Reply(" Горутина это лёгкий поток "),
		memory.Reply("Не знаю"),
	)
	var echo bytes.Buffer
	cand := runner.NewSimulatedCandidate(gen, "Junior Go", runner.WithMaxAnswers(2), runner.WithEcho(&echo))

	got, err := cand.Next(context.Background(), "Что такое горутина?")
	require.NoError(t, err)
	assert.Equal(t, "Горутина это лёгкий поток", got)

	_, err = cand.Next(context.Background(), "А канал?")
	require.NoError(t, err)

	_, err = cand.Next(context.Background(), "Ещё?")
	assert.ErrorIs(t, err, io.EOF)
	assert.Equal(t, 2, cand.Answers())

	calls := gen.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, domain.DefaultCandidateTemperature, calls[0].Temperature)
	assert.Contains(t, calls[1].Messages[1].Content, "Горутина это лёгкий поток")
	assert.Contains(t, calls[1].Messages[1].Content, "Junior Go")
	assert.Contains(t, echo.String(), "Candidate: Не знаю")
}

func TestSimulatedCandidate_Error(t *testing.T) {
	gen := memory.NewGenerator().On(memory.ForPrompt(prompts.CandidateSystemPrompt), memory.Fail(errors.New("quota")))
	cand := runner.NewSimulatedCandidate(gen, "", runner.WithCandidateTemperature(0.5))

	_, err := cand.Next(context.Background(), "q")
	var genErr *domain.GenerationError
	require.ErrorAs(t, err, &genErr)
	assert.Equal(t, domain.NodeAwaitingCandidate, genErr.Node)
	assert.Equal(t, 0.5, gen.Calls()[0].Temperature)
}
