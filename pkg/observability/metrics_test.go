package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aretw0/interviewer"
	"github.com/aretw0/interviewer/internal/logging"
	"github.com/aretw0/interviewer/internal/testutils"
	"github.com/aretw0/interviewer/pkg/adapters/memory"
	"github.com/aretw0/interviewer/pkg/domain"
	"github.com/aretw0/interviewer/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runInterview(t *testing.T, hooks domain.LifecycleHooks, gen *memory.Generator, answers ...string) {
	t.Helper()
	eng, err := interviewer.New(interviewer.Profile{Position: "Backend", TargetGrade: "Junior"}, gen,
		memory.NewInput(answers...), memory.NewStore(), interviewer.WithLifecycleHooks(hooks))
	require.NoError(t, err)
	require.NoError(t, eng.Run(context.Background()))
}

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)

	gen := testutils.ScriptedBackend(t, "ok",
		testutils.Answer(domain.QualityStrong),
		memory.Reply("not json"),
	)
	runInterview(t, m.Hooks(), gen, "first", "second", "стоп")

	assert.Equal(t, 3.0, testutil.ToFloat64(m.Turns))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Finished))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.NodeVisits.WithLabelValues(string(domain.NodeClassifying))))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Verdicts.WithLabelValues("technical_answer", "strong", "false")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Verdicts.WithLabelValues("off_topic", "weak", "true")))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.GenerationErrors.WithLabelValues(string(domain.NodeGenerating))))

	count, err := testutil.GatherAndCount(reg, "interviewer_generation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestMetrics_Unregistered(t *testing.T) {
	m := observability.NewMetrics(nil)
	m.Hooks().OnTurnRecorded(context.Background(), &domain.TurnEvent{Difficulty: 2})
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Turns))
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, slog.LevelInfo, "text")

	runInterview(t, observability.LoggingHooks(logger), testutils.ScriptedBackend(t, "ok"), "answer", "exit")

	out := buf.String()
	assert.Contains(t, out, "turn_recorded")
	assert.Contains(t, out, "intent=technical_answer")
	assert.NotContains(t, out, "node_enter")
}
