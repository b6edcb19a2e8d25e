package runtime_test

import (
	"context"
	"testing"

	"github.com/aretw0/interviewer/internal/runtime"
	"github.com/aretw0/interviewer/internal/testutils"
	"github.com/aretw0/interviewer/pkg/adapters/memory"
	"github.com/aretw0/interviewer/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEngine_LifecycleHooks(t *testing.T) {
	gen := testutils.ScriptedBackend(t, "feedback", memory.Reply("not json"))

	var entered, left []domain.NodeID
	generations := map[domain.NodeID]int{}
	var verdicts []*domain.VerdictEvent
	var recorded []int

	hooks := domain.LifecycleHooks{
		OnNodeEnter: func(ctx context.Context, e *domain.NodeEvent) { entered = append(entered, e.NodeID) },
		OnNodeLeave: func(ctx context.Context, e *domain.NodeEvent) { left = append(left, e.NodeID) },
		OnGeneration: func(ctx context.Context, e *domain.GenerationEvent) {
			generations[e.NodeID]++
			assert.NoError(t, e.Err)
		},
		OnVerdict:      func(ctx context.Context, e *domain.VerdictEvent) { verdicts = append(verdicts, e) },
		OnTurnRecorded: func(ctx context.Context, e *domain.TurnEvent) { recorded = append(recorded, e.Turn.TurnID) },
	}

	eng := newEngine(t, gen, memory.NewInput("ответ", "стоп"), memory.NewStore(), runtime.WithLifecycleHooks(hooks))
	require.NoError(t, eng.Run(context.Background()))

	assert.Equal(t, []domain.NodeID{
		domain.NodeGreeting,
		domain.NodeAwaitingCandidate, domain.NodeClassifying, domain.NodeRecording, domain.NodeGenerating, domain.NodeDeciding,
		domain.NodeAwaitingCandidate, domain.NodeClassifying, domain.NodeRecording, domain.NodeGenerating, domain.NodeDeciding,
		domain.NodeFeedback,
	}, entered)
	assert.Equal(t, entered, left)

	assert.Equal(t, map[domain.NodeID]int{
		domain.NodeClassifying: 2,
		domain.NodeGenerating:  1,
		domain.NodeFeedback:    1,
	}, generations)

	require.Len(t, verdicts, 2)
	assert.True(t, verdicts[0].Fallback)
	assert.Equal(t, runtime.FallbackUnparsable, verdicts[0].Reason)
	assert.Equal(t, []int{1, 2}, recorded)
}
