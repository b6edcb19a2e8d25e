package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/interviewer/pkg/domain"
)

// LoggingHooks logs node transitions at debug level and turns, verdicts and
// generation failures at info/warn.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnNodeEnter: func(ctx context.Context, e *domain.NodeEvent) {
			logger.DebugContext(ctx, "node_enter", "node_id", e.NodeID)
		},
		OnNodeLeave: func(ctx context.Context, e *domain.NodeEvent) {
			logger.DebugContext(ctx, "node_leave", "node_id", e.NodeID)
		},
		OnGeneration: func(ctx context.Context, e *domain.GenerationEvent) {
			if e.Err != nil {
				logger.WarnContext(ctx, "generation", "node_id", e.NodeID, "duration", e.Duration, "err", e.Err)
				return
			}
			logger.DebugContext(ctx, "generation", "node_id", e.NodeID, "duration", e.Duration)
		},
		OnVerdict: func(ctx context.Context, e *domain.VerdictEvent) {
			if e.Fallback {
				logger.WarnContext(ctx, "verdict", "fallback", e.Reason, "reasoning", e.Verdict.Reasoning)
				return
			}
			logger.InfoContext(ctx, "verdict",
				"intent", e.Verdict.Intent,
				"quality", e.Verdict.Quality,
				"hallucination", e.Verdict.Hallucination,
			)
		},
		OnTurnRecorded: func(ctx context.Context, e *domain.TurnEvent) {
			logger.InfoContext(ctx, "turn_recorded", "turn_id", e.Turn.TurnID, "difficulty", e.Difficulty)
		},
	}
}
