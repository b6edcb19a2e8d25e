package runtime

import (
	"context"
	"time"

	"github.com/aretw0/interviewer/pkg/domain"
	"github.com/aretw0/interviewer/pkg/ports"
)

func (e *Engine) emitNodeEnter(ctx context.Context, node domain.NodeID) {
	if e.hooks.OnNodeEnter == nil {
		return
	}
	e.hooks.OnNodeEnter(ctx, &domain.NodeEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventNodeEnter},
		NodeID:    node,
	})
}

func (e *Engine) emitNodeLeave(ctx context.Context, node domain.NodeID) {
	if e.hooks.OnNodeLeave == nil {
		return
	}
	e.hooks.OnNodeLeave(ctx, &domain.NodeEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventNodeLeave},
		NodeID:    node,
	})
}

func (e *Engine) emitVerdict(ctx context.Context, c Classification) {
	if e.hooks.OnVerdict == nil {
		return
	}
	e.hooks.OnVerdict(ctx, &domain.VerdictEvent{
		EventBase: domain.EventBase{Timestamp: time.Now(), Type: domain.EventVerdict},
		Verdict:   c.Verdict,
		Fallback:  c.Fallback != "",
		Reason:    c.Fallback,
	})
}

func (e *Engine) emitTurnRecorded(ctx context.Context, turn domain.Turn) {
	if e.hooks.OnTurnRecorded == nil {
		return
	}
	e.hooks.OnTurnRecorded(ctx, &domain.TurnEvent{
		EventBase:  domain.EventBase{Timestamp: time.Now(), Type: domain.EventTurnRecorded},
		Turn:       turn,
		Difficulty: e.session.Difficulty,
	})
}

// observe wraps the shared generator so every call reports a GenerationEvent for node.
func (e *Engine) observe(node domain.NodeID) ports.Generator {
	return ports.GeneratorFunc(func(ctx context.Context, messages []domain.Message, temperature float64) (string, error) {
		start := time.Now()
		out, err := e.gen.Invoke(ctx, messages, temperature)
		if e.hooks.OnGeneration != nil {
			e.hooks.OnGeneration(ctx, &domain.GenerationEvent{
				EventBase: domain.EventBase{Timestamp: start, Type: domain.EventGeneration},
				NodeID:    node,
				Duration:  time.Since(start),
				Err:       err,
			})
		}
		return out, err
	})
}
