package ports

import (
	"context"

	"github.com/aretw0/interviewer/pkg/domain"
)

// Generator is the external text-generation capability.
// Implementations may block for as long as the backend takes; the engine
// relies on ctx (and adapter middleware) for timeouts.
type Generator interface {
	// Invoke sends role-tagged messages at the given sampling temperature and
	// returns the generated text.
	Invoke(ctx context.Context, messages []domain.Message, temperature float64) (string, error)
}

// GeneratorFunc adapts a plain function to the Generator interface.
type GeneratorFunc func(ctx context.Context, messages []domain.Message, temperature float64) (string, error)

// Invoke calls f.
func (f GeneratorFunc) Invoke(ctx context.Context, messages []domain.Message, temperature float64) (string, error) {
	return f(ctx, messages, temperature)
}
