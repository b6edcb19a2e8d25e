package generation

import (
	"context"
	"time"

	"github.com/aretw0/interviewer/pkg/domain"
	"github.com/aretw0/interviewer/pkg/ports"
)

// DefaultTimeout bounds a single generation call when none is configured.
const DefaultTimeout = 60 * time.Second

// WithTimeout bounds every call with d. d <= 0 disables it.
func WithTimeout(d time.Duration) Middleware {
	if d <= 0 {
		return nil
	}
	return func(next ports.Generator) ports.Generator {
		return ports.GeneratorFunc(func(ctx context.Context, messages []domain.Message, temperature float64) (string, error) {
			ctx, cancel := context.WithTimeout(ctx, d)
			defer cancel()
			return next.Invoke(ctx, messages, temperature)
		})
	}
}
