package generation

import (
	"context"
	"log/slog"
	"time"

	"github.com/aretw0/interviewer/pkg/domain"
	"github.com/aretw0/interviewer/pkg/ports"
)

// WithLogging logs request size, latency and errors at debug/warn level.
func WithLogging(logger *slog.Logger) Middleware {
	if logger == nil {
		return nil
	}
	return func(next ports.Generator) ports.Generator {
		return ports.GeneratorFunc(func(ctx context.Context, messages []domain.Message, temperature float64) (string, error) {
			size := 0
			for _, m := range messages {
				size += len(m.Content)
			}
			start := time.Now()
			out, err := next.Invoke(ctx, messages, temperature)
			if err != nil {
				logger.Warn("generation failed", "bytes", size, "temperature", temperature, "elapsed", time.Since(start), "err", err)
				return out, err
			}
			logger.Debug("generation done", "bytes", size, "temperature", temperature, "elapsed", time.Since(start), "reply_bytes", len(out))
			return out, nil
		})
	}
}
