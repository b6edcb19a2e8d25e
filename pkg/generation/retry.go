package generation

import (
	"context"
	"errors"
	"time"

	"github.com/aretw0/interviewer/pkg/domain"
	"github.com/aretw0/interviewer/pkg/ports"
)

// PermanentError marks a failure that retrying cannot fix (bad credentials, invalid request).
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return "permanent: " + e.Err.Error() }

func (e *PermanentError) Unwrap() error { return e.Err }

// WithRetry retries Invoke up to maxAttempts with exponential backoff starting at
// baseDelay. maxAttempts <= 1 disables retrying. Cancellation stops immediately.
func WithRetry(maxAttempts int, baseDelay time.Duration) Middleware {
	if maxAttempts <= 1 {
		return nil
	}
	if baseDelay <= 0 {
		baseDelay = 300 * time.Millisecond
	}
	return func(next ports.Generator) ports.Generator {
		return &retrying{next: next, max: maxAttempts, base: baseDelay}
	}
}

type retrying struct {
	next ports.Generator
	max  int
	base time.Duration
}

func (r *retrying) Invoke(ctx context.Context, messages []domain.Message, temperature float64) (string, error) {
	var last error
	for i := 0; i < r.max; i++ {
		out, err := r.next.Invoke(ctx, messages, temperature)
		if err == nil {
			return out, nil
		}
		var pErr *PermanentError
		if errors.As(err, &pErr) {
			return "", err
		}
		last = err
		if i == r.max-1 {
			break
		}

		timer := time.NewTimer(r.base * time.Duration(1<<i))
		select {
		case <-ctx.Done():
			timer.Stop()
			return "", ctx.Err()
		case <-timer.C:
		}
	}
	return "", last
}
