package persistence

import (
	"context"
	"sync"
	"time"
)

// InitTimeout bounds a single Initializer attempt.
const InitTimeout = 30 * time.Second

// Initializer runs a store's one-time setup (schema, bucket) until it first
// succeeds. A failed attempt is not remembered, so the next call tries again.
type Initializer struct {
	mu   sync.Mutex
	done bool
}

// Do runs fn unless a previous call succeeded. fn receives a context that
// keeps ctx's values but not its cancellation, bounded by InitTimeout.
func (i *Initializer) Do(ctx context.Context, fn func(context.Context) error) error {
	i.mu.Lock()
	defer i.mu.Unlock()
	if i.done {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), InitTimeout)
	defer cancel()
	if err := fn(ctx); err != nil {
		return err
	}
	i.done = true
	return nil
}
