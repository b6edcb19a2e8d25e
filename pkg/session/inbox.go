package session

import (
	"context"
	"errors"
	"io"
	"sync"
)

var errInboxEmpty = errors.New("no pending candidate message")

// inbox is the InputSource behind a hosted interview. The manager only
// advances the engine past the awaiting node after pushing a message, so
// Next never blocks.
type inbox struct {
	mu      sync.Mutex
	pending []string
	closed  bool
}

func (in *inbox) push(msg string) {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.pending = append(in.pending, msg)
}

func (in *inbox) close() {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.closed = true
}

func (in *inbox) Next(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	if len(in.pending) > 0 {
		msg := in.pending[0]
		in.pending = in.pending[1:]
		return msg, nil
	}
	if in.closed {
		return "", io.EOF
	}
	return "", errInboxEmpty
}
