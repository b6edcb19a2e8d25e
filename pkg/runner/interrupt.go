package runner

import (
	"context"
	"io"

	"github.com/aretw0/interviewer/pkg/ports"
)

// Interruptible wraps src so an interrupt while (or before) waiting for the
// candidate is reported as io.EOF, which the engine treats as a stop
// request: the interview ends with feedback instead of being lost.
func Interruptible(src ports.InputSource, intr Interrupter) ports.InputSource {
	return ports.InputFunc(func(ctx context.Context, message string) (string, error) {
		sig := intr.Context()
		if sig.Err() != nil {
			intr.Reset()
			return "", io.EOF
		}

		ctx, cancel := context.WithCancel(ctx)
		defer cancel()
		stop := context.AfterFunc(sig, cancel)
		defer stop()

		text, err := src.Next(ctx, message)
		if err != nil && sig.Err() != nil {
			intr.Reset()
			return "", io.EOF
		}
		return text, err
	})
}
