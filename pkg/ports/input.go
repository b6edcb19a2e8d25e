package ports

import "context"

// InputSource supplies candidate messages.
type InputSource interface {
	// Next shows prompt to the candidate and blocks until a reply arrives.
	// io.EOF signals that the candidate is gone and is treated as a stop request.
	Next(ctx context.Context, prompt string) (string, error)
}

// InputFunc adapts a plain function to the InputSource interface.
type InputFunc func(ctx context.Context, prompt string) (string, error)

// Next calls f.
func (f InputFunc) Next(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}
