package memory

import (
	"context"
	"io"
	"sync"
)

// Input implements ports.InputSource from a fixed list of candidate messages.
// Once the list is exhausted Next returns io.EOF.
type Input struct {
	mu       sync.Mutex
	messages []string
	prompts  []string
}

// NewInput creates a scripted candidate.
func NewInput(messages ...string) *Input {
	return &Input{messages: messages}
}

// Next records prompt and returns the next scripted message.
func (in *Input) Next(ctx context.Context, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	in.mu.Lock()
	defer in.mu.Unlock()
	in.prompts = append(in.prompts, prompt)
	if len(in.messages) == 0 {
		return "", io.EOF
	}
	msg := in.messages[0]
	in.messages = in.messages[1:]
	return msg, nil
}

// Prompts returns every interviewer message shown so far.
func (in *Input) Prompts() []string {
	in.mu.Lock()
	defer in.mu.Unlock()
	return append([]string(nil), in.prompts...)
}
