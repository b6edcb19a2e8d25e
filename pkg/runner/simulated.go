package runner

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/interviewer/pkg/domain"
	"github.com/aretw0/interviewer/pkg/ports"
	"github.com/aretw0/interviewer/prompts"
)

// SimulatedCandidate is an InputSource played by a language model.
type SimulatedCandidate struct {
	gen         ports.Generator
	persona     string
	temperature float64
	maxAnswers  int
	echo        io.Writer

	history []exchange
}

type exchange struct {
	question string
	answer   string
}

// SimulatedOption configures a SimulatedCandidate.
type SimulatedOption func(*SimulatedCandidate)

// WithCandidateTemperature overrides the 0.8 default.
func WithCandidateTemperature(t float64) SimulatedOption {
	return func(s *SimulatedCandidate) {
		s.temperature = t
	}
}

// WithMaxAnswers makes the candidate close its input after n answers.
func WithMaxAnswers(n int) SimulatedOption {
	return func(s *SimulatedCandidate) {
		s.maxAnswers = n
	}
}

// WithEcho prints each question and answer to w.
func WithEcho(w io.Writer) SimulatedOption {
	return func(s *SimulatedCandidate) {
		s.echo = w
	}
}

// NewSimulatedCandidate creates a candidate described by persona
// (e.g. "Junior Go developer, two years of pet projects").
func NewSimulatedCandidate(gen ports.Generator, persona string, opts ...SimulatedOption) *SimulatedCandidate {
	s := &SimulatedCandidate{
		gen:         gen,
		persona:     persona,
		temperature: domain.DefaultCandidateTemperature,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Next answers message in character.
func (s *SimulatedCandidate) Next(ctx context.Context, message string) (string, error) {
	if s.maxAnswers > 0 && len(s.history) >= s.maxAnswers {
		return "", io.EOF
	}

	var b strings.Builder
	if s.persona != "" {
		fmt.Fprintf(&b, "Твой профиль: %s\n\n", s.persona)
	}
	for _, ex := range s.history {
		fmt.Fprintf(&b, "Интервьюер: %s\nТы: %s\n\n", ex.question, ex.answer)
	}
	fmt.Fprintf(&b, "Интервьюер: %s\nТы:", message)

	answer, err := s.gen.Invoke(ctx, []domain.Message{
		domain.SystemMessage(prompts.CandidateSystemPrompt),
		domain.UserMessage(b.String()),
	}, s.temperature)
	if err != nil {
		return "", &domain.GenerationError{Node: domain.NodeAwaitingCandidate, Err: err}
	}
	answer = strings.TrimSpace(answer)
	s.history = append(s.history, exchange{question: message, answer: answer})

	if s.echo != nil {
		fmt.Fprintf(s.echo, "Interviewer: %s\nCandidate: %s\n\n", message, answer)
	}
	return answer, nil
}

// Answers returns how many answers were produced.
func (s *SimulatedCandidate) Answers() int { return len(s.history) }
