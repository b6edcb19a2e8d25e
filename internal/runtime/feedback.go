package runtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/interviewer/pkg/domain"
	"github.com/aretw0/interviewer/pkg/ports"
	"github.com/aretw0/interviewer/prompts"
)

// Synthesizer produces the final evaluation of an interview.
type Synthesizer struct {
	gen         ports.Generator
	temperature float64
	prompt      string
}

// NewSynthesizer creates a synthesizer with the default framing and temperature 0.3.
func NewSynthesizer(gen ports.Generator) *Synthesizer {
	return &Synthesizer{
		gen:         gen,
		temperature: domain.DefaultFeedbackTemperature,
		prompt:      prompts.FeedbackSystemPrompt,
	}
}

// Synthesize calls the backend exactly once with the full transcript and
// returns the complete log document. On failure nothing is returned.
func (s *Synthesizer) Synthesize(ctx context.Context, participant string, session *domain.Session, ledger *domain.Ledger) (*domain.LogDocument, error) {
	transcript := domain.NewTranscript(participant, session, ledger.Turns())
	payload, err := json.Marshal(transcript)
	if err != nil {
		return nil, &domain.GenerationError{Node: domain.NodeFeedback, Err: fmt.Errorf("encode transcript: %w", err)}
	}

	feedback, err := s.gen.Invoke(ctx, []domain.Message{
		domain.SystemMessage(s.prompt),
		domain.UserMessage(string(payload)),
	}, s.temperature)
	if err != nil {
		return nil, &domain.GenerationError{Node: domain.NodeFeedback, Err: err}
	}
	return transcript.Document(feedback), nil
}
