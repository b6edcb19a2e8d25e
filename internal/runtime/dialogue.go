package runtime

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aretw0/interviewer/pkg/domain"
	"github.com/aretw0/interviewer/pkg/ports"
	"github.com/aretw0/interviewer/prompts"
)

// DialogueGenerator writes the next interviewer message.
type DialogueGenerator struct {
	gen         ports.Generator
	temperature float64
	prompt      string
}

// NewDialogueGenerator creates a generator with the default framing and temperature 0.4.
func NewDialogueGenerator(gen ports.Generator) *DialogueGenerator {
	return &DialogueGenerator{
		gen:         gen,
		temperature: domain.DefaultInterviewerTemperature,
		prompt:      prompts.InterviewerSystemPrompt,
	}
}

type dialogueInput struct {
	Position   string              `json:"position"`
	Grade      string              `json:"grade"`
	Difficulty int                 `json:"difficulty"`
	Verdict    domain.Verdict      `json:"verdict"`
	History    []domain.TurnRecord `json:"history"`
}

// Generate asks the backend for the next message and then applies the
// difficulty controller to s. The returned text is the backend's output as is.
// Failures are returned as *domain.GenerationError and leave s untouched.
func (g *DialogueGenerator) Generate(ctx context.Context, s *domain.Session, verdict domain.Verdict, history []domain.Turn) (string, error) {
	records := make([]domain.TurnRecord, 0, len(history))
	for _, t := range history {
		records = append(records, domain.NewTurnRecord(t))
	}
	payload, err := json.Marshal(dialogueInput{
		Position:   s.Position,
		Grade:      s.TargetGrade,
		Difficulty: s.Difficulty,
		Verdict:    verdict,
		History:    records,
	})
	if err != nil {
		return "", &domain.GenerationError{Node: domain.NodeGenerating, Err: fmt.Errorf("encode input: %w", err)}
	}

	reply, err := g.gen.Invoke(ctx, []domain.Message{
		domain.SystemMessage(g.prompt),
		domain.UserMessage(string(payload)),
	}, g.temperature)
	if err != nil {
		return "", &domain.GenerationError{Node: domain.NodeGenerating, Err: err}
	}

	s.Difficulty = AdjustDifficulty(s.Difficulty, verdict.Quality, s.MinDifficulty, s.MaxDifficulty)
	return reply, nil
}
