package persistence

import (
	"context"
	"fmt"
	"regexp"

	"github.com/aretw0/interviewer/pkg/domain"
	"github.com/aretw0/interviewer/pkg/ports"
)

// Mask replaces every redacted match.
const Mask = "***"

// DefaultPIIPatterns match e-mail addresses and phone numbers.
var DefaultPIIPatterns = []string{
	`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`,
	`\+?\d[\d\-\s()]{8,}\d`,
}

type redactingStore struct {
	ports.LogStore
	patterns []*regexp.Regexp
}

// NewRedaction returns a middleware that masks text matching patterns in the
// dialogue, the recorded verdicts and the feedback before a log is persisted. Stored logs are read back
// as written. A nil middleware is returned when patterns is empty.
func NewRedaction(patterns []string) (Middleware, error) {
	if len(patterns) == 0 {
		return nil, nil
	}
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		re, err := regexp.Compile(p)
		if err != nil {
			return nil, fmt.Errorf("invalid redaction pattern %q: %w", p, err)
		}
		compiled[i] = re
	}
	return func(next ports.LogStore) ports.LogStore {
		return &redactingStore{LogStore: next, patterns: compiled}
	}, nil
}

func (s *redactingStore) Persist(ctx context.Context, doc *domain.LogDocument) (string, error) {
	// Copy so the engine's own document stays intact.
	masked := *doc
	masked.Turns = make([]domain.TurnRecord, len(doc.Turns))
	for i, t := range doc.Turns {
		t.UserMessage = s.mask(t.UserMessage)
		t.AgentVisibleMessage = s.mask(t.AgentVisibleMessage)
		t.InternalThoughts = s.maskThoughts(t)
		masked.Turns[i] = t
	}
	masked.FinalFeedback = s.mask(doc.FinalFeedback)

	return s.LogStore.Persist(ctx, &masked)
}

// maskThoughts masks the verdict's free-text fields and re-serializes it.
// Thoughts that do not hold a verdict are masked as plain text.
func (s *redactingStore) maskThoughts(t domain.TurnRecord) string {
	v, err := t.Verdict()
	if err != nil {
		return s.mask(t.InternalThoughts)
	}
	v.Reasoning = s.mask(v.Reasoning)
	if v.CorrectFact != nil {
		fact := s.mask(*v.CorrectFact)
		v.CorrectFact = &fact
	}
	return domain.VerdictThoughts(v)
}

func (s *redactingStore) mask(text string) string {
	for _, p := range s.patterns {
		text = p.ReplaceAllString(text, Mask)
	}
	return text
}

func (s *redactingStore) Unwrap() ports.LogStore { return s.LogStore }
