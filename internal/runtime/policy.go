package runtime

import (
	"errors"
	"strings"

	"github.com/aretw0/interviewer/pkg/domain"
)

// Policy decides when the interview loop ends.
type Policy struct {
	MaxTurns     int
	StopKeywords []string
}

// DefaultPolicy returns a policy with max 8 turns and the default stop keywords.
func DefaultPolicy() Policy {
	return Policy{
		MaxTurns:     domain.DefaultMaxTurns,
		StopKeywords: domain.DefaultStopKeywords(),
	}
}

// Validate reports configuration errors.
func (p Policy) Validate() error {
	if p.MaxTurns < 1 {
		return errors.New("max_turns must be at least 1")
	}
	if len(p.StopKeywords) == 0 {
		return errors.New("at least one stop keyword is required")
	}
	for _, kw := range p.StopKeywords {
		if strings.TrimSpace(kw) == "" {
			return errors.New("stop keywords must not be blank")
		}
	}
	return nil
}

// IsStopRequest reports whether msg contains any stop keyword, ignoring case.
// This is a plain substring match, so "exit" inside a longer answer also counts.
func (p Policy) IsStopRequest(msg string) bool {
	lower := strings.ToLower(msg)
	for _, kw := range p.StopKeywords {
		if kw == "" {
			continue
		}
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// StopMessage is the canonical candidate message recorded for a stop request.
func (p Policy) StopMessage() string {
	if len(p.StopKeywords) == 0 {
		return domain.DefaultStopKeywords()[0]
	}
	return p.StopKeywords[0]
}

// Decide selects the branch taken after the dialogue generator.
// It has no side effects.
func Decide(p Policy, s *domain.Session, ec *domain.ExecutionContext) domain.Branch {
	if ec != nil {
		if ec.Verdict != nil && ec.Verdict.Intent == domain.IntentStop {
			return domain.BranchTerminate
		}
		if p.IsStopRequest(ec.CandidateMessage) {
			return domain.BranchTerminate
		}
	}
	if s.TurnCount >= p.MaxTurns {
		return domain.BranchTerminate
	}
	return domain.BranchContinue
}
