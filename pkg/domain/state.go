package domain

import "fmt"

// Difficulty bounds used when no explicit bounds are configured.
const (
	DefaultMinDifficulty = 1
	DefaultMaxDifficulty = 3
)

// Session is the mutable record of one interview attempt.
// Position, TargetGrade and Experience are fixed at creation.
type Session struct {
	Position    string `json:"position"`
	TargetGrade string `json:"target_grade"`
	Experience  string `json:"experience"`

	// TurnCount is incremented exactly once per completed exchange.
	TurnCount int `json:"turn_count"`

	// Difficulty stays within [MinDifficulty, MaxDifficulty].
	Difficulty    int `json:"difficulty"`
	MinDifficulty int `json:"min_difficulty"`
	MaxDifficulty int `json:"max_difficulty"`

	// Stopped only ever moves from false to true. Use MarkStopped.
	Stopped bool `json:"stopped"`

	TopicsCovered []string `json:"topics_covered,omitempty"`
}

// NewSession creates a fresh session using the default difficulty bounds.
func NewSession(position, grade, experience string) *Session {
	s, _ := NewSessionWithBounds(position, grade, experience, DefaultMinDifficulty, DefaultMaxDifficulty)
	return s
}

// NewSessionWithBounds creates a fresh session with custom difficulty bounds.
// The session starts at the lower bound.
func NewSessionWithBounds(position, grade, experience string, minDifficulty, maxDifficulty int) (*Session, error) {
	if minDifficulty < 1 || maxDifficulty < minDifficulty {
		return nil, fmt.Errorf("invalid difficulty bounds [%d,%d]", minDifficulty, maxDifficulty)
	}
	return &Session{
		Position:      position,
		TargetGrade:   grade,
		Experience:    experience,
		Difficulty:    minDifficulty,
		MinDifficulty: minDifficulty,
		MaxDifficulty: maxDifficulty,
	}, nil
}

// MarkStopped sets the stop flag. Calling it again has no effect.
func (s *Session) MarkStopped() {
	s.Stopped = true
}

// AddTopic records a covered topic once.
func (s *Session) AddTopic(topic string) {
	for _, t := range s.TopicsCovered {
		if t == topic {
			return
		}
	}
	s.TopicsCovered = append(s.TopicsCovered, topic)
}

// Snapshot returns a copy that callers may read without affecting the live session.
func (s *Session) Snapshot() Session {
	cp := *s
	cp.TopicsCovered = append([]string(nil), s.TopicsCovered...)
	return cp
}
