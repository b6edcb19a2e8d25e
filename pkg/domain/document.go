package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// LogPrefix is the common prefix of every persisted log id.
const LogPrefix = "interview_log_"

// thoughtsPrefix tags the serialized verdict inside TurnRecord.InternalThoughts.
const thoughtsPrefix = "verdict: "

// TurnRecord is the persisted form of a Turn.
type TurnRecord struct {
	TurnID              int    `json:"turn_id"`
	AgentVisibleMessage string `json:"agent_visible_message"`
	UserMessage         string `json:"user_message"`
	InternalThoughts    string `json:"internal_thoughts"`
}

// LogDocument is written once per session on termination.
type LogDocument struct {
	ParticipantName string       `json:"participant_name"`
	Turns           []TurnRecord `json:"turns"`
	FinalFeedback   string       `json:"final_feedback"`
}

// Transcript is the input handed to the feedback generator.
type Transcript struct {
	ParticipantName string       `json:"participant_name"`
	Position        string       `json:"position"`
	TargetGrade     string       `json:"target_grade"`
	Experience      string       `json:"experience,omitempty"`
	Turns           []TurnRecord `json:"turns"`
}

// NewTurnRecord converts a ledger turn into its persisted form.
func NewTurnRecord(t Turn) TurnRecord {
	return TurnRecord{
		TurnID:              t.TurnID,
		AgentVisibleMessage: t.InterviewerMessage,
		UserMessage:         t.CandidateMessage,
		InternalThoughts:    VerdictThoughts(t.Verdict),
	}
}

// VerdictThoughts renders v the way TurnRecord.InternalThoughts stores it.
func VerdictThoughts(v Verdict) string {
	return thoughtsPrefix + v.String()
}

// NewTranscript builds the evaluator input from a session and its turns.
func NewTranscript(participant string, s *Session, turns []Turn) Transcript {
	records := make([]TurnRecord, 0, len(turns))
	for _, t := range turns {
		records = append(records, NewTurnRecord(t))
	}
	return Transcript{
		ParticipantName: participant,
		Position:        s.Position,
		TargetGrade:     s.TargetGrade,
		Experience:      s.Experience,
		Turns:           records,
	}
}

// Document returns the persisted document for this transcript with the given feedback attached.
func (t Transcript) Document(feedback string) *LogDocument {
	turns := make([]TurnRecord, len(t.Turns))
	copy(turns, t.Turns)
	return &LogDocument{
		ParticipantName: t.ParticipantName,
		Turns:           turns,
		FinalFeedback:   feedback,
	}
}

// Verdict recovers the verdict serialized into InternalThoughts.
func (r TurnRecord) Verdict() (Verdict, error) {
	raw, ok := strings.CutPrefix(r.InternalThoughts, thoughtsPrefix)
	if !ok {
		return Verdict{}, fmt.Errorf("turn %d: internal thoughts carry no verdict", r.TurnID)
	}
	var v Verdict
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return Verdict{}, fmt.Errorf("turn %d: %w", r.TurnID, err)
	}
	return v, nil
}

// Validate checks that turn ids run 1..n without gaps.
func (d *LogDocument) Validate() error {
	for i, t := range d.Turns {
		if t.TurnID != i+1 {
			return fmt.Errorf("%w: position %d holds turn_id %d", ErrLedgerOutOfOrder, i, t.TurnID)
		}
	}
	return nil
}

// NewLogID returns a unique, time-ordered identifier for a session log.
// The timestamp keeps ids sortable; the random suffix avoids collisions between
// sessions that finish within the same instant.
func NewLogID(now time.Time) string {
	ts := now.UTC().Format("20060102T150405.000000000Z")
	return LogPrefix + ts + "_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
