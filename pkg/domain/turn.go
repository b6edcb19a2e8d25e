package domain

import (
	"errors"
	"fmt"
)

// ErrLedgerOutOfOrder is returned when a turn would break the 1..n id sequence.
var ErrLedgerOutOfOrder = errors.New("turn ledger out of order")

// Turn is one completed exchange: the interviewer prompt, the candidate's
// reply to it and the verdict produced for that reply.
type Turn struct {
	TurnID             int     `json:"turn_id"`
	InterviewerMessage string  `json:"interviewer_message"`
	CandidateMessage   string  `json:"candidate_message"`
	Verdict            Verdict `json:"verdict"`
}

// Ledger is the append-only log of completed turns.
// The zero value is ready to use.
type Ledger struct {
	turns []Turn
}

// Append adds a turn. Its TurnID must be exactly Len()+1.
func (l *Ledger) Append(t Turn) error {
	want := len(l.turns) + 1
	if t.TurnID != want {
		return fmt.Errorf("%w: got turn_id %d, want %d", ErrLedgerOutOfOrder, t.TurnID, want)
	}
	l.turns = append(l.turns, t)
	return nil
}

// Len returns the number of recorded turns.
func (l *Ledger) Len() int {
	return len(l.turns)
}

// Turns returns a copy of the recorded turns in order.
func (l *Ledger) Turns() []Turn {
	out := make([]Turn, len(l.turns))
	copy(out, l.turns)
	return out
}

// Last returns the most recent turn, if any.
func (l *Ledger) Last() (Turn, bool) {
	if len(l.turns) == 0 {
		return Turn{}, false
	}
	return l.turns[len(l.turns)-1], true
}
