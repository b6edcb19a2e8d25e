package domain

import (
	"errors"
	"fmt"
)

// ErrLogNotFound is returned when a log id cannot be found in a sink.
var ErrLogNotFound = errors.New("log not found")

// ErrInterviewNotFound is returned when an interview id is unknown to the session manager.
var ErrInterviewNotFound = errors.New("interview not found")

// ErrLogExists is returned when a sink is asked to overwrite an existing log.
var ErrLogExists = errors.New("log already exists")

// GenerationError is a fatal failure of the generation capability inside
// the dialogue generator or the feedback synthesizer.
type GenerationError struct {
	Node NodeID
	Err  error
}

func (e *GenerationError) Error() string {
	return fmt.Sprintf("generation failed at node '%s': %v", e.Node, e.Err)
}

func (e *GenerationError) Unwrap() error { return e.Err }

// PersistenceError is a fatal failure to write the session log.
// The evaluation and the complete document are attached so callers can retry.
type PersistenceError struct {
	Document *LogDocument
	Feedback string
	Err      error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to persist interview log: %v", e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// InvalidTransitionError indicates a graph wiring defect: a node asked for a
// branch label that has no outgoing edge.
type InvalidTransitionError struct {
	From  NodeID
	Label Branch
}

func (e *InvalidTransitionError) Error() string {
	if e.Label == BranchAlways {
		return fmt.Sprintf("invalid transition: node '%s' has no unconditional edge", e.From)
	}
	return fmt.Sprintf("invalid transition: node '%s' has no edge labelled '%s'", e.From, e.Label)
}

// InputError wraps a failure of the candidate input source.
type InputError struct {
	Err error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("candidate input failed: %v", e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// ErrEngineFinished is returned when input is offered to an interview that has already reached done.
var ErrEngineFinished = errors.New("interview already finished")
