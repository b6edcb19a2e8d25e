package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventNodeEnter    EventType = "node_enter"
	EventNodeLeave    EventType = "node_leave"
	EventGeneration   EventType = "generation"
	EventVerdict      EventType = "verdict"
	EventTurnRecorded EventType = "turn_recorded"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// NodeEvent represents entry or exit from a node.
type NodeEvent struct {
	EventBase
	NodeID NodeID `json:"node_id"`
}

// GenerationEvent describes one call to the generation capability.
type GenerationEvent struct {
	EventBase
	NodeID   NodeID        `json:"node_id"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}

// VerdictEvent reports a classifier outcome. Fallback is set when the
// verdict was substituted; Reason then names the failure kind.
type VerdictEvent struct {
	EventBase
	Verdict  Verdict `json:"verdict"`
	Fallback bool    `json:"fallback"`
	Reason   string  `json:"reason,omitempty"`
}

// TurnEvent reports a turn appended to the ledger.
type TurnEvent struct {
	EventBase
	Turn       Turn `json:"turn"`
	Difficulty int  `json:"difficulty"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnNodeEnter    func(context.Context, *NodeEvent)
	OnNodeLeave    func(context.Context, *NodeEvent)
	OnGeneration   func(context.Context, *GenerationEvent)
	OnVerdict      func(context.Context, *VerdictEvent)
	OnTurnRecorded func(context.Context, *TurnEvent)
}

// Merge returns hooks that call h first and then other for every event.
func (h LifecycleHooks) Merge(other LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnNodeEnter:    chain(h.OnNodeEnter, other.OnNodeEnter),
		OnNodeLeave:    chain(h.OnNodeLeave, other.OnNodeLeave),
		OnGeneration:   chain(h.OnGeneration, other.OnGeneration),
		OnVerdict:      chain(h.OnVerdict, other.OnVerdict),
		OnTurnRecorded: chain(h.OnTurnRecorded, other.OnTurnRecorded),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
