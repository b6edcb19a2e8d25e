package domain

// Edge defines a directed connection between two graph nodes.
// An empty Label is an unconditional edge.
type Edge struct {
	From  NodeID `json:"from" yaml:"from"`
	To    NodeID `json:"to" yaml:"to"`
	Label Branch `json:"label,omitempty" yaml:"label,omitempty"`
}
