package domain

// NodeID names a state of the interview graph.
type NodeID string

const (
	NodeGreeting          NodeID = "greeting"
	NodeAwaitingCandidate NodeID = "awaiting_candidate"
	NodeClassifying       NodeID = "classifying"
	NodeRecording         NodeID = "recording"
	NodeGenerating        NodeID = "generating"
	NodeDeciding          NodeID = "deciding"
	NodeFeedback          NodeID = "feedback"
	NodeDone              NodeID = "done"
)

// Branch is the label selected by the termination policy.
type Branch string

const (
	// BranchAlways marks an unconditional edge.
	BranchAlways    Branch = ""
	BranchContinue  Branch = "continue"
	BranchTerminate Branch = "terminate"
)
