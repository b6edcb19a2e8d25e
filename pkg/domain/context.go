package domain

// ExecutionContext is the scratch space of one pass through the graph.
// It is never persisted; the engine discards it when the loop re-enters.
type ExecutionContext struct {
	// InterviewerMessage is the prompt the candidate is answering in this pass.
	InterviewerMessage string
	// CandidateMessage is the reply collected by the input node.
	CandidateMessage string
	// Verdict is set by the classifier.
	Verdict *Verdict
	// Reply is the next interviewer message produced by the dialogue generator.
	Reply string
}

// HasCandidateMessage reports whether the input node has run in this pass.
func (c *ExecutionContext) HasCandidateMessage() bool {
	return c != nil && c.CandidateMessage != ""
}

// NextPass returns the context for the following loop iteration,
// carrying only the generated reply forward as the new prompt.
func (c *ExecutionContext) NextPass() *ExecutionContext {
	return &ExecutionContext{InterviewerMessage: c.Reply}
}
