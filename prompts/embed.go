// Package prompts holds the system framings sent to the generation backend.
package prompts

import _ "embed"

//go:embed classifier.md
var ClassifierSystemPrompt string

//go:embed interviewer.md
var InterviewerSystemPrompt string

//go:embed feedback.md
var FeedbackSystemPrompt string

//go:embed candidate.md
var CandidateSystemPrompt string
