package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/interviewer/pkg/domain"
)

// FormatDocument renders a persisted interview log as markdown.
func FormatDocument(id string, doc *domain.LogDocument) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Interview %s\n\n", id)
	fmt.Fprintf(&b, "**Participant:** %s  \n**Turns:** %d\n\n", doc.ParticipantName, len(doc.Turns))

	for _, t := range doc.Turns {
		fmt.Fprintf(&b, "## Turn %d\n\n", t.TurnID)
		fmt.Fprintf(&b, "**Interviewer:** %s\n\n", t.AgentVisibleMessage)
		fmt.Fprintf(&b, "**Candidate:** %s\n\n", t.UserMessage)
		if t.InternalThoughts != "" {
			fmt.Fprintf(&b, "```json\n%s\n```\n\n", t.InternalThoughts)
		}
	}

	b.WriteString("## Feedback\n\n")
	b.WriteString(strings.TrimSpace(doc.FinalFeedback))
	b.WriteString("\n")
	return b.String()
}
