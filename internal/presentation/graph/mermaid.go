package graph

import (
	"fmt"
	"strings"

	"github.com/aretw0/interviewer/pkg/domain"
)

// GraphOverlay contains dynamic state data to visualize on the graph.
type GraphOverlay struct {
	VisitedNodes []domain.NodeID
	CurrentNode  domain.NodeID
}

// GenerateMermaid produces a Mermaid flowchart from the graph edges.
// It applies semantic styling:
// - Entry: ((Circle))
// - Waiting for the candidate: [/Parallelogram/]
// - Language model calls: [[Subroutine]]
// - Branching: {Rhombus}
// - Terminal: (((Double circle)))
// It also applies overlay styles (Visited/Current) if provided.
func GenerateMermaid(edges []domain.Edge, entry domain.NodeID, overlay *GraphOverlay) string {
	var sb strings.Builder
	sb.WriteString("graph TD\n")

	branching := make(map[domain.NodeID]bool)
	for _, e := range edges {
		if e.Label != domain.BranchAlways {
			branching[e.From] = true
		}
	}

	seen := make(map[domain.NodeID]bool)
	declare := func(id domain.NodeID) {
		if seen[id] {
			return
		}
		seen[id] = true

		opener, closer := "[", "]"
		switch {
		case id == entry:
			opener, closer = "((", "))"
		case id == domain.NodeDone:
			opener, closer = "(((", ")))"
		case branching[id]:
			opener, closer = "{", "}"
		case id == domain.NodeAwaitingCandidate:
			opener, closer = "[/", "/]"
		case id == domain.NodeClassifying, id == domain.NodeGenerating, id == domain.NodeFeedback:
			opener, closer = "[[", "]]"
		}
		fmt.Fprintf(&sb, "    %s%s\"%s\"%s\n", sanitizeMermaidID(id), opener, id, closer)
	}

	for _, e := range edges {
		declare(e.From)
		declare(e.To)
	}
	for _, e := range edges {
		arrow := "-->"
		if e.Label != domain.BranchAlways {
			arrow = fmt.Sprintf("-- \"%s\" -->", strings.ReplaceAll(string(e.Label), "\"", "'"))
		}
		fmt.Fprintf(&sb, "    %s %s %s\n", sanitizeMermaidID(e.From), arrow, sanitizeMermaidID(e.To))
	}

	if overlay != nil {
		sb.WriteString("\n    %% Overlay Styles\n")
		// Black text stays readable on both light and dark themes.
		sb.WriteString("    classDef visited fill:#e1f5fe,stroke:#01579b,stroke-width:2px,color:#000;\n")
		sb.WriteString("    classDef current fill:#ffeb3b,stroke:#fbc02d,stroke-width:4px,color:#000;\n")

		visited := make(map[string]bool)
		for _, id := range overlay.VisitedNodes {
			safeID := sanitizeMermaidID(id)
			if safeID != "" && !visited[safeID] {
				visited[safeID] = true
				fmt.Fprintf(&sb, "    class %s visited;\n", safeID)
			}
		}
		if overlay.CurrentNode != "" {
			fmt.Fprintf(&sb, "    class %s current;\n", sanitizeMermaidID(overlay.CurrentNode))
		}
	}

	return sb.String()
}

func sanitizeMermaidID(id domain.NodeID) string {
	return strings.NewReplacer(".", "_", "-", "_", "/", "_", "\\", "_", " ", "_").Replace(string(id))
}
