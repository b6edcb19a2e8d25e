package graph

import (
	"strings"
	"testing"

	"github.com/aretw0/interviewer"
	"github.com/aretw0/interviewer/pkg/domain"
	"github.com/stretchr/testify/assert"
)

func TestGenerateMermaid_InterviewGraph(t *testing.T) {
	out := GenerateMermaid(interviewer.GraphEdges(), domain.NodeGreeting, nil)

	assert.True(t, strings.HasPrefix(out, "graph TD\n"))
	assert.Contains(t, out, `greeting(("greeting"))`)
	assert.Contains(t, out, `awaiting_candidate[/"awaiting_candidate"/]`)
	assert.Contains(t, out, `classifying[["classifying"]]`)
	assert.Contains(t, out, `deciding{"deciding"}`)
	assert.Contains(t, out, `done((("done")))`)
	assert.Contains(t, out, `recording["recording"]`)
	assert.Contains(t, out, `deciding -- "continue" --> awaiting_candidate`)
	assert.Contains(t, out, `deciding -- "terminate" --> feedback`)
	assert.Contains(t, out, "greeting --> awaiting_candidate")
	assert.Equal(t, 1, strings.Count(out, `deciding{"deciding"}`))
	assert.NotContains(t, out, "classDef")
}

func TestGenerateMermaid_Overlay(t *testing.T) {
	out := GenerateMermaid(interviewer.GraphEdges(), domain.NodeGreeting, &GraphOverlay{
		VisitedNodes: []domain.NodeID{domain.NodeGreeting, domain.NodeAwaitingCandidate, domain.NodeGreeting},
		CurrentNode:  domain.NodeClassifying,
	})

	assert.Contains(t, out, "classDef visited")
	assert.Equal(t, 1, strings.Count(out, "class greeting visited;"))
	assert.Contains(t, out, "class awaiting_candidate visited;")
	assert.Contains(t, out, "class classifying current;")
}

func TestSanitizeMermaidID(t *testing.T) {
	assert.Equal(t, "a_b_c_d_e", sanitizeMermaidID("a.b-c/d e"))
}
