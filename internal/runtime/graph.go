package runtime

import (
	"fmt"

	"github.com/aretw0/interviewer/pkg/domain"
)

// Graph is a static set of labelled edges between nodes.
type Graph struct {
	entry domain.NodeID
	edges []domain.Edge
	index map[domain.NodeID]map[domain.Branch]domain.NodeID
}

// NewGraph builds a graph rooted at entry. A (From, Label) pair may appear only once.
func NewGraph(entry domain.NodeID, edges ...domain.Edge) (*Graph, error) {
	g := &Graph{
		entry: entry,
		edges: make([]domain.Edge, 0, len(edges)),
		index: make(map[domain.NodeID]map[domain.Branch]domain.NodeID),
	}
	for _, edge := range edges {
		out, ok := g.index[edge.From]
		if !ok {
			out = make(map[domain.Branch]domain.NodeID)
			g.index[edge.From] = out
		}
		if _, dup := out[edge.Label]; dup {
			return nil, fmt.Errorf("duplicate edge from '%s' labelled '%s'", edge.From, edge.Label)
		}
		out[edge.Label] = edge.To
		g.edges = append(g.edges, edge)
	}
	if _, ok := g.index[entry]; !ok {
		return nil, fmt.Errorf("entry node '%s' has no outgoing edges", entry)
	}
	return g, nil
}

// InterviewGraph returns the fixed interview wiring:
//
//	greeting → awaiting_candidate → classifying → recording → generating → deciding
//	deciding --continue--> awaiting_candidate
//	deciding --terminate--> feedback → done
func InterviewGraph() *Graph {
	g, err := NewGraph(domain.NodeGreeting,
		domain.Edge{From: domain.NodeGreeting, To: domain.NodeAwaitingCandidate},
		domain.Edge{From: domain.NodeAwaitingCandidate, To: domain.NodeClassifying},
		domain.Edge{From: domain.NodeClassifying, To: domain.NodeRecording},
		domain.Edge{From: domain.NodeRecording, To: domain.NodeGenerating},
		domain.Edge{From: domain.NodeGenerating, To: domain.NodeDeciding},
		domain.Edge{From: domain.NodeDeciding, To: domain.NodeAwaitingCandidate, Label: domain.BranchContinue},
		domain.Edge{From: domain.NodeDeciding, To: domain.NodeFeedback, Label: domain.BranchTerminate},
		domain.Edge{From: domain.NodeFeedback, To: domain.NodeDone},
	)
	if err != nil {
		panic(err)
	}
	return g
}

// Entry returns the first node.
func (g *Graph) Entry() domain.NodeID {
	return g.entry
}

// Next resolves the edge leaving from with the given label.
func (g *Graph) Next(from domain.NodeID, label domain.Branch) (domain.NodeID, error) {
	to, ok := g.index[from][label]
	if !ok {
		return "", &domain.InvalidTransitionError{From: from, Label: label}
	}
	return to, nil
}

// Edges returns the wiring in declaration order.
func (g *Graph) Edges() []domain.Edge {
	out := make([]domain.Edge, len(g.edges))
	copy(out, g.edges)
	return out
}
