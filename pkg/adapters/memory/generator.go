package memory

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/aretw0/interviewer/pkg/domain"
)

// ErrNoScript is returned by Generator when no rule matches a request.
var ErrNoScript = errors.New("no scripted response")

// Matcher selects the requests a scripted rule answers.
type Matcher func(messages []domain.Message) bool

// ForPrompt matches requests whose system message equals prompt.
func ForPrompt(prompt string) Matcher {
	return func(messages []domain.Message) bool {
		for _, m := range messages {
			if m.Role == domain.RoleSystem {
				return m.Content == prompt
			}
		}
		return false
	}
}

// UserContains matches requests whose user message contains substr.
func UserContains(substr string) Matcher {
	return func(messages []domain.Message) bool {
		for _, m := range messages {
			if m.Role == domain.RoleUser && strings.Contains(m.Content, substr) {
				return true
			}
		}
		return false
	}
}

// Response is one scripted outcome.
type Response struct {
	Text  string
	Err   error
	Panic any
}

// Reply returns a successful response.
func Reply(text string) Response { return Response{Text: text} }

// Fail returns a failing response.
func Fail(err error) Response { return Response{Err: err} }

// Call records one Invoke.
type Call struct {
	Messages    []domain.Message
	Temperature float64
}

type rule struct {
	match     Matcher
	responses []Response
	next      int
}

// Generator implements ports.Generator from a script. Rules are tried in
// registration order; each rule plays its responses in sequence and repeats
// the last one once exhausted. Safe for concurrent use.
type Generator struct {
	mu    sync.Mutex
	rules []*rule
	calls []Call
}

// NewGenerator creates an empty script.
func NewGenerator() *Generator {
	return &Generator{}
}

// On registers responses for requests matching m.
func (g *Generator) On(m Matcher, responses ...Response) *Generator {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.rules = append(g.rules, &rule{match: m, responses: responses})
	return g
}

// Invoke plays the next response of the first matching rule.
func (g *Generator) Invoke(ctx context.Context, messages []domain.Message, temperature float64) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	g.mu.Lock()
	g.calls = append(g.calls, Call{Messages: append([]domain.Message(nil), messages...), Temperature: temperature})
	var resp Response
	found := false
	for _, r := range g.rules {
		if !r.match(messages) || len(r.responses) == 0 {
			continue
		}
		resp = r.responses[min(r.next, len(r.responses)-1)]
		r.next++
		found = true
		break
	}
	g.mu.Unlock()

	if !found {
		return "", fmt.Errorf("%w for %d messages", ErrNoScript, len(messages))
	}
	if resp.Panic != nil {
		panic(resp.Panic)
	}
	return resp.Text, resp.Err
}

// Calls returns every recorded request.
func (g *Generator) Calls() []Call {
	g.mu.Lock()
	defer g.mu.Unlock()
	out := make([]Call, len(g.calls))
	copy(out, g.calls)
	return out
}

// CallsMatching counts recorded requests matching m.
func (g *Generator) CallsMatching(m Matcher) int {
	g.mu.Lock()
	defer g.mu.Unlock()
	n := 0
	for _, c := range g.calls {
		if m(c.Messages) {
			n++
		}
	}
	return n
}
