package runtime

import (
	"fmt"
	"strings"
	"text/template"

	"github.com/aretw0/interviewer/pkg/domain"
)

// Greeter renders the opening message from the session.
type Greeter struct {
	tmpl *template.Template
}

// NewGreeter parses text as a text/template executed against *domain.Session.
// The template is test-rendered so Render cannot fail later.
func NewGreeter(text string) (*Greeter, error) {
	tmpl, err := template.New("greeting").Option("missingkey=error").Parse(text)
	if err != nil {
		return nil, fmt.Errorf("invalid greeting template: %w", err)
	}
	if err := tmpl.Execute(&strings.Builder{}, domain.NewSession("", "", "")); err != nil {
		return nil, fmt.Errorf("invalid greeting template: %w", err)
	}
	return &Greeter{tmpl: tmpl}, nil
}

// Render returns the greeting for s.
func (g *Greeter) Render(s *domain.Session) string {
	var b strings.Builder
	if err := g.tmpl.Execute(&b, s); err != nil {
		return fmt.Sprintf("%s %s", s.TargetGrade, s.Position)
	}
	return b.String()
}
