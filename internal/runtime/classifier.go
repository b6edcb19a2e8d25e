package runtime

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/aretw0/interviewer/internal/logging"
	"github.com/aretw0/interviewer/pkg/domain"
	"github.com/aretw0/interviewer/pkg/ports"
	"github.com/aretw0/interviewer/prompts"
)

// Fallback kinds reported alongside a substituted verdict.
const (
	FallbackEmpty      = "empty"
	FallbackUnparsable = "unparsable"
	FallbackCallFailed = "call_failed"
)

const snippetRunes = 50

// Classification is a verdict plus the reason it was substituted, if it was.
type Classification struct {
	Verdict  domain.Verdict
	Fallback string
}

// Classifier turns a candidate message into a Verdict. It never fails:
// every problem with the generator is absorbed into a fallback verdict.
type Classifier struct {
	gen         ports.Generator
	temperature float64
	prompt      string
	logger      *slog.Logger
}

// ClassifierOption configures a Classifier.
type ClassifierOption func(*Classifier)

// WithClassifierTemperature overrides the sampling temperature (default 0.2).
func WithClassifierTemperature(t float64) ClassifierOption {
	return func(c *Classifier) { c.temperature = t }
}

// WithClassifierPrompt overrides the system framing.
func WithClassifierPrompt(prompt string) ClassifierOption {
	return func(c *Classifier) { c.prompt = prompt }
}

// WithClassifierLogger sets the logger used to report recovered failures.
func WithClassifierLogger(logger *slog.Logger) ClassifierOption {
	return func(c *Classifier) { c.logger = logger }
}

// NewClassifier creates a classifier backed by gen.
func NewClassifier(gen ports.Generator, opts ...ClassifierOption) *Classifier {
	c := &Classifier{
		gen:         gen,
		temperature: domain.DefaultClassifierTemperature,
		prompt:      prompts.ClassifierSystemPrompt,
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify returns the verdict for message.
func (c *Classifier) Classify(ctx context.Context, message string) domain.Verdict {
	return c.Evaluate(ctx, message).Verdict
}

// Evaluate is Classify with the fallback reason exposed.
func (c *Classifier) Evaluate(ctx context.Context, message string) Classification {
	raw, err := c.invoke(ctx, message)
	if err != nil {
		c.logger.Error("classifier call failed", "err", err)
		return Classification{
			Verdict:  domain.FallbackVerdict(fmt.Sprintf("classifier call failed: %v", err)),
			Fallback: FallbackCallFailed,
		}
	}

	if strings.TrimSpace(raw) == "" {
		c.logger.Warn("classifier returned an empty response")
		return Classification{
			Verdict:  domain.FallbackVerdict(domain.FallbackReasonEmpty),
			Fallback: FallbackEmpty,
		}
	}

	v, err := domain.ParseVerdict(raw)
	if err != nil {
		snippet := truncateRunes(strings.TrimSpace(raw), snippetRunes)
		c.logger.Warn("classifier returned an unparsable response", "snippet", snippet, "err", err)
		return Classification{
			Verdict:  domain.FallbackVerdict(fmt.Sprintf("unparsable response %q: %v", snippet, err)),
			Fallback: FallbackUnparsable,
		}
	}
	return Classification{Verdict: v}
}

func (c *Classifier) invoke(ctx context.Context, message string) (raw string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generator panicked: %v", r)
		}
	}()
	return c.gen.Invoke(ctx, []domain.Message{
		domain.SystemMessage(c.prompt),
		domain.UserMessage(message),
	}, c.temperature)
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
