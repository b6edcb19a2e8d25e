package runner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/interviewer"
	"github.com/aretw0/interviewer/internal/logging"
	"github.com/aretw0/interviewer/pkg/domain"
)

// Runner advances an interview to completion and reports the outcome.
type Runner struct {
	output   io.Writer
	renderer ContentRenderer
	logger   *slog.Logger
	json     bool
}

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithOutput sets where the closing report is written (stdout by default).
func WithOutput(w io.Writer) Option {
	return func(r *Runner) {
		r.output = w
	}
}

// WithRenderer configures the content renderer (e.g. TUI, Markdown).
func WithRenderer(renderer ContentRenderer) Option {
	return func(r *Runner) {
		r.renderer = renderer
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithJSON emits the closing report as a JSON-Lines Event.
func WithJSON(enabled bool) Option {
	return func(r *Runner) {
		r.json = enabled
	}
}

// NewRunner creates a Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		output: os.Stdout,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run advances eng until it is done or fails. When persisting the log fails
// the feedback is still reported before the error is returned.
func (r *Runner) Run(ctx context.Context, eng *interviewer.Engine) (interviewer.Status, error) {
	for !eng.Done() {
		if err := eng.Advance(ctx); err != nil {
			st := eng.Status()
			r.logger.Error("interview aborted", "node", st.Node, "turns", len(st.Turns), "err", err)

			var pErr *domain.PersistenceError
			if errors.As(err, &pErr) {
				r.reportFeedback(pErr.Feedback)
			}
			r.reportError(err)
			return st, err
		}
	}

	st := eng.Status()
	r.logger.Info("interview finished", "log_id", st.LogID, "turns", len(st.Turns), "difficulty", st.Session.Difficulty)
	r.report(st)
	return st, nil
}

func (r *Runner) report(st interviewer.Status) {
	if r.json {
		_ = json.NewEncoder(r.output).Encode(Event{
			Type:     EventFinished,
			LogID:    st.LogID,
			Turns:    len(st.Turns),
			Feedback: st.Feedback,
		})
		return
	}
	r.reportFeedback(st.Feedback)
	fmt.Fprintf(r.output, "\nInterview log saved: %s (%d turns)\n", st.LogID, len(st.Turns))
}

func (r *Runner) reportFeedback(feedback string) {
	if r.json || strings.TrimSpace(feedback) == "" {
		return
	}
	out := feedback
	if r.renderer != nil {
		if rendered, err := r.renderer(feedback); err == nil {
			out = rendered
		}
	}
	fmt.Fprintln(r.output, strings.TrimSpace(out))
}

func (r *Runner) reportError(err error) {
	if r.json {
		_ = json.NewEncoder(r.output).Encode(Event{Type: EventError, Error: err.Error()})
	}
}
