package interviewer

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/interviewer/internal/runtime"
	"github.com/aretw0/interviewer/pkg/domain"
	"github.com/aretw0/interviewer/pkg/ports"
)

// Profile describes the candidate and the role being interviewed for.
type Profile struct {
	ParticipantName string
	Position        string
	TargetGrade     string
	Experience      string
}

// Temperatures groups the sampling temperature of each generation call.
type Temperatures = runtime.Temperatures

// DefaultTemperatures returns the classifier/interviewer/feedback defaults (0.2 / 0.4 / 0.3).
func DefaultTemperatures() Temperatures { return runtime.DefaultTemperatures() }

// Engine is the high-level entry point for running one interview.
// It wraps the internal runtime and is not safe for concurrent use.
type Engine struct {
	runtime *runtime.Engine
}

// Status is a read-only view of an engine between steps.
type Status struct {
	Node     domain.NodeID
	Prompt   string
	Session  domain.Session
	Turns    []domain.Turn
	Done     bool
	LogID    string
	Feedback string
	Err      error
}

// Waiting reports whether the engine is blocked on the next candidate message.
func (s Status) Waiting() bool {
	return s.Node == domain.NodeAwaitingCandidate && s.Err == nil
}

type settings struct {
	hooks        domain.LifecycleHooks
	logger       *slog.Logger
	maxTurns     int
	stopKeywords []string
	minLevel     int
	maxLevel     int
	temperatures *Temperatures
	greeting     string
}

// Option defines a functional option for configuring the Engine.
type Option func(*settings)

// WithLifecycleHooks registers observability hooks. Repeated calls are merged.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(s *settings) {
		s.hooks = s.hooks.Merge(hooks)
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(s *settings) {
		s.logger = logger
	}
}

// WithMaxTurns sets the turn cap (default 8).
func WithMaxTurns(n int) Option {
	return func(s *settings) {
		s.maxTurns = n
	}
}

// WithStopKeywords replaces the stop keyword set. The first keyword becomes
// the message recorded for a stop request.
func WithStopKeywords(keywords ...string) Option {
	return func(s *settings) {
		s.stopKeywords = keywords
	}
}

// WithDifficultyBounds sets the difficulty range (default [1,3]).
func WithDifficultyBounds(lo, hi int) Option {
	return func(s *settings) {
		s.minLevel, s.maxLevel = lo, hi
	}
}

// WithTemperatures overrides the per-node sampling temperatures.
func WithTemperatures(t Temperatures) Option {
	return func(s *settings) {
		s.temperatures = &t
	}
}

// WithGreetingTemplate overrides the opening message. The template is
// executed against domain.Session, e.g. "{{.TargetGrade}} {{.Position}}".
func WithGreetingTemplate(text string) Option {
	return func(s *settings) {
		s.greeting = text
	}
}

// New creates an interview engine for profile.
func New(profile Profile, gen ports.Generator, input ports.InputSource, sink ports.LogSink, opts ...Option) (*Engine, error) {
	cfg := settings{
		maxTurns:     domain.DefaultMaxTurns,
		stopKeywords: domain.DefaultStopKeywords(),
		minLevel:     domain.DefaultMinDifficulty,
		maxLevel:     domain.DefaultMaxDifficulty,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	session, err := domain.NewSessionWithBounds(profile.Position, profile.TargetGrade, profile.Experience, cfg.minLevel, cfg.maxLevel)
	if err != nil {
		return nil, err
	}

	participant := profile.ParticipantName
	if participant == "" {
		participant = domain.DefaultParticipantName
	}

	runtimeOpts := []runtime.EngineOption{
		runtime.WithParticipant(participant),
		runtime.WithPolicy(runtime.Policy{MaxTurns: cfg.maxTurns, StopKeywords: cfg.stopKeywords}),
		runtime.WithLifecycleHooks(cfg.hooks),
	}
	if cfg.logger != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithLogger(cfg.logger))
	}
	if cfg.temperatures != nil {
		runtimeOpts = append(runtimeOpts, runtime.WithTemperatures(*cfg.temperatures))
	}
	if cfg.greeting != "" {
		runtimeOpts = append(runtimeOpts, runtime.WithGreetingTemplate(cfg.greeting))
	}

	rt, err := runtime.NewEngine(session, gen, input, sink, runtimeOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create engine: %w", err)
	}
	return &Engine{runtime: rt}, nil
}

// Advance executes exactly one node. It is a no-op once the interview is done.
func (e *Engine) Advance(ctx context.Context) error {
	return e.runtime.Advance(ctx)
}

// Run advances until the interview is done or a fatal error occurs.
func (e *Engine) Run(ctx context.Context) error {
	return e.runtime.Run(ctx)
}

// AdvanceUntil advances until stop reports true for the current status.
func (e *Engine) AdvanceUntil(ctx context.Context, stop func(Status) bool) error {
	return e.runtime.AdvanceUntil(ctx, func(*runtime.Engine) bool {
		return stop(e.Status())
	})
}

// Status returns a snapshot of the engine.
func (e *Engine) Status() Status {
	st := Status{
		Node:    e.runtime.Current(),
		Prompt:  e.runtime.Prompt(),
		Session: e.runtime.Session(),
		Turns:   e.runtime.Turns(),
		Done:    e.runtime.Done(),
		LogID:   e.runtime.LogID(),
		Err:     e.runtime.Err(),
	}
	if doc := e.runtime.Document(); doc != nil {
		st.Feedback = doc.FinalFeedback
	}
	return st
}

// Done reports whether the interview reached its terminal node.
func (e *Engine) Done() bool {
	return e.runtime.Done()
}

// Document returns the persisted log, or nil before the interview ends.
func (e *Engine) Document() *domain.LogDocument {
	return e.runtime.Document()
}

// Edges returns the execution graph wiring for visualization.
func (e *Engine) Edges() []domain.Edge {
	return e.runtime.Graph().Edges()
}

// GraphEdges returns the interview graph wiring without creating an engine.
func GraphEdges() []domain.Edge {
	return runtime.InterviewGraph().Edges()
}
