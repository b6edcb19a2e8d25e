package runtime

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aretw0/interviewer/internal/logging"
	"github.com/aretw0/interviewer/pkg/domain"
	"github.com/aretw0/interviewer/pkg/ports"
)

// Temperatures groups the sampling temperature of each generation call.
type Temperatures struct {
	Classifier  float64
	Interviewer float64
	Feedback    float64
}

// DefaultTemperatures returns 0.2 / 0.4 / 0.3.
func DefaultTemperatures() Temperatures {
	return Temperatures{
		Classifier:  domain.DefaultClassifierTemperature,
		Interviewer: domain.DefaultInterviewerTemperature,
		Feedback:    domain.DefaultFeedbackTemperature,
	}
}

// Engine runs one interview. It is not safe for concurrent use.
type Engine struct {
	graph   *Graph
	session *domain.Session
	ledger  domain.Ledger
	ec      *domain.ExecutionContext
	current domain.NodeID

	participant  string
	policy       Policy
	temperatures Temperatures
	greeting     string

	gen   ports.Generator
	input ports.InputSource
	sink  ports.LogSink

	greeter     *Greeter
	classifier  *Classifier
	dialogue    *DialogueGenerator
	synthesizer *Synthesizer

	hooks  domain.LifecycleHooks
	logger *slog.Logger

	err      error
	logID    string
	document *domain.LogDocument
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = e.hooks.Merge(hooks)
	}
}

// WithPolicy replaces the termination policy.
func WithPolicy(p Policy) EngineOption {
	return func(e *Engine) {
		e.policy = p
	}
}

// WithParticipant sets the name written to the log document.
func WithParticipant(name string) EngineOption {
	return func(e *Engine) {
		e.participant = name
	}
}

// WithTemperatures overrides the per-node sampling temperatures.
func WithTemperatures(t Temperatures) EngineOption {
	return func(e *Engine) {
		e.temperatures = t
	}
}

// WithGreetingTemplate overrides the opening message template.
func WithGreetingTemplate(text string) EngineOption {
	return func(e *Engine) {
		e.greeting = text
	}
}

// NewEngine wires an interview for session. gen is shared by the classifier,
// the dialogue generator and the feedback synthesizer.
func NewEngine(session *domain.Session, gen ports.Generator, input ports.InputSource, sink ports.LogSink, opts ...EngineOption) (*Engine, error) {
	if session == nil {
		return nil, errors.New("session is required")
	}
	if gen == nil || input == nil || sink == nil {
		return nil, errors.New("generator, input source and log sink are required")
	}

	e := &Engine{
		graph:        InterviewGraph(),
		session:      session,
		ec:           &domain.ExecutionContext{},
		participant:  domain.DefaultParticipantName,
		policy:       DefaultPolicy(),
		temperatures: DefaultTemperatures(),
		greeting:     domain.DefaultGreetingTemplate,
		gen:          gen,
		input:        input,
		sink:         sink,
		logger:       logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.current = e.graph.Entry()

	if err := e.policy.Validate(); err != nil {
		return nil, fmt.Errorf("invalid policy: %w", err)
	}
	greeter, err := NewGreeter(e.greeting)
	if err != nil {
		return nil, err
	}
	e.greeter = greeter

	e.classifier = NewClassifier(e.observe(domain.NodeClassifying),
		WithClassifierTemperature(e.temperatures.Classifier),
		WithClassifierLogger(e.logger),
	)
	e.dialogue = NewDialogueGenerator(e.observe(domain.NodeGenerating))
	e.dialogue.temperature = e.temperatures.Interviewer
	e.synthesizer = NewSynthesizer(e.observe(domain.NodeFeedback))
	e.synthesizer.temperature = e.temperatures.Feedback

	return e, nil
}

// Current returns the node that the next Advance will execute.
func (e *Engine) Current() domain.NodeID { return e.current }

// Done reports whether the engine reached the terminal node.
func (e *Engine) Done() bool { return e.current == domain.NodeDone }

// Err returns the fatal error latched by a previous Advance, if any.
func (e *Engine) Err() error { return e.err }

// Session returns a snapshot of the session record.
func (e *Engine) Session() domain.Session { return e.session.Snapshot() }

// Turns returns the recorded turns.
func (e *Engine) Turns() []domain.Turn { return e.ledger.Turns() }

// Prompt returns the interviewer message currently shown to the candidate.
func (e *Engine) Prompt() string { return e.ec.InterviewerMessage }

// LogID returns the id assigned by the sink once the log has been persisted.
func (e *Engine) LogID() string { return e.logID }

// Document returns the persisted log document, or nil before the feedback node completes.
func (e *Engine) Document() *domain.LogDocument { return e.document }

// Graph returns the execution graph.
func (e *Engine) Graph() *Graph { return e.graph }

// Advance executes exactly one node and moves to the next one.
// At done it does nothing. A fatal error is latched and returned by every later call.
// A node interrupted by ctx cancellation is not latched and runs again on the next call.
func (e *Engine) Advance(ctx context.Context) error {
	if e.err != nil {
		return e.err
	}
	if e.current == domain.NodeDone {
		return nil
	}

	node := e.current
	e.emitNodeEnter(ctx, node)

	label, err := e.execute(ctx, node)
	if err != nil {
		if interrupted(ctx, err) {
			e.logger.Debug("node interrupted", "node", node, "err", err)
			return err
		}
		e.err = err
		return err
	}

	next, err := e.graph.Next(node, label)
	if err != nil {
		e.err = err
		return err
	}

	e.emitNodeLeave(ctx, node)
	if node == domain.NodeDeciding && label == domain.BranchContinue {
		e.ec = e.ec.NextPass()
	}
	e.logger.Debug("transition", "from", node, "to", next, "label", label)
	e.current = next
	return nil
}

// Run advances until done or a fatal error.
func (e *Engine) Run(ctx context.Context) error {
	return e.AdvanceUntil(ctx, func(*Engine) bool { return false })
}

// AdvanceUntil advances until stop returns true, the engine is done, or an error occurs.
// stop is checked before every step.
func (e *Engine) AdvanceUntil(ctx context.Context, stop func(*Engine) bool) error {
	for !e.Done() {
		if e.err != nil {
			return e.err
		}
		if stop(e) {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := e.Advance(ctx); err != nil {
			return err
		}
	}
	return nil
}

func interrupted(ctx context.Context, err error) bool {
	if ctx.Err() == nil {
		return false
	}
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func (e *Engine) execute(ctx context.Context, node domain.NodeID) (domain.Branch, error) {
	switch node {
	case domain.NodeGreeting:
		e.ec.InterviewerMessage = e.greeter.Render(e.session)
		return domain.BranchAlways, nil
	case domain.NodeAwaitingCandidate:
		return domain.BranchAlways, e.awaitCandidate(ctx)
	case domain.NodeClassifying:
		e.classify(ctx)
		return domain.BranchAlways, nil
	case domain.NodeRecording:
		return domain.BranchAlways, e.record(ctx)
	case domain.NodeGenerating:
		return domain.BranchAlways, e.generate(ctx)
	case domain.NodeDeciding:
		return Decide(e.policy, e.session, e.ec), nil
	case domain.NodeFeedback:
		return domain.BranchAlways, e.finish(ctx)
	}
	return "", &domain.InvalidTransitionError{From: node}
}

func (e *Engine) awaitCandidate(ctx context.Context) error {
	for {
		msg, err := e.input.Next(ctx, e.ec.InterviewerMessage)
		if errors.Is(err, io.EOF) {
			e.logger.Info("candidate input closed, stopping interview")
			e.stopWith()
			return nil
		}
		if err != nil {
			return &domain.InputError{Err: err}
		}
		if strings.TrimSpace(msg) == "" {
			e.logger.Debug("ignoring blank candidate message")
			continue
		}
		if e.policy.IsStopRequest(msg) {
			e.logger.Info("stop keyword received", "message", msg)
			e.stopWith()
			return nil
		}
		e.ec.CandidateMessage = msg
		return nil
	}
}

func (e *Engine) stopWith() {
	e.session.MarkStopped()
	e.ec.CandidateMessage = e.policy.StopMessage()
}

func (e *Engine) classify(ctx context.Context) {
	if !e.ec.HasCandidateMessage() {
		e.logger.Warn("classifying skipped: no candidate message")
		return
	}
	c := e.classifier.Evaluate(ctx, e.ec.CandidateMessage)
	e.ec.Verdict = &c.Verdict
	e.emitVerdict(ctx, c)
}

func (e *Engine) record(ctx context.Context) error {
	if !e.ec.HasCandidateMessage() || e.ec.Verdict == nil {
		e.logger.Warn("recording skipped: exchange incomplete")
		return nil
	}
	turn, err := Record(e.session, &e.ledger, e.ec.InterviewerMessage, e.ec.CandidateMessage, *e.ec.Verdict)
	if err != nil {
		return err
	}
	e.emitTurnRecorded(ctx, turn)
	return nil
}

func (e *Engine) generate(ctx context.Context) error {
	if e.session.Stopped {
		e.logger.Debug("generating skipped: session stopped")
		return nil
	}
	if e.ec.Verdict == nil {
		e.logger.Warn("generating skipped: no verdict")
		return nil
	}
	before := e.session.Difficulty
	reply, err := e.dialogue.Generate(ctx, e.session, *e.ec.Verdict, e.ledger.Turns())
	if err != nil {
		return err
	}
	if e.session.Difficulty != before {
		e.logger.Debug("difficulty adjusted", "from", before, "to", e.session.Difficulty)
	}
	e.ec.Reply = reply
	return nil
}

func (e *Engine) finish(ctx context.Context) error {
	doc, err := e.synthesizer.Synthesize(ctx, e.participant, e.session, &e.ledger)
	if err != nil {
		return err
	}
	e.session.MarkStopped()

	id, err := e.sink.Persist(ctx, doc)
	if err != nil {
		return &domain.PersistenceError{Document: doc, Feedback: doc.FinalFeedback, Err: err}
	}
	e.logID = id
	e.document = doc
	e.logger.Info("interview log persisted", "id", id, "turns", len(doc.Turns))
	return nil
}
