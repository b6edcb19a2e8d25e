package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/interviewer"
	"github.com/aretw0/interviewer/internal/config"
	"github.com/aretw0/interviewer/internal/presentation/tui"
	"github.com/aretw0/interviewer/pkg/observability"
	"github.com/aretw0/interviewer/pkg/ports"
	"github.com/aretw0/interviewer/pkg/runner"
)

// App wires configuration to adapters for the CLI commands.
type App struct {
	Config *config.Config
	Logger *slog.Logger
	In     io.Reader
	Out    io.Writer

	// Generator and Sink replace the configured ones when set.
	Generator ports.Generator
	Sink      ports.LogStore

	// Renderer formats markdown for the terminal; nil prints plain text.
	Renderer runner.ContentRenderer
}

// NewApp creates an App on the process stdio.
func NewApp(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		Config:   cfg,
		Logger:   logger,
		In:       os.Stdin,
		Out:      os.Stdout,
		Renderer: tui.RendererFor(os.Stdout),
	}
}

func (a *App) generator(ctx context.Context) (ports.Generator, error) {
	if a.Generator != nil {
		return a.Generator, nil
	}
	return NewGenerator(ctx, a.Config, a.Logger)
}

func (a *App) sink(ctx context.Context) (ports.LogStore, func() error, error) {
	if a.Sink != nil {
		return a.Sink, func() error { return nil }, nil
	}
	return OpenSink(ctx, a.Config)
}

// RunOptions controls an interactive interview.
type RunOptions struct {
	JSON     bool
	Debug    bool
	NoBanner bool
}

// RunInterview conducts one interview over the App's input and output.
// Ctrl+C ends the interview early; feedback is still produced.
func (a *App) RunInterview(ctx context.Context, opts RunOptions) error {
	if err := a.Config.RequireProfile(); err != nil {
		return err
	}
	gen, err := a.generator(ctx)
	if err != nil {
		return err
	}
	sink, closeSink, err := a.sink(ctx)
	if err != nil {
		return err
	}
	defer closeSink()

	var src ports.InputSource
	if opts.JSON {
		src = runner.NewJSONSource(a.In, a.Out)
	} else {
		if !opts.NoBanner {
			tui.PrintBanner(a.Out)
			printSystemMessage(a.Out, "Type %q to finish the interview.", a.Config.Interview.StopKeywords[0])
		}
		src = runner.NewConsoleSource(a.In, a.Out, runner.WithConsoleRenderer(a.Renderer))
	}

	signals := runner.NewSignalManager()
	defer signals.Stop()
	src = runner.Interruptible(src, signals)

	hooks := observability.LoggingHooks(a.Logger)
	eng, err := interviewer.New(Profile(a.Config), gen, src, sink, EngineOptions(a.Config, a.Logger, hooks)...)
	if err != nil {
		return err
	}

	r := runner.NewRunner(
		runner.WithOutput(a.Out),
		runner.WithRenderer(a.Renderer),
		runner.WithLogger(a.Logger),
		runner.WithJSON(opts.JSON),
	)
	_, err = r.Run(ctx, eng)
	return handleExecutionError(err)
}

// SimulateOptions controls a simulated interview.
type SimulateOptions struct {
	Persona    string
	MaxAnswers int
}

// Simulate runs an interview against an LLM-played candidate and prints the dialogue.
func (a *App) Simulate(ctx context.Context, opts SimulateOptions) error {
	if err := a.Config.RequireProfile(); err != nil {
		return err
	}
	gen, err := a.generator(ctx)
	if err != nil {
		return err
	}
	sink, closeSink, err := a.sink(ctx)
	if err != nil {
		return err
	}
	defer closeSink()

	persona := opts.Persona
	if persona == "" {
		persona = fmt.Sprintf("%s %s, опыт: %s", a.Config.Interview.TargetGrade, a.Config.Interview.Position, a.Config.Interview.Experience)
	}
	candidate := runner.NewSimulatedCandidate(gen, persona,
		runner.WithCandidateTemperature(a.Config.Interview.Temperatures.Candidate),
		runner.WithMaxAnswers(opts.MaxAnswers),
		runner.WithEcho(a.Out),
	)

	eng, err := interviewer.New(Profile(a.Config), gen, candidate, sink,
		EngineOptions(a.Config, a.Logger, observability.LoggingHooks(a.Logger))...)
	if err != nil {
		return err
	}
	_, err = runner.NewRunner(
		runner.WithOutput(a.Out),
		runner.WithRenderer(a.Renderer),
		runner.WithLogger(a.Logger),
	).Run(ctx, eng)
	return err
}

// ListLogs prints the ids of persisted interview logs.
func (a *App) ListLogs(ctx context.Context) error {
	sink, closeSink, err := a.sink(ctx)
	if err != nil {
		return err
	}
	defer closeSink()

	ids, err := sink.List(ctx)
	if err != nil {
		return err
	}
	if len(ids) == 0 {
		printSystemMessage(a.Out, "No interview logs found.")
		return nil
	}
	for _, id := range ids {
		fmt.Fprintln(a.Out, id)
	}
	return nil
}

// ShowLog prints one interview log as markdown, or as JSON when raw is set.
func (a *App) ShowLog(ctx context.Context, id string, raw bool) error {
	sink, closeSink, err := a.sink(ctx)
	if err != nil {
		return err
	}
	defer closeSink()

	doc, err := sink.Load(ctx, id)
	if err != nil {
		return err
	}
	if raw {
		return writeJSON(a.Out, doc)
	}

	out := tui.FormatDocument(id, doc)
	if a.Renderer != nil {
		if rendered, err := a.Renderer(out); err == nil {
			out = rendered
		}
	}
	_, err = fmt.Fprint(a.Out, out)
	return err
}

func handleExecutionError(err error) error {
	if err == nil || errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
