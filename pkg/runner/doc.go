/*
Package runner drives an interview from a terminal or a pipe.

It supplies the input sources the engine reads candidate messages from and a
Runner that advances the engine until it finishes, printing the closing
feedback.

# Key Components

  - Runner: advances an interviewer.Engine to completion and reports the result.
  - ConsoleSource: interactive line-based input with an optional markdown renderer.
  - JSONSource: JSON-Lines input/output for headless use.
  - SimulatedCandidate: an LLM-played candidate for demos and load tests.
  - Interruptible: turns Ctrl+C into a stop request so feedback is still produced.

# Usage

	signals := runner.NewSignalManager()
	defer signals.Stop()

	src := runner.Interruptible(runner.NewConsoleSource(os.Stdin, os.Stdout), signals)
	eng, _ := interviewer.New(profile, gen, src, sink)

	r := runner.NewRunner(runner.WithOutput(os.Stdout))
	if _, err := r.Run(ctx, eng); err != nil {
		log.Fatal(err)
	}
*/
package runner
