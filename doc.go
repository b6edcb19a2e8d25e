/*
Package interviewer runs technical interviews as a small, explicit state machine.

A session moves through greeting, candidate input, classification, turn recording,
reply generation and a termination decision, looping until the candidate stops,
the classifier reads a stop intent, or the turn cap is reached. A feedback
synthesizer then writes the final evaluation and the log is persisted once.

# Concept

The engine never talks to a model or a terminal directly. The host supplies:

  - a ports.Generator (the text-generation backend, e.g. Gemini),
  - a ports.InputSource (console, HTTP queue, simulated candidate),
  - a ports.LogSink (file, Redis, S3, Postgres, memory).

The host drives the loop with Advance (one node per call) or Run.

# Usage

	eng, err := interviewer.New(interviewer.Profile{
		Position:    "Data Analyst",
		TargetGrade: "Junior",
		Experience:  "SQL, pandas",
	}, gen, input, sink)
	if err != nil {
		log.Fatal(err)
	}
	if err := eng.Run(ctx); err != nil {
		log.Fatal(err)
	}
	fmt.Println(eng.Status().Feedback)

Classifier failures never reach the caller: they degrade to a fallback verdict.
Failures of the reply generator, the feedback synthesizer or the sink are fatal
and are returned as *domain.GenerationError or *domain.PersistenceError.
*/
package interviewer
