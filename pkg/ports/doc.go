/*
Package ports defines the driven ports (interfaces) for the interview engine.

These interfaces decouple the core graph from the text-generation backend,
the place candidate messages come from and the storage that keeps finished
interview logs.

# Key Interfaces

  - Generator: the external text-generation capability (Gemini, scripted fakes).
  - InputSource: blocks for the next candidate message (console, HTTP queue, simulated candidate).
  - LogSink / LogReader: write-once persistence of the final LogDocument.
  - DistributedLocker: distributed locking for sinks shared between replicas.
*/
package ports
