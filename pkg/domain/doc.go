/*
Package domain contains the core data model of the interview engine.

It defines the entities the execution graph reads and mutates: the Session,
the Verdict produced by the classifier, the append-only Turn Ledger and the
per-pass ExecutionContext. This package is kept pure and free of external
dependencies like I/O or persistence, following Hexagonal Architecture principles.

# Key Entities

  - Session: mutable record of one interview attempt (difficulty, turn count, stop flag).
  - Verdict: structured classification of one candidate message, with a named fallback.
  - Turn / Ledger: immutable exchanges, appended strictly in turn_id order.
  - LogDocument: the audit document persisted once per session.
*/
package domain
