// Package runtime drives an interview through its execution graph one node at a time.
//
// The graph has exactly one cycle (awaiting_candidate → ... → deciding → awaiting_candidate)
// and is bounded only by the termination Policy. Callers own the loop: Advance
// executes one node and returns.
package runtime
