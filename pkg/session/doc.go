/*
Package session hosts live interviews for request/response transports.

A Manager owns one engine per interview id, feeds candidate messages through
an in-memory inbox and advances the engine until it waits for the next message
or finishes. Access to a single interview is serialized with a reference-counted
local lock and, optionally, a distributed lock shared across replicas. Finished
interviews are kept in a bounded LRU cache so their status stays readable.
*/
package session
