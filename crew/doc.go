// Package crew runs the configured analyzers concurrently against one
// immutable participant context. Dispatch is independent: all tasks start at
// once, a failure or timeout in one never cancels or delays the others, and
// the join is a full barrier that yields exactly one outcome per dispatched
// task. Each task writes its own outcome slot, so the join primitive is the
// only synchronization the collection needs.
package crew
