// Package logging provides a tiny abstraction over slog so downstream code
// can depend on a minimal interface (Logger) while allowing callers to plug
// any structured logger. It also offers a RunLogger with contextual helpers
// for run, participant and component attributes.
package logging
