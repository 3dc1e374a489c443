// Package registry is the client for the participant backend: it resolves a
// participant identifier into the evidence reference bundle before any
// analysis starts (the context loader) and reports the confirmed location
// back (the confirmation sink). The client performs one external call per
// operation and never retries internally; retry policy belongs to the
// orchestrator.
package registry
