package core

import "errors"

// Error taxonomy for the whole engine. Loader and commit errors are fatal to
// a run; analyzer errors are recovered by the crew as abstentions. Adapters
// must map every external failure onto exactly one of ErrTimeout or
// ErrAdapter so that a failed analysis is never mistaken for a low-confidence
// vote.
var (
	// ErrNotFound is returned when the participant registry has no record
	// for the requested identifier.
	ErrNotFound = errors.New("participant not found")

	// ErrUpstreamUnavailable is returned when the participant registry is
	// unreachable or answers with a server-side failure.
	ErrUpstreamUnavailable = errors.New("participant registry unavailable")

	// ErrIncompleteContext is returned when a participant context lacks an
	// evidence reference (or instruction placeholder value) that a
	// configured analyzer requires.
	ErrIncompleteContext = errors.New("incomplete participant context")

	// ErrTimeout is returned when an analyzer exceeds its task deadline.
	ErrTimeout = errors.New("analysis deadline exceeded")

	// ErrAdapter is returned when an analyzer backend fails for any reason
	// other than a deadline: transport errors, malformed payloads, query
	// failures.
	ErrAdapter = errors.New("analyzer failure")

	// ErrCommitFailed is returned when the confirmation sink rejects or
	// fails the final commit call.
	ErrCommitFailed = errors.New("location commit failed")
)

// FailureKind classifies an error from the taxonomy for reports and outcome
// records.
type FailureKind string

// Failure kinds mirroring the sentinel errors. FailureNone marks success.
const (
	FailureNone                FailureKind = ""
	FailureNotFound            FailureKind = "not_found"
	FailureUpstreamUnavailable FailureKind = "upstream_unavailable"
	FailureIncompleteContext   FailureKind = "incomplete_context"
	FailureTimeout             FailureKind = "timeout"
	FailureAdapter             FailureKind = "adapter_error"
	FailureCommit              FailureKind = "commit_failed"
	FailureUnknown             FailureKind = "unknown"
)

// ClassifyError maps an error onto its taxonomy kind. A nil error yields
// FailureNone; an error outside the taxonomy yields FailureUnknown.
func ClassifyError(err error) FailureKind {
	switch {
	case err == nil:
		return FailureNone
	case errors.Is(err, ErrNotFound):
		return FailureNotFound
	case errors.Is(err, ErrUpstreamUnavailable):
		return FailureUpstreamUnavailable
	case errors.Is(err, ErrIncompleteContext):
		return FailureIncompleteContext
	case errors.Is(err, ErrTimeout):
		return FailureTimeout
	case errors.Is(err, ErrAdapter):
		return FailureAdapter
	case errors.Is(err, ErrCommitFailed):
		return FailureCommit
	default:
		return FailureUnknown
	}
}
