package core

import "fmt"

// AnalysisVote is one analyzer's classification of the evidence it was given.
// A vote exists only for a successful analysis; failures and timeouts produce
// no vote at all (explicit absence, never a zero-value placeholder). Votes
// are immutable once produced.
type AnalysisVote struct {
	Analyzer   string       // originating analyzer identity
	Kind       EvidenceKind // evidence kind the vote was derived from
	Label      Biome        // classification label
	Confidence float64      // in [0,1]; observability only, never a tie-break
	Rationale  string       // optional free-form justification
}

// Outcome records the result of one dispatched analysis task: either a vote
// or a tagged failure naming the analyzer and failure kind. The crew returns
// exactly one outcome per dispatched task.
type Outcome struct {
	Analyzer string
	Kind     EvidenceKind
	Vote     *AnalysisVote // nil when the task failed or timed out
	Failure  FailureKind   // FailureNone when Vote is set
	Err      error         // underlying error for failed tasks
}

// Voted reports whether the task produced a vote.
func (o Outcome) Voted() bool { return o.Vote != nil }

// String renders the outcome for logs and reports.
func (o Outcome) String() string {
	if o.Voted() {
		return fmt.Sprintf("%s: %s (%.2f)", o.Analyzer, o.Vote.Label, o.Vote.Confidence)
	}
	return fmt.Sprintf("%s: abstained (%s)", o.Analyzer, o.Failure)
}

// VoteOutcome wraps a successful vote as an outcome.
func VoteOutcome(vote AnalysisVote) Outcome {
	return Outcome{Analyzer: vote.Analyzer, Kind: vote.Kind, Vote: &vote}
}

// FailureOutcome records a failed or timed-out task. The failure kind is
// derived from err via ClassifyError.
func FailureOutcome(analyzer string, kind EvidenceKind, err error) Outcome {
	return Outcome{Analyzer: analyzer, Kind: kind, Failure: ClassifyError(err), Err: err}
}
