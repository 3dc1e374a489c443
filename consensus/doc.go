// Package consensus aggregates analysis outcomes into one decision by
// majority rule. A label wins only with a strict majority of all dispatched
// tasks, so an analyzer crash counts as a vote against consensus instead of
// shrinking the quorum, and a minority of responsive analyzers can never
// force a decision. Absence of majority is a valid outcome (inconclusive),
// never an error.
package consensus
