package consensus

import (
	"sort"

	"github.com/starfall-systems/homeward/core"
)

// Resolve tallies the outcomes of one crew run against the total number of
// dispatched tasks and produces the run's single consensus decision.
//
// The rule is deliberate and auditable: a label is confirmed only when its
// vote count exceeds half of totalDispatched. Failed and timed-out tasks
// stay in the denominator, so {A, timeout, timeout} over three tasks is
// inconclusive even though every received vote agrees. Confidence scores are
// carried through for observability and never break ties; a tie is always
// inconclusive.
//
// Resolve is pure and order-insensitive: the same multiset of outcomes
// yields the same decision.
func Resolve(outcomes []core.Outcome, totalDispatched int) core.ConsensusDecision {
	decision := core.ConsensusDecision{
		Tally:      map[core.Biome]int{},
		Dispatched: totalDispatched,
	}

	for _, outcome := range outcomes {
		if outcome.Voted() {
			decision.Tally[outcome.Vote.Label]++
			decision.Votes = append(decision.Votes, *outcome.Vote)
			continue
		}
		decision.Abstained = append(decision.Abstained, outcome.Analyzer)
	}

	// Normalize carried collections so the decision is independent of
	// completion order.
	sort.Strings(decision.Abstained)
	sort.Slice(decision.Votes, func(i, j int) bool {
		return decision.Votes[i].Analyzer < decision.Votes[j].Analyzer
	})

	for label, count := range decision.Tally {
		if 2*count > totalDispatched {
			decision.Winner = label
			decision.Confirmed = true
			break // strict majority is unique
		}
	}

	return decision
}
