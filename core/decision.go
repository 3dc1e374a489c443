package core

import (
	"fmt"
	"sort"
	"strings"
)

// ConsensusDecision is the aggregate outcome of one run. It is produced
// exactly once per run by the consensus resolver and consumed by the
// orchestrator's commit step. Confirmed is true only when one label holds a
// strict majority of all dispatched tasks; abstentions count against the
// majority, they never shrink the denominator.
type ConsensusDecision struct {
	Winner     Biome          // "" when inconclusive
	Confirmed  bool           // strict majority reached
	Tally      map[Biome]int  // vote count per label
	Abstained  []string       // analyzers that failed or timed out, sorted
	Votes      []AnalysisVote // successful votes, for observability
	Dispatched int            // total tasks dispatched (the majority denominator)
}

// Inconclusive reports whether no label reached a strict majority.
func (d ConsensusDecision) Inconclusive() bool { return !d.Confirmed }

// String renders the decision with its tally, e.g.
// "VOLCANIC confirmed 2/3 (soil-analyst abstained)".
func (d ConsensusDecision) String() string {
	var b strings.Builder
	if d.Confirmed {
		fmt.Fprintf(&b, "%s confirmed %d/%d", d.Winner, d.Tally[d.Winner], d.Dispatched)
	} else {
		fmt.Fprintf(&b, "inconclusive %s of %d", d.tallyString(), d.Dispatched)
	}
	if len(d.Abstained) > 0 {
		fmt.Fprintf(&b, " (%s abstained)", strings.Join(d.Abstained, ", "))
	}
	return b.String()
}

func (d ConsensusDecision) tallyString() string {
	labels := make([]Biome, 0, len(d.Tally))
	for label := range d.Tally {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })
	parts := make([]string, len(labels))
	for i, label := range labels {
		parts[i] = fmt.Sprintf("%s=%d", label, d.Tally[label])
	}
	if len(parts) == 0 {
		return "no votes"
	}
	return strings.Join(parts, " ")
}
