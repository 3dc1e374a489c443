package crew

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starfall-systems/homeward/analyzer"
	"github.com/starfall-systems/homeward/core"
)

// stubAnalyzer is a deterministic analyzer used to exercise dispatch. A
// non-zero delay is a true stall: it ignores context cancellation the way a
// stuck remote backend would.
type stubAnalyzer struct {
	name     string
	kind     core.EvidenceKind
	template string
	label    core.Biome
	err      error
	delay    time.Duration

	mu      sync.Mutex
	calls   int
	lastReq analyzer.Request
}

func (s *stubAnalyzer) Name() string            { return s.name }
func (s *stubAnalyzer) Kind() core.EvidenceKind { return s.kind }

func (s *stubAnalyzer) InstructionTemplate() string { return s.template }

func (s *stubAnalyzer) Analyze(_ context.Context, req analyzer.Request) (core.AnalysisVote, error) {
	s.mu.Lock()
	s.calls++
	s.lastReq = req
	s.mu.Unlock()

	if s.delay > 0 {
		time.Sleep(s.delay)
	}
	if s.err != nil {
		return core.AnalysisVote{}, s.err
	}
	return core.AnalysisVote{Analyzer: s.name, Kind: s.kind, Label: s.label, Confidence: 0.9}, nil
}

func (s *stubAnalyzer) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}

func (s *stubAnalyzer) lastRequest() analyzer.Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastReq
}

func testContext() *core.ParticipantContext {
	return &core.ParticipantContext{
		ParticipantID: "p-1",
		Username:      "ada",
		Evidence: map[core.EvidenceKind]string{
			core.EvidenceSoil:    "https://evidence/soil.png",
			core.EvidenceFlora:   "https://evidence/flora.mp4",
			core.EvidenceStellar: "primary_star=pulsar",
		},
	}
}

func TestCrew_Prepare(t *testing.T) {
	soil := &stubAnalyzer{name: "soil-analyst", kind: core.EvidenceSoil, template: "inspect {{.soil_url}} for {{.username}}"}
	stellar := &stubAnalyzer{name: "stellar-cartographer", kind: core.EvidenceStellar}

	c := New([]analyzer.Analyzer{soil, stellar}, func(o *Options) { o.TaskTimeout = 5 * time.Second })
	assert.Equal(t, 2, c.Size())
	assert.Equal(t, []core.EvidenceKind{core.EvidenceSoil, core.EvidenceStellar}, c.RequiredKinds())

	tasks, err := c.Prepare(testContext())
	require.NoError(t, err)
	require.Len(t, tasks, 2)

	assert.Equal(t, "https://evidence/soil.png", tasks[0].Request.Ref)
	assert.Equal(t, "inspect https://evidence/soil.png for ada", tasks[0].Request.Instruction)
	assert.Equal(t, 5*time.Second, tasks[0].Budget)

	assert.Equal(t, "primary_star=pulsar", tasks[1].Request.Ref)
	assert.Empty(t, tasks[1].Request.Instruction)
}

func TestCrew_Prepare_MissingReference(t *testing.T) {
	flora := &stubAnalyzer{name: "flora-analyst", kind: core.EvidenceFlora}
	c := New([]analyzer.Analyzer{flora})

	pctx := testContext()
	delete(pctx.Evidence, core.EvidenceFlora)

	_, err := c.Prepare(pctx)
	assert.ErrorIs(t, err, core.ErrIncompleteContext)
	assert.Equal(t, 0, flora.callCount(), "nothing may be dispatched for an incomplete context")
}

func TestCrew_Prepare_UnresolvedPlaceholder(t *testing.T) {
	soil := &stubAnalyzer{name: "soil-analyst", kind: core.EvidenceSoil, template: "inspect {{.beacon_url}}"}
	c := New([]analyzer.Analyzer{soil})

	_, err := c.Prepare(testContext())
	assert.ErrorIs(t, err, core.ErrIncompleteContext)
	assert.Equal(t, 0, soil.callCount())
}

func TestCrew_Run_OneOutcomePerTask(t *testing.T) {
	soil := &stubAnalyzer{name: "soil-analyst", kind: core.EvidenceSoil, label: core.BiomeVolcanic}
	flora := &stubAnalyzer{name: "flora-analyst", kind: core.EvidenceFlora, label: core.BiomeVolcanic}
	stellar := &stubAnalyzer{name: "stellar-cartographer", kind: core.EvidenceStellar, label: core.BiomeCryo}

	c := New([]analyzer.Analyzer{soil, flora, stellar})
	tasks, err := c.Prepare(testContext())
	require.NoError(t, err)

	outcomes := c.Run(context.Background(), tasks)
	require.Len(t, outcomes, 3)

	byName := map[string]core.Outcome{}
	for _, o := range outcomes {
		byName[o.Analyzer] = o
	}
	assert.Len(t, byName, 3, "outcome identity is preserved per analyzer")
	assert.Equal(t, core.BiomeVolcanic, byName["soil-analyst"].Vote.Label)
	assert.Equal(t, core.BiomeCryo, byName["stellar-cartographer"].Vote.Label)
}

func TestCrew_Run_FailureBecomesAbstention(t *testing.T) {
	soil := &stubAnalyzer{name: "soil-analyst", kind: core.EvidenceSoil, label: core.BiomeCryo}
	flora := &stubAnalyzer{name: "flora-analyst", kind: core.EvidenceFlora, err: errors.New("backend exploded")}

	c := New([]analyzer.Analyzer{soil, flora})
	tasks, err := c.Prepare(testContext())
	require.NoError(t, err)

	outcomes := c.Run(context.Background(), tasks)
	require.Len(t, outcomes, 2)

	byName := map[string]core.Outcome{}
	for _, o := range outcomes {
		byName[o.Analyzer] = o
	}
	assert.True(t, byName["soil-analyst"].Voted())
	failed := byName["flora-analyst"]
	assert.False(t, failed.Voted())
	assert.Equal(t, core.FailureAdapter, failed.Failure, "untyped errors normalize to adapter failures")
	assert.ErrorIs(t, failed.Err, core.ErrAdapter)
}

func TestCrew_Run_AbandonsStuckAnalyzer(t *testing.T) {
	stuck := &stubAnalyzer{name: "soil-analyst", kind: core.EvidenceSoil, label: core.BiomeCryo, delay: 2 * time.Second}
	fast := &stubAnalyzer{name: "flora-analyst", kind: core.EvidenceFlora, label: core.BiomeCryo}

	c := New([]analyzer.Analyzer{stuck, fast}, func(o *Options) { o.TaskTimeout = 50 * time.Millisecond })
	tasks, err := c.Prepare(testContext())
	require.NoError(t, err)

	start := time.Now()
	outcomes := c.Run(context.Background(), tasks)
	elapsed := time.Since(start)

	require.Len(t, outcomes, 2)
	byName := map[string]core.Outcome{}
	for _, o := range outcomes {
		byName[o.Analyzer] = o
	}

	assert.Equal(t, core.FailureTimeout, byName["soil-analyst"].Failure)
	assert.ErrorIs(t, byName["soil-analyst"].Err, core.ErrTimeout)
	assert.True(t, byName["flora-analyst"].Voted(), "a sibling timeout never cancels other tasks")
	assert.Less(t, elapsed, time.Second, "the stuck analyzer is abandoned at its deadline, not awaited")
}

func TestCrew_Run_PassesRequests(t *testing.T) {
	soil := &stubAnalyzer{name: "soil-analyst", kind: core.EvidenceSoil, label: core.BiomeCryo, template: "see {{.soil_url}}"}
	c := New([]analyzer.Analyzer{soil})

	tasks, err := c.Prepare(testContext())
	require.NoError(t, err)
	c.Run(context.Background(), tasks)

	req := soil.lastRequest()
	assert.Equal(t, "https://evidence/soil.png", req.Ref)
	assert.Equal(t, "see https://evidence/soil.png", req.Instruction)
	assert.Equal(t, 1, soil.callCount(), "each task is consumed exactly once")
}

func TestNormalizeTaskError(t *testing.T) {
	adapterErr := fmt.Errorf("%w: boom", core.ErrAdapter)
	assert.Equal(t, adapterErr, normalizeTaskError("a", adapterErr), "taxonomy errors pass through unchanged")

	timeoutErr := fmt.Errorf("%w: slow", core.ErrTimeout)
	assert.Equal(t, timeoutErr, normalizeTaskError("a", timeoutErr))

	assert.ErrorIs(t, normalizeTaskError("a", context.DeadlineExceeded), core.ErrTimeout)
	assert.ErrorIs(t, normalizeTaskError("a", errors.New("anything")), core.ErrAdapter)
}
