package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/starfall-systems/homeward/consensus"
	"github.com/starfall-systems/homeward/core"
	"github.com/starfall-systems/homeward/crew"
	"github.com/starfall-systems/homeward/logging"
)

// State names one stage of the run state machine.
type State string

// Run states. Committed, Inconclusive and Failed are terminal.
const (
	StateIdle          State = "idle"
	StateContextLoaded State = "context_loaded"
	StateDispatched    State = "dispatched"
	StateCollected     State = "collected"
	StateResolved      State = "resolved"
	StateCommitted     State = "committed"
	StateInconclusive  State = "inconclusive"
	StateFailed        State = "failed"
)

// Loader resolves a participant identifier into an evidence context.
type Loader interface {
	Load(ctx context.Context, participantID string) (*core.ParticipantContext, error)
}

// Confirmer is the external confirmation sink for a confirmed decision.
type Confirmer interface {
	Confirm(ctx context.Context, participantID string, label core.Biome) (bool, error)
}

// Report is the caller-visible result of one run. For an inconclusive run it
// carries the full decision (tally and abstentions) so the caller can decide
// whether to regenerate evidence and re-run the pipeline.
type Report struct {
	RunID         string
	ParticipantID string
	State         State
	Decision      *core.ConsensusDecision
	Failure       core.FailureKind
	Err           error
}

// Committed reports whether the run ended with an accepted commit.
func (r *Report) Committed() bool { return r.State == StateCommitted }

// String renders the report for operators.
func (r *Report) String() string {
	switch r.State {
	case StateCommitted:
		return fmt.Sprintf("run %s: committed %s", r.RunID, r.Decision)
	case StateInconclusive:
		return fmt.Sprintf("run %s: %s", r.RunID, r.Decision)
	case StateFailed:
		return fmt.Sprintf("run %s: failed (%s): %v", r.RunID, r.Failure, r.Err)
	default:
		return fmt.Sprintf("run %s: %s", r.RunID, r.State)
	}
}

// Options configure the orchestrator.
type Options struct {
	// Logger receives run diagnostics.
	Logger logging.Logger
	// LoadRetries is how many extra load attempts are made when the
	// registry is unavailable. NotFound is never retried.
	LoadRetries int
	// LoadRetryDelay is the pause between load attempts.
	LoadRetryDelay time.Duration
}

// Orchestrator owns the state machine for one decision per invocation.
// A single Orchestrator is safe for concurrent Run calls; all run state
// lives in the Report.
type Orchestrator struct {
	loader         Loader
	crew           *crew.Crew
	confirmer      Confirmer
	logger         logging.Logger
	loadRetries    int
	loadRetryDelay time.Duration
}

// New wires a loader, a crew and a confirmation sink into an orchestrator.
func New(loader Loader, analysisCrew *crew.Crew, confirmer Confirmer, optFns ...func(o *Options)) *Orchestrator {
	opts := Options{
		Logger:         logging.NoOpLogger{},
		LoadRetryDelay: 2 * time.Second,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Orchestrator{
		loader:         loader,
		crew:           analysisCrew,
		confirmer:      confirmer,
		logger:         opts.Logger,
		loadRetries:    opts.LoadRetries,
		loadRetryDelay: opts.LoadRetryDelay,
	}
}

// Run executes the full pipeline for participantID and produces one report.
// The returned error is non-nil only for Failed runs; an inconclusive run is
// a valid completion. Commit is invoked exactly once, and only for a
// confirmed decision.
func (o *Orchestrator) Run(ctx context.Context, participantID string) (*Report, error) {
	report := &Report{RunID: core.NewID(), ParticipantID: participantID, State: StateIdle}
	o.logger.Info("run started", "run_id", report.RunID, "participant_id", participantID)

	pctx, err := o.loadContext(ctx, participantID)
	if err != nil {
		return o.fail(report, err)
	}
	report.State = StateContextLoaded

	tasks, err := o.crew.Prepare(pctx)
	if err != nil {
		// Incomplete context short-circuits the run: zero analyzers dispatched.
		return o.fail(report, err)
	}

	report.State = StateDispatched
	outcomes := o.crew.Run(ctx, tasks)
	report.State = StateCollected

	decision := consensus.Resolve(outcomes, len(tasks))
	report.State = StateResolved
	report.Decision = &decision
	o.logger.Info("consensus resolved", "run_id", report.RunID, "decision", decision.String())

	if decision.Inconclusive() {
		report.State = StateInconclusive
		return report, nil
	}

	accepted, err := o.confirmer.Confirm(ctx, participantID, decision.Winner)
	if err != nil {
		// A partial commit must not be silently repeated; surface and stop.
		return o.fail(report, err)
	}
	if !accepted {
		return o.fail(report, fmt.Errorf("%w: sink rejected %s for participant %s", core.ErrCommitFailed, decision.Winner, participantID))
	}

	report.State = StateCommitted
	o.logger.Info("location committed", "run_id", report.RunID, "label", string(decision.Winner), "quadrant", string(decision.Winner.Quadrant()))
	return report, nil
}

// loadContext performs the external lookup, retrying only while the registry
// is unavailable. The loader itself never retries.
func (o *Orchestrator) loadContext(ctx context.Context, participantID string) (*core.ParticipantContext, error) {
	var lastErr error
	for attempt := 0; attempt <= o.loadRetries; attempt++ {
		if attempt > 0 {
			o.logger.Warn("retrying context load", "participant_id", participantID, "attempt", attempt)
			select {
			case <-ctx.Done():
				return nil, fmt.Errorf("%w: %v", core.ErrUpstreamUnavailable, ctx.Err())
			case <-time.After(o.loadRetryDelay):
			}
		}
		pctx, err := o.loader.Load(ctx, participantID)
		if err == nil {
			return pctx, nil
		}
		if !errors.Is(err, core.ErrUpstreamUnavailable) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

func (o *Orchestrator) fail(report *Report, err error) (*Report, error) {
	report.State = StateFailed
	report.Failure = core.ClassifyError(err)
	report.Err = err
	o.logger.Error("run failed", "run_id", report.RunID, "failure", string(report.Failure), "error", err.Error())
	return report, err
}
