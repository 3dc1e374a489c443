package crew

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/starfall-systems/homeward/analyzer"
	"github.com/starfall-systems/homeward/core"
	"github.com/starfall-systems/homeward/internal/util"
	"github.com/starfall-systems/homeward/logging"
)

// DefaultTaskTimeout bounds one analysis task when no override is given.
const DefaultTaskTimeout = 60 * time.Second

// Task binds one analyzer capability to one evidence reference plus a
// bounded time budget. Tasks are created by Prepare and consumed exactly
// once by Run.
type Task struct {
	Analyzer analyzer.Analyzer
	Request  analyzer.Request
	Budget   time.Duration
}

// Options configure a Crew.
type Options struct {
	// TaskTimeout is the shared per-task deadline. An analyzer exceeding it
	// is abandoned and recorded as a timeout outcome.
	TaskTimeout time.Duration
	// Logger receives per-task diagnostics.
	Logger logging.Logger
}

// Crew coordinates the concurrent execution of all configured analyzers.
type Crew struct {
	analyzers   []analyzer.Analyzer
	taskTimeout time.Duration
	logger      logging.Logger
}

// New creates a crew over the given analyzers.
func New(analyzers []analyzer.Analyzer, optFns ...func(o *Options)) *Crew {
	opts := Options{
		TaskTimeout: DefaultTaskTimeout,
		Logger:      logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Crew{analyzers: analyzers, taskTimeout: opts.TaskTimeout, logger: opts.Logger}
}

// Size returns the number of analyzers the crew dispatches per run.
func (c *Crew) Size() int { return len(c.analyzers) }

// RequiredKinds lists the evidence kinds the crew needs a reference for.
func (c *Crew) RequiredKinds() []core.EvidenceKind {
	kinds := make([]core.EvidenceKind, len(c.analyzers))
	for i, a := range c.analyzers {
		kinds[i] = a.Kind()
	}
	return kinds
}

// Prepare validates the participant context against the configured analyzers
// and builds one task per analyzer with its instruction placeholders
// resolved. Any missing evidence reference or unresolved placeholder fails
// with core.ErrIncompleteContext before anything is dispatched.
func (c *Crew) Prepare(pctx *core.ParticipantContext) ([]Task, error) {
	if err := pctx.Validate(c.RequiredKinds()); err != nil {
		return nil, err
	}

	placeholders := pctx.Placeholders()
	tasks := make([]Task, 0, len(c.analyzers))
	for _, a := range c.analyzers {
		ref, _ := pctx.EvidenceRef(a.Kind())
		req := analyzer.Request{Ref: ref}
		if templater, ok := a.(analyzer.InstructionTemplater); ok {
			rendered, err := util.RenderTemplate(templater.InstructionTemplate(), placeholders)
			if err != nil {
				return nil, fmt.Errorf("%w: instruction for %s: %v", core.ErrIncompleteContext, a.Name(), err)
			}
			req.Instruction = rendered
		}
		tasks = append(tasks, Task{Analyzer: a, Request: req, Budget: c.taskTimeout})
	}
	return tasks, nil
}

// Run dispatches every task concurrently and joins at a barrier, returning
// exactly one outcome per task. Run itself never fails; partial failures are
// encoded in the outcome list. Each task writes one pre-allocated slot, so
// no lock guards the collection.
func (c *Crew) Run(ctx context.Context, tasks []Task) []core.Outcome {
	outcomes := make([]core.Outcome, len(tasks))

	var g errgroup.Group
	for i, task := range tasks {
		i, task := i, task
		g.Go(func() error {
			outcomes[i] = c.runTask(ctx, task)
			return nil
		})
	}
	g.Wait() //nolint:errcheck // task errors are recovered as outcomes

	return outcomes
}

// runTask executes one analysis under its time budget. The analyzer call
// runs in its own goroutine so a stuck backend can be abandoned at the
// deadline; its eventual result, if any, is discarded.
func (c *Crew) runTask(ctx context.Context, task Task) core.Outcome {
	name := task.Analyzer.Name()
	kind := task.Analyzer.Kind()

	taskCtx, cancel := context.WithTimeout(ctx, task.Budget)
	defer cancel()

	type result struct {
		vote core.AnalysisVote
		err  error
	}
	done := make(chan result, 1)
	start := time.Now()
	go func() {
		vote, err := task.Analyzer.Analyze(taskCtx, task.Request)
		done <- result{vote: vote, err: err}
	}()

	select {
	case <-taskCtx.Done():
		err := fmt.Errorf("%w: %s exceeded %s budget", core.ErrTimeout, name, task.Budget)
		c.logger.Warn("analysis abandoned", "analyzer", name, "budget", task.Budget.String())
		return core.FailureOutcome(name, kind, err)
	case r := <-done:
		if r.err != nil {
			c.logger.Warn("analysis failed", "analyzer", name, "error", r.err.Error(), "duration", time.Since(start).String())
			return core.FailureOutcome(name, kind, normalizeTaskError(name, r.err))
		}
		c.logger.Debug("analysis completed", "analyzer", name, "label", string(r.vote.Label), "confidence", r.vote.Confidence, "duration", time.Since(start).String())
		return core.VoteOutcome(r.vote)
	}
}

// normalizeTaskError forces every analyzer error into the two analysis
// failure kinds so nothing outside the taxonomy leaks into outcomes.
func normalizeTaskError(name string, err error) error {
	if errors.Is(err, core.ErrTimeout) || errors.Is(err, core.ErrAdapter) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %s: %v", core.ErrTimeout, name, err)
	}
	return fmt.Errorf("%w: %s: %v", core.ErrAdapter, name, err)
}
