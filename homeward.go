// Package homeward provides a high-level façade over the location consensus
// engine. Most applications interact with this package by:
//  1. Creating a Homeward via New() with the analyzers to dispatch
//  2. Optionally overriding the registry endpoint, loader, sink or logger
//  3. Calling Locate() once per participant to produce one decision
//
// The façade wires the context loader, evidence analysis crew, consensus
// resolver and commit step together while keeping setup ergonomics concise.
// Defaults are safe for local development; production callers typically
// supply a structured logger and their registry base URL.
package homeward

import (
	"context"
	"time"

	"github.com/starfall-systems/homeward/analyzer"
	"github.com/starfall-systems/homeward/crew"
	"github.com/starfall-systems/homeward/logging"
	"github.com/starfall-systems/homeward/orchestrator"
	"github.com/starfall-systems/homeward/registry"
)

// Options configure the Homeward instance.
type Options struct {
	// RegistryBaseURL points at the participant backend; used to build the
	// default loader and confirmation sink when none are supplied.
	RegistryBaseURL string

	// TaskTimeout is the shared per-analyzer deadline for each run.
	TaskTimeout time.Duration

	// LoadRetries is how many extra context-load attempts are made while
	// the registry is unavailable.
	LoadRetries int

	// Loader overrides the registry-backed context loader.
	Loader orchestrator.Loader

	// Confirmer overrides the registry-backed confirmation sink.
	Confirmer orchestrator.Confirmer

	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
}

// Homeward is the high-level façade aggregating the engine components.
type Homeward struct {
	opts Options
	orch *orchestrator.Orchestrator
}

// New creates a Homeward instance dispatching the given analyzers. Any unset
// boundary is initialized from RegistryBaseURL.
func New(analyzers []analyzer.Analyzer, optFns ...func(o *Options)) *Homeward {
	opts := Options{
		RegistryBaseURL: "http://localhost:8080",
		TaskTimeout:     crew.DefaultTaskTimeout,
		Logger:          logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Loader == nil || opts.Confirmer == nil {
		client := registry.NewClient(opts.RegistryBaseURL)
		if opts.Loader == nil {
			opts.Loader = client
		}
		if opts.Confirmer == nil {
			opts.Confirmer = client
		}
	}

	analysisCrew := crew.New(analyzers, func(o *crew.Options) {
		o.TaskTimeout = opts.TaskTimeout
		o.Logger = opts.Logger
	})

	orch := orchestrator.New(opts.Loader, analysisCrew, opts.Confirmer, func(o *orchestrator.Options) {
		o.Logger = opts.Logger
		o.LoadRetries = opts.LoadRetries
	})

	return &Homeward{opts: opts, orch: orch}
}

// Locate runs the full pipeline for one participant and returns the run
// report. The error is non-nil only when the run failed; an inconclusive
// decision is a valid completion whose tally is carried in the report.
func (h *Homeward) Locate(ctx context.Context, participantID string) (*orchestrator.Report, error) {
	return h.orch.Run(ctx, participantID)
}
