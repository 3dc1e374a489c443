package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/starfall-systems/homeward"
	"github.com/starfall-systems/homeward/analyzer"
	"github.com/starfall-systems/homeward/config"
	"github.com/starfall-systems/homeward/core"
	"github.com/starfall-systems/homeward/logging"
	"github.com/starfall-systems/homeward/model"
	"github.com/starfall-systems/homeward/model/anthropic"
	"github.com/starfall-systems/homeward/model/openai"
)

var (
	locateParticipant string
	locateCrewFile    string
	locateSeedCatalog bool
)

var locateCmd = &cobra.Command{
	Use:   "locate",
	Short: "Run the analysis crew and commit the consensus location",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return runLocate(cmd.Context())
	},
}

func init() {
	locateCmd.Flags().StringVarP(&locateParticipant, "participant", "p", "", "participant identifier (required)")
	locateCmd.Flags().StringVar(&locateCrewFile, "crew-file", "", "crew manifest YAML (defaults to the built-in crew)")
	locateCmd.Flags().BoolVar(&locateSeedCatalog, "seed-catalog", false, "create and seed the star catalog before running")
	_ = locateCmd.MarkFlagRequired("participant")
}

func runLocate(ctx context.Context) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return err
	}

	logger := logging.New(&logging.Config{
		Level:     parseLogLevel(cfg.LogLevel),
		Format:    cfg.LogFormat,
		Output:    os.Stderr,
		Component: "homeward",
	})

	manifest := config.DefaultManifest()
	if locateCrewFile != "" {
		manifest, err = config.LoadManifest(locateCrewFile)
		if err != nil {
			return err
		}
	}

	db, err := openCatalogIfNeeded(ctx, cfg, manifest)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
	}

	analyzers, err := buildAnalyzers(manifest, db)
	if err != nil {
		return err
	}

	h := homeward.New(analyzers, func(o *homeward.Options) {
		o.RegistryBaseURL = cfg.APIBase
		o.TaskTimeout = cfg.TaskTimeout
		o.LoadRetries = cfg.LoadRetries
		o.Logger = logger
	})

	report, err := h.Locate(ctx, locateParticipant)
	if err != nil {
		return fmt.Errorf("%s", report)
	}

	decision := report.Decision
	if report.Committed() {
		fmt.Printf("Location confirmed: %s (quadrant %s), %d/%d analysts agree\n",
			decision.Winner, decision.Winner.Quadrant(), decision.Tally[decision.Winner], decision.Dispatched)
		return nil
	}

	fmt.Printf("Inconclusive: %s\n", decision)
	fmt.Println("Regenerate evidence and re-run, or adjust the crew.")
	return nil
}

// openCatalogIfNeeded opens (and optionally seeds) the star catalog when the
// manifest names a catalog-backed analyzer.
func openCatalogIfNeeded(ctx context.Context, cfg *config.Config, manifest *config.Manifest) (*sql.DB, error) {
	needed := false
	for _, spec := range manifest.Analyzers {
		if spec.Backend == config.BackendCatalog {
			needed = true
			break
		}
	}
	if !needed {
		return nil, nil
	}

	db, err := analyzer.OpenCatalog(ctx, cfg.CatalogDSN)
	if err != nil {
		return nil, err
	}
	if locateSeedCatalog {
		if err := analyzer.SeedCatalog(ctx, db); err != nil {
			db.Close()
			return nil, err
		}
	}
	return db, nil
}

// buildAnalyzers instantiates the crew described by the manifest.
func buildAnalyzers(manifest *config.Manifest, db *sql.DB) ([]analyzer.Analyzer, error) {
	analyzers := make([]analyzer.Analyzer, 0, len(manifest.Analyzers))
	for _, spec := range manifest.Analyzers {
		kind := core.EvidenceKind(spec.Kind)
		switch spec.Backend {
		case config.BackendModel:
			analyzers = append(analyzers, analyzer.NewModelAnalyzer(spec.Name, kind, newModel(spec.Provider), spec.Instruction))
		case config.BackendRemote:
			analyzers = append(analyzers, analyzer.NewRemoteAnalyzer(spec.Name, kind, spec.Endpoint))
		case config.BackendCatalog:
			if db == nil {
				return nil, fmt.Errorf("analyzer %q: no star catalog available", spec.Name)
			}
			analyzers = append(analyzers, analyzer.NewCatalogAnalyzer(spec.Name, kind, db))
		default:
			return nil, fmt.Errorf("analyzer %q: unknown backend %q", spec.Name, spec.Backend)
		}
	}
	return analyzers, nil
}

func newModel(provider string) model.Model {
	if provider == "anthropic" {
		return anthropic.NewModel()
	}
	return openai.NewModel()
}

func parseLogLevel(level string) logging.LogLevel {
	switch level {
	case "debug":
		return logging.LogLevelDebug
	case "warn":
		return logging.LogLevelWarn
	case "error":
		return logging.LogLevelError
	default:
		return logging.LogLevelInfo
	}
}
