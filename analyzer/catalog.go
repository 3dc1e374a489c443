package analyzer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	"github.com/starfall-systems/homeward/core"
	_ "modernc.org/sqlite"
)

// CatalogAnalyzer resolves stellar evidence against the managed star catalog.
// The evidence reference is a feature key in query-string form, e.g.
// "primary_star=green_pulsar&nebula_type=purple_magenta", and the catalog
// maps stellar features to the biome of the quadrant they are visible from.
type CatalogAnalyzer struct {
	name string
	kind core.EvidenceKind
	db   *sql.DB
}

// Catalog feature columns understood in evidence references.
var catalogFeatures = []string{"primary_star", "nebula_type", "stellar_color"}

// NewCatalogAnalyzer creates a catalog-backed analyzer over db.
func NewCatalogAnalyzer(name string, kind core.EvidenceKind, db *sql.DB) *CatalogAnalyzer {
	return &CatalogAnalyzer{name: name, kind: kind, db: db}
}

// OpenCatalog opens the star catalog database at dsn (":memory:" works for
// tests) and verifies connectivity.
func OpenCatalog(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open star catalog: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("open star catalog: %w", err)
	}
	return db, nil
}

// Name implements Analyzer.
func (a *CatalogAnalyzer) Name() string { return a.name }

// Kind implements Analyzer.
func (a *CatalogAnalyzer) Kind() core.EvidenceKind { return a.kind }

// Analyze implements Analyzer. It scores every catalog row against the
// features named in the evidence reference and votes for the biome of the
// best-matching rows. Confidence is the fraction of supplied features the
// best row matched. Query failures and unmatchable references are adapter
// errors, never low-confidence votes.
func (a *CatalogAnalyzer) Analyze(ctx context.Context, req Request) (core.AnalysisVote, error) {
	features, err := parseFeatures(req.Ref)
	if err != nil {
		return core.AnalysisVote{}, fmt.Errorf("%w: %s: %v", core.ErrAdapter, a.name, err)
	}

	rows, err := a.db.QueryContext(ctx,
		`SELECT primary_star, nebula_type, stellar_color, biome FROM star_catalog`)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return core.AnalysisVote{}, fmt.Errorf("%w: %s", core.ErrTimeout, a.name)
		}
		return core.AnalysisVote{}, fmt.Errorf("%w: %s: catalog query: %v", core.ErrAdapter, a.name, err)
	}
	defer rows.Close()

	best := map[core.Biome]int{} // biome -> best per-row feature match count
	for rows.Next() {
		var primaryStar, nebulaType, stellarColor, biome string
		if err := rows.Scan(&primaryStar, &nebulaType, &stellarColor, &biome); err != nil {
			return core.AnalysisVote{}, fmt.Errorf("%w: %s: catalog scan: %v", core.ErrAdapter, a.name, err)
		}
		row := map[string]string{
			"primary_star":  primaryStar,
			"nebula_type":   nebulaType,
			"stellar_color": stellarColor,
		}
		matched := 0
		for col, want := range features {
			if row[col] == want {
				matched++
			}
		}
		label := core.Biome(strings.ToUpper(biome))
		if matched > best[label] {
			best[label] = matched
		}
	}
	if err := rows.Err(); err != nil {
		return core.AnalysisVote{}, fmt.Errorf("%w: %s: catalog query: %v", core.ErrAdapter, a.name, err)
	}

	winner, matched := bestBiome(best)
	if matched == 0 {
		return core.AnalysisVote{}, fmt.Errorf("%w: %s: no catalog entry matches %q", core.ErrAdapter, a.name, req.Ref)
	}

	return core.AnalysisVote{
		Analyzer:   a.name,
		Kind:       a.kind,
		Label:      winner,
		Confidence: float64(matched) / float64(len(features)),
		Rationale:  fmt.Sprintf("%d of %d stellar features match the %s region", matched, len(features), winner),
	}, nil
}

// parseFeatures decodes the evidence reference into recognized catalog
// feature columns.
func parseFeatures(ref string) (map[string]string, error) {
	values, err := url.ParseQuery(ref)
	if err != nil {
		return nil, fmt.Errorf("bad feature key %q: %v", ref, err)
	}
	features := map[string]string{}
	for _, col := range catalogFeatures {
		if v := values.Get(col); v != "" {
			features[col] = v
		}
	}
	if len(features) == 0 {
		return nil, fmt.Errorf("no recognized stellar features in %q", ref)
	}
	return features, nil
}

// bestBiome picks the biome with the highest match count. Equal counts are
// broken by label order so the vote stays deterministic for a fixed catalog.
func bestBiome(scores map[core.Biome]int) (core.Biome, int) {
	labels := make([]core.Biome, 0, len(scores))
	for label := range scores {
		labels = append(labels, label)
	}
	sort.Slice(labels, func(i, j int) bool { return labels[i] < labels[j] })

	var winner core.Biome
	matched := 0
	for _, label := range labels {
		if scores[label] > matched {
			winner, matched = label, scores[label]
		}
	}
	return winner, matched
}

// SeedCatalog creates the star_catalog table if needed and loads the survey
// rows mapping stellar features to quadrants and biomes.
func SeedCatalog(ctx context.Context, db *sql.DB) error {
	const schema = `CREATE TABLE IF NOT EXISTS star_catalog (
		primary_star TEXT NOT NULL,
		nebula_type TEXT NOT NULL,
		stellar_color TEXT NOT NULL,
		quadrant TEXT NOT NULL,
		biome TEXT NOT NULL
	)`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("seed star catalog: %w", err)
	}

	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM star_catalog`).Scan(&count); err != nil {
		return fmt.Errorf("seed star catalog: %w", err)
	}
	if count > 0 {
		return nil
	}

	rows := []struct {
		primaryStar, nebulaType, stellarColor string
		quadrant                              core.Quadrant
		biome                                 core.Biome
	}{
		{"blue_giant", "ice_blue", "blue_white", core.QuadrantNW, core.BiomeCryo},
		{"blue_giant", "crystalline", "blue_white", core.QuadrantNW, core.BiomeCryo},
		{"blue_supergiant", "ice_blue", "cyan", core.QuadrantNW, core.BiomeCryo},
		{"red_dwarf", "orange_red", "red_orange", core.QuadrantNE, core.BiomeVolcanic},
		{"red_dwarf_binary", "fire", "red_orange", core.QuadrantNE, core.BiomeVolcanic},
		{"red_giant", "orange_red", "deep_red", core.QuadrantNE, core.BiomeVolcanic},
		{"green_pulsar", "purple_magenta", "green_purple", core.QuadrantSW, core.BiomeBioluminescent},
		{"pulsar", "purple", "green", core.QuadrantSW, core.BiomeBioluminescent},
		{"magnetar", "bioluminescent", "cyan_purple", core.QuadrantSW, core.BiomeBioluminescent},
		{"yellow_sun", "golden", "yellow_gold", core.QuadrantSE, core.BiomeFossilized},
		{"yellow_dwarf", "amber", "warm_yellow", core.QuadrantSE, core.BiomeFossilized},
		{"orange_sun", "golden_brown", "amber", core.QuadrantSE, core.BiomeFossilized},
	}

	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("seed star catalog: %w", err)
	}
	defer tx.Rollback()

	for _, r := range rows {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO star_catalog (primary_star, nebula_type, stellar_color, quadrant, biome) VALUES (?, ?, ?, ?, ?)`,
			r.primaryStar, r.nebulaType, r.stellarColor, string(r.quadrant), string(r.biome),
		); err != nil {
			return fmt.Errorf("seed star catalog: %w", err)
		}
	}

	return tx.Commit()
}
