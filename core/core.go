package core

import (
	"fmt"
	"sort"

	"github.com/google/uuid"
)

// EvidenceKind identifies one category of crash-site evidence. Each analyzer
// is bound to exactly one kind and reads exactly one reference of that kind
// from the participant context.
type EvidenceKind string

// Evidence kinds produced for every participant.
const (
	EvidenceSoil    EvidenceKind = "soil"
	EvidenceFlora   EvidenceKind = "flora"
	EvidenceStellar EvidenceKind = "stellar"
)

// Biome is a classification label naming the biome of the crash site. The
// planet is partitioned into four quadrants, each with a distinct biome, so a
// biome identifies a quadrant and vice versa.
type Biome string

// Known biomes and their quadrants.
const (
	BiomeCryo           Biome = "CRYO"           // Northwest
	BiomeVolcanic       Biome = "VOLCANIC"       // Northeast
	BiomeBioluminescent Biome = "BIOLUMINESCENT" // Southwest
	BiomeFossilized     Biome = "FOSSILIZED"     // Southeast
)

// Quadrant is a compass identifier for one quarter of the planet map.
type Quadrant string

// Planet quadrants.
const (
	QuadrantNW Quadrant = "NW"
	QuadrantNE Quadrant = "NE"
	QuadrantSW Quadrant = "SW"
	QuadrantSE Quadrant = "SE"
)

// Quadrant returns the map quadrant a biome occupies, or "" for an unknown
// biome label.
func (b Biome) Quadrant() Quadrant {
	switch b {
	case BiomeCryo:
		return QuadrantNW
	case BiomeVolcanic:
		return QuadrantNE
	case BiomeBioluminescent:
		return QuadrantSW
	case BiomeFossilized:
		return QuadrantSE
	default:
		return ""
	}
}

// Known reports whether b is one of the four recognized biome labels.
func (b Biome) Known() bool { return b.Quadrant() != "" }

// ParticipantContext bundles the evidence references resolved for one
// participant. It is created once per run by the context loader and must be
// treated as read-only afterwards; concurrent analyzer tasks read it without
// synchronization.
type ParticipantContext struct {
	ParticipantID string
	Username      string
	X, Y          int
	Evidence      map[EvidenceKind]string // evidence kind -> opaque reference
}

// EvidenceRef returns the reference stored for kind and whether a non-empty
// reference exists.
func (pc *ParticipantContext) EvidenceRef(kind EvidenceKind) (string, bool) {
	ref, ok := pc.Evidence[kind]
	return ref, ok && ref != ""
}

// Validate checks that the context carries a non-empty reference for every
// required evidence kind. A missing reference is reported as
// ErrIncompleteContext naming the kind.
func (pc *ParticipantContext) Validate(required []EvidenceKind) error {
	for _, kind := range required {
		if _, ok := pc.EvidenceRef(kind); !ok {
			return fmt.Errorf("%w: no %s evidence reference for participant %s", ErrIncompleteContext, kind, pc.ParticipantID)
		}
	}
	return nil
}

// Placeholders exposes the context as a flat map for instruction template
// substitution. Evidence references appear under "<kind>_url" (matching the
// registry's evidence_urls keys) alongside participant identity fields.
func (pc *ParticipantContext) Placeholders() map[string]any {
	ph := map[string]any{
		"participant_id": pc.ParticipantID,
		"username":       pc.Username,
	}
	for kind, ref := range pc.Evidence {
		if ref != "" {
			ph[string(kind)+"_url"] = ref
		}
	}
	return ph
}

// Kinds returns the evidence kinds present in the context in stable order.
func (pc *ParticipantContext) Kinds() []EvidenceKind {
	kinds := make([]EvidenceKind, 0, len(pc.Evidence))
	for k := range pc.Evidence {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// NewID generates a unique identifier for runs and events.
func NewID() string { return uuid.NewString() }
