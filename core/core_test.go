package core

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBiomeQuadrant(t *testing.T) {
	assert.Equal(t, QuadrantNW, BiomeCryo.Quadrant())
	assert.Equal(t, QuadrantNE, BiomeVolcanic.Quadrant())
	assert.Equal(t, QuadrantSW, BiomeBioluminescent.Quadrant())
	assert.Equal(t, QuadrantSE, BiomeFossilized.Quadrant())
	assert.Equal(t, Quadrant(""), Biome("SWAMP").Quadrant())
	assert.True(t, BiomeCryo.Known())
	assert.False(t, Biome("SWAMP").Known())
}

func TestParticipantContext_EvidenceRef(t *testing.T) {
	pc := &ParticipantContext{
		ParticipantID: "p-1",
		Evidence: map[EvidenceKind]string{
			EvidenceSoil:  "https://evidence/soil.png",
			EvidenceFlora: "",
		},
	}

	ref, ok := pc.EvidenceRef(EvidenceSoil)
	assert.True(t, ok)
	assert.Equal(t, "https://evidence/soil.png", ref)

	_, ok = pc.EvidenceRef(EvidenceFlora)
	assert.False(t, ok, "empty reference is treated as missing")

	_, ok = pc.EvidenceRef(EvidenceStellar)
	assert.False(t, ok)
}

func TestParticipantContext_Validate(t *testing.T) {
	pc := &ParticipantContext{
		ParticipantID: "p-1",
		Evidence: map[EvidenceKind]string{
			EvidenceSoil:    "https://evidence/soil.png",
			EvidenceStellar: "primary_star=pulsar",
		},
	}

	assert.NoError(t, pc.Validate([]EvidenceKind{EvidenceSoil, EvidenceStellar}))

	err := pc.Validate([]EvidenceKind{EvidenceSoil, EvidenceFlora})
	assert.ErrorIs(t, err, ErrIncompleteContext)
	assert.Contains(t, err.Error(), "flora")
}

func TestParticipantContext_Placeholders(t *testing.T) {
	pc := &ParticipantContext{
		ParticipantID: "p-1",
		Username:      "ada",
		Evidence: map[EvidenceKind]string{
			EvidenceSoil:  "https://evidence/soil.png",
			EvidenceFlora: "",
		},
	}

	ph := pc.Placeholders()
	assert.Equal(t, "p-1", ph["participant_id"])
	assert.Equal(t, "ada", ph["username"])
	assert.Equal(t, "https://evidence/soil.png", ph["soil_url"])
	_, ok := ph["flora_url"]
	assert.False(t, ok, "empty references produce no placeholder")
}

func TestClassifyError(t *testing.T) {
	cases := []struct {
		err  error
		want FailureKind
	}{
		{nil, FailureNone},
		{ErrNotFound, FailureNotFound},
		{ErrUpstreamUnavailable, FailureUpstreamUnavailable},
		{fmt.Errorf("wrap: %w", ErrIncompleteContext), FailureIncompleteContext},
		{fmt.Errorf("wrap: %w", ErrTimeout), FailureTimeout},
		{ErrAdapter, FailureAdapter},
		{ErrCommitFailed, FailureCommit},
		{errors.New("something else"), FailureUnknown},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, ClassifyError(tc.err))
	}
}

func TestOutcomeConstructors(t *testing.T) {
	vote := AnalysisVote{Analyzer: "soil-analyst", Kind: EvidenceSoil, Label: BiomeCryo, Confidence: 0.9}
	voted := VoteOutcome(vote)
	assert.True(t, voted.Voted())
	assert.Equal(t, "soil-analyst", voted.Analyzer)
	assert.Equal(t, FailureNone, voted.Failure)

	failed := FailureOutcome("flora-analyst", EvidenceFlora, fmt.Errorf("%w: boom", ErrAdapter))
	assert.False(t, failed.Voted())
	assert.Equal(t, FailureAdapter, failed.Failure)
	assert.Contains(t, failed.String(), "abstained")
}

func TestConsensusDecision_String(t *testing.T) {
	confirmed := ConsensusDecision{
		Winner:     BiomeVolcanic,
		Confirmed:  true,
		Tally:      map[Biome]int{BiomeVolcanic: 2, BiomeCryo: 1},
		Dispatched: 3,
	}
	assert.Equal(t, "VOLCANIC confirmed 2/3", confirmed.String())

	inconclusive := ConsensusDecision{
		Tally:      map[Biome]int{BiomeCryo: 1},
		Abstained:  []string{"flora-analyst", "stellar-cartographer"},
		Dispatched: 3,
	}
	assert.True(t, inconclusive.Inconclusive())
	assert.Equal(t, "inconclusive CRYO=1 of 3 (flora-analyst, stellar-cartographer abstained)", inconclusive.String())
}
