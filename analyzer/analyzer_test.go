package analyzer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starfall-systems/homeward/core"
)

func TestParseVerdict_Plain(t *testing.T) {
	v, err := parseVerdict(`{"label": "cryo", "confidence": 0.85, "rationale": "methane ice crystals"}`)
	require.NoError(t, err)
	assert.Equal(t, "CRYO", v.Label)
	assert.Equal(t, 0.85, v.Confidence)
	assert.Equal(t, "methane ice crystals", v.Rationale)
}

func TestParseVerdict_FencedAndProse(t *testing.T) {
	raw := "Based on the sample, here is my verdict:\n```json\n{\"label\": \"VOLCANIC\", \"confidence\": 0.7}\n```\nLet me know if you need more."
	v, err := parseVerdict(raw)
	require.NoError(t, err)
	assert.Equal(t, "VOLCANIC", v.Label)
	assert.Equal(t, 0.7, v.Confidence)
}

func TestParseVerdict_BracesInsideStrings(t *testing.T) {
	v, err := parseVerdict(`{"label": "FOSSILIZED", "confidence": 0.5, "rationale": "layered {sedimentary} shapes"}`)
	require.NoError(t, err)
	assert.Equal(t, "layered {sedimentary} shapes", v.Rationale)
}

func TestParseVerdict_Failures(t *testing.T) {
	cases := []struct {
		name string
		raw  string
	}{
		{"no json", "the biome is probably CRYO"},
		{"malformed", `{"label": `},
		{"missing label", `{"confidence": 0.9}`},
		{"confidence too high", `{"label": "CRYO", "confidence": 1.5}`},
		{"confidence negative", `{"label": "CRYO", "confidence": -0.1}`},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := parseVerdict(tc.raw)
			assert.ErrorIs(t, err, core.ErrAdapter)
		})
	}
}
