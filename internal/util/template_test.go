package util

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRenderTemplate_NoMarkers(t *testing.T) {
	got, err := RenderTemplate("plain instruction", map[string]any{"soil_url": "x"})
	require.NoError(t, err)
	assert.Equal(t, "plain instruction", got)
}

func TestRenderTemplate_Substitution(t *testing.T) {
	got, err := RenderTemplate(
		"Analyze the soil sample at {{.soil_url}} for participant {{.participant_id}}.",
		map[string]any{"soil_url": "https://evidence/soil.png", "participant_id": "p-1"},
	)
	require.NoError(t, err)
	assert.Equal(t, "Analyze the soil sample at https://evidence/soil.png for participant p-1.", got)
}

func TestRenderTemplate_MissingPlaceholderFails(t *testing.T) {
	_, err := RenderTemplate("see {{.flora_url}}", map[string]any{"soil_url": "x"})
	assert.Error(t, err)
}

func TestRenderTemplate_Funcs(t *testing.T) {
	got, err := RenderTemplate("{{upper .kind}}", map[string]any{"kind": "soil"})
	require.NoError(t, err)
	assert.Equal(t, "SOIL", got)
}
