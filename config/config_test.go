package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", cfg.APIBase)
	assert.Equal(t, 60*time.Second, cfg.TaskTimeout)
	assert.Equal(t, 2, cfg.LoadRetries)
	assert.Equal(t, "star_catalog.db", cfg.CatalogDSN)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("HOMEWARD_API_BASE", "https://dashboard.example.com")
	t.Setenv("HOMEWARD_TASK_TIMEOUT", "5s")
	t.Setenv("HOMEWARD_LOAD_RETRIES", "0")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "https://dashboard.example.com", cfg.APIBase)
	assert.Equal(t, 5*time.Second, cfg.TaskTimeout)
	assert.Equal(t, 0, cfg.LoadRetries)
}

func TestFromEnv_BadDuration(t *testing.T) {
	t.Setenv("HOMEWARD_TASK_TIMEOUT", "soon")

	_, err := FromEnv()
	assert.Error(t, err)
}

func TestDefaultManifest(t *testing.T) {
	m := DefaultManifest()
	require.NoError(t, m.Validate())
	require.Len(t, m.Analyzers, 3)

	kinds := make([]string, len(m.Analyzers))
	for i, spec := range m.Analyzers {
		kinds[i] = spec.Kind
	}
	assert.ElementsMatch(t, []string{"soil", "flora", "stellar"}, kinds)
}

func TestLoadManifest(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crew.yaml")
	data := `analyzers:
  - name: soil-analyst
    kind: soil
    backend: model
    provider: anthropic
    instruction: "Classify the biome from the soil sample at {{.soil_url}}."
  - name: flora-analyst
    kind: flora
    backend: remote
    endpoint: http://flora.internal/analyze
  - name: stellar-cartographer
    kind: stellar
    backend: catalog
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	m, err := LoadManifest(path)
	require.NoError(t, err)
	require.Len(t, m.Analyzers, 3)
	assert.Equal(t, "anthropic", m.Analyzers[0].Provider)
	assert.Equal(t, "http://flora.internal/analyze", m.Analyzers[1].Endpoint)
	assert.Equal(t, BackendCatalog, m.Analyzers[2].Backend)
}

func TestLoadManifest_MissingFile(t *testing.T) {
	_, err := LoadManifest(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestManifestValidate(t *testing.T) {
	base := func() *Manifest {
		return &Manifest{Analyzers: []AnalyzerSpec{
			{Name: "soil-analyst", Kind: "soil", Backend: BackendModel, Instruction: "classify {{.soil_url}}"},
		}}
	}

	tests := []struct {
		name   string
		mutate func(m *Manifest)
	}{
		{"no analyzers", func(m *Manifest) { m.Analyzers = nil }},
		{"missing name", func(m *Manifest) { m.Analyzers[0].Name = "" }},
		{"missing kind", func(m *Manifest) { m.Analyzers[0].Kind = "" }},
		{"unknown backend", func(m *Manifest) { m.Analyzers[0].Backend = "quantum" }},
		{"model without instruction", func(m *Manifest) { m.Analyzers[0].Instruction = "" }},
		{"duplicate name", func(m *Manifest) {
			m.Analyzers = append(m.Analyzers, m.Analyzers[0])
		}},
		{"remote without endpoint", func(m *Manifest) {
			m.Analyzers[0].Backend = BackendRemote
			m.Analyzers[0].Endpoint = ""
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := base()
			tt.mutate(m)
			assert.Error(t, m.Validate())
		})
	}
}
