package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Analyzer backends a manifest can name.
const (
	BackendModel   = "model"
	BackendRemote  = "remote"
	BackendCatalog = "catalog"
)

// AnalyzerSpec describes one analyzer in the crew manifest.
type AnalyzerSpec struct {
	Name        string `yaml:"name"`
	Kind        string `yaml:"kind"`    // soil, flora, stellar
	Backend     string `yaml:"backend"` // model, remote, catalog
	Provider    string `yaml:"provider,omitempty"`    // model backend: openai or anthropic
	Instruction string `yaml:"instruction,omitempty"` // model backend: template with placeholders
	Endpoint    string `yaml:"endpoint,omitempty"`    // remote backend: service URL
}

// Manifest is the crew description loaded from YAML.
type Manifest struct {
	Analyzers []AnalyzerSpec `yaml:"analyzers"`
}

// LoadManifest reads and validates a crew manifest file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read crew manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse crew manifest: %w", err)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Validate checks structural requirements the analyzer builders rely on.
func (m *Manifest) Validate() error {
	if len(m.Analyzers) == 0 {
		return fmt.Errorf("crew manifest names no analyzers")
	}
	seen := map[string]bool{}
	for i, spec := range m.Analyzers {
		if spec.Name == "" {
			return fmt.Errorf("analyzer %d: missing name", i)
		}
		if seen[spec.Name] {
			return fmt.Errorf("analyzer %q: duplicate name", spec.Name)
		}
		seen[spec.Name] = true
		if spec.Kind == "" {
			return fmt.Errorf("analyzer %q: missing evidence kind", spec.Name)
		}
		switch spec.Backend {
		case BackendModel:
			if spec.Instruction == "" {
				return fmt.Errorf("analyzer %q: model backend needs an instruction", spec.Name)
			}
		case BackendRemote:
			if spec.Endpoint == "" {
				return fmt.Errorf("analyzer %q: remote backend needs an endpoint", spec.Name)
			}
		case BackendCatalog:
		default:
			return fmt.Errorf("analyzer %q: unknown backend %q", spec.Name, spec.Backend)
		}
	}
	return nil
}

// DefaultManifest is the built-in three-analyzer crew: two model-backed
// analysts for soil and flora evidence plus the star catalog query.
func DefaultManifest() *Manifest {
	return &Manifest{Analyzers: []AnalyzerSpec{
		{
			Name:    "soil-analyst",
			Kind:    "soil",
			Backend: BackendModel,
			Instruction: "Analyze the crash-site soil sample photograph at {{.soil_url}}. " +
				"Identify mineral structure, ice content, volcanic traces or fossil layers and classify the biome.",
		},
		{
			Name:    "flora-analyst",
			Kind:    "flora",
			Backend: BackendModel,
			Instruction: "Analyze the alien flora footage at {{.flora_url}}. " +
				"Identify growth patterns, luminescence, frost or heat adaptation and classify the biome.",
		},
		{
			Name:    "stellar-cartographer",
			Kind:    "stellar",
			Backend: BackendCatalog,
		},
	}}
}
