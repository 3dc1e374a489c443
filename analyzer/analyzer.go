package analyzer

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/starfall-systems/homeward/core"
)

// Request is the input for one analysis task: the evidence reference to
// inspect and, for instruction-driven backends, the fully rendered
// instruction text (all placeholders resolved before dispatch).
type Request struct {
	Ref         string // opaque evidence reference (URL or dataset key)
	Instruction string // rendered instruction, may be empty for query backends
}

// Analyzer is the uniform capability interface over all analysis backends.
//
// Analyze must map any external failure (transport error, malformed payload,
// query error) onto core.ErrAdapter, and a deadline overrun onto
// core.ErrTimeout. It must never return a low-confidence vote to mask a
// failure: a failure to analyze is not "analyzed and concluded unlikely".
type Analyzer interface {
	Name() string
	Kind() core.EvidenceKind
	Analyze(ctx context.Context, req Request) (core.AnalysisVote, error)
}

// InstructionTemplater is implemented by analyzers whose instructions carry
// placeholders (e.g. {{.soil_url}}) that the crew resolves from the
// participant context before dispatch.
type InstructionTemplater interface {
	InstructionTemplate() string
}

// verdict is the wire shape every backend's structured answer normalizes to.
type verdict struct {
	Label      string  `json:"label"`
	Confidence float64 `json:"confidence"`
	Rationale  string  `json:"rationale,omitempty"`
}

// parseVerdict extracts a verdict from raw backend output. Model output may
// wrap the JSON object in prose or markdown fences, so the first balanced
// JSON object is taken. Any malformed or out-of-range payload is an
// ErrAdapter.
func parseVerdict(raw string) (verdict, error) {
	var v verdict
	body := extractJSON(raw)
	if body == "" {
		return v, fmt.Errorf("%w: no JSON verdict in response", core.ErrAdapter)
	}
	if err := json.Unmarshal([]byte(body), &v); err != nil {
		return v, fmt.Errorf("%w: malformed verdict: %v", core.ErrAdapter, err)
	}
	v.Label = strings.ToUpper(strings.TrimSpace(v.Label))
	if v.Label == "" {
		return v, fmt.Errorf("%w: verdict missing label", core.ErrAdapter)
	}
	if v.Confidence < 0 || v.Confidence > 1 {
		return v, fmt.Errorf("%w: confidence %v outside [0,1]", core.ErrAdapter, v.Confidence)
	}
	return v, nil
}

// extractJSON returns the first top-level JSON object embedded in s, or "".
func extractJSON(s string) string {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return ""
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		switch {
		case escaped:
			escaped = false
		case c == '\\' && inString:
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return s[start : i+1]
			}
		}
	}
	return ""
}
