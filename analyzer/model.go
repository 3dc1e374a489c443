package analyzer

import (
	"context"
	"errors"
	"fmt"

	"github.com/starfall-systems/homeward/core"
	"github.com/starfall-systems/homeward/model"
)

// systemInstructions pins the verdict format for every model-backed analyzer.
const systemInstructions = `You are an evidence analyst helping locate a crash site on a planet with four biomes: CRYO (northwest), VOLCANIC (northeast), BIOLUMINESCENT (southwest), FOSSILIZED (southeast).
Answer with a single JSON object: {"label": "<BIOME>", "confidence": <0..1>, "rationale": "<one sentence>"}.
If the evidence is genuinely unreadable, still answer with your best label and a low confidence; never answer with anything but the JSON object.`

// ModelAnalyzer drives a language model with a rendered instruction and
// interprets its structured verdict as a vote. The instruction is a template
// whose placeholders (evidence URLs, participant fields) are resolved by the
// crew before dispatch.
type ModelAnalyzer struct {
	name        string
	kind        core.EvidenceKind
	model       model.Model
	instruction string
}

// NewModelAnalyzer binds a model to one evidence kind with an instruction
// template.
func NewModelAnalyzer(name string, kind core.EvidenceKind, m model.Model, instruction string) *ModelAnalyzer {
	return &ModelAnalyzer{name: name, kind: kind, model: m, instruction: instruction}
}

// Name implements Analyzer.
func (a *ModelAnalyzer) Name() string { return a.name }

// Kind implements Analyzer.
func (a *ModelAnalyzer) Kind() core.EvidenceKind { return a.kind }

// InstructionTemplate implements InstructionTemplater.
func (a *ModelAnalyzer) InstructionTemplate() string { return a.instruction }

// Analyze implements Analyzer. The model's answer must be a JSON verdict;
// anything else is an adapter error, and a deadline overrun is a timeout.
func (a *ModelAnalyzer) Analyze(ctx context.Context, req Request) (core.AnalysisVote, error) {
	resp, err := a.model.Complete(ctx, model.Request{
		Instructions: systemInstructions,
		Input:        req.Instruction,
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return core.AnalysisVote{}, fmt.Errorf("%w: %s", core.ErrTimeout, a.name)
		}
		return core.AnalysisVote{}, fmt.Errorf("%w: %s: %v", core.ErrAdapter, a.name, err)
	}

	v, err := parseVerdict(resp.Text)
	if err != nil {
		return core.AnalysisVote{}, err
	}

	return core.AnalysisVote{
		Analyzer:   a.name,
		Kind:       a.kind,
		Label:      core.Biome(v.Label),
		Confidence: v.Confidence,
		Rationale:  v.Rationale,
	}, nil
}
