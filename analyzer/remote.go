package analyzer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/starfall-systems/homeward/core"
)

// RemoteAnalyzer calls a custom remote analysis service over HTTP. The
// service receives the evidence reference and answers with the same verdict
// shape every backend uses.
type RemoteAnalyzer struct {
	name     string
	kind     core.EvidenceKind
	endpoint string
	client   *http.Client
}

// RemoteOptions configure the remote analyzer adapter.
type RemoteOptions struct {
	// HTTPClient overrides the default client. Per-task deadlines come from
	// the dispatch context, so the client itself carries no timeout.
	HTTPClient *http.Client
}

// NewRemoteAnalyzer creates an adapter for the analysis service at endpoint.
func NewRemoteAnalyzer(name string, kind core.EvidenceKind, endpoint string, optFns ...func(o *RemoteOptions)) *RemoteAnalyzer {
	opts := RemoteOptions{HTTPClient: http.DefaultClient}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &RemoteAnalyzer{name: name, kind: kind, endpoint: endpoint, client: opts.HTTPClient}
}

// Name implements Analyzer.
func (a *RemoteAnalyzer) Name() string { return a.name }

// Kind implements Analyzer.
func (a *RemoteAnalyzer) Kind() core.EvidenceKind { return a.kind }

type remoteRequest struct {
	EvidenceRef string `json:"evidence_ref"`
	Kind        string `json:"kind"`
}

// Analyze implements Analyzer by POSTing the evidence reference to the
// service and decoding its verdict.
func (a *RemoteAnalyzer) Analyze(ctx context.Context, req Request) (core.AnalysisVote, error) {
	body, err := json.Marshal(remoteRequest{EvidenceRef: req.Ref, Kind: string(a.kind)})
	if err != nil {
		return core.AnalysisVote{}, fmt.Errorf("%w: %s: encode request: %v", core.ErrAdapter, a.name, err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return core.AnalysisVote{}, fmt.Errorf("%w: %s: %v", core.ErrAdapter, a.name, err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := a.client.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || ctx.Err() != nil {
			return core.AnalysisVote{}, fmt.Errorf("%w: %s", core.ErrTimeout, a.name)
		}
		return core.AnalysisVote{}, fmt.Errorf("%w: %s: %v", core.ErrAdapter, a.name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return core.AnalysisVote{}, fmt.Errorf("%w: %s: service returned %d", core.ErrAdapter, a.name, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return core.AnalysisVote{}, fmt.Errorf("%w: %s: read response: %v", core.ErrAdapter, a.name, err)
	}

	v, err := parseVerdict(string(raw))
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
