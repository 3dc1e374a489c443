package registry

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/starfall-systems/homeward/core"
)

// Options configure the registry client.
type Options struct {
	// HTTPClient overrides the default client used for all calls.
	HTTPClient *http.Client
}

// Client talks to the participant registry API.
type Client struct {
	baseURL string
	client  *http.Client
}

// NewClient creates a registry client for the API at baseURL.
func NewClient(baseURL string, optFns ...func(o *Options)) *Client {
	opts := Options{HTTPClient: http.DefaultClient}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Client{baseURL: strings.TrimRight(baseURL, "/"), client: opts.HTTPClient}
}

// participantResponse mirrors the registry's participant payload.
type participantResponse struct {
	ParticipantID     string            `json:"participant_id"`
	Username          string            `json:"username"`
	X                 int               `json:"x"`
	Y                 int               `json:"y"`
	EvidenceURLs      map[string]string `json:"evidence_urls"`
	LocationConfirmed bool              `json:"location_confirmed"`
}

// Load resolves participantID into a ParticipantContext. A missing
// participant is core.ErrNotFound; transport failures, server errors and
// malformed payloads are core.ErrUpstreamUnavailable. Load performs exactly
// one lookup.
func (c *Client) Load(ctx context.Context, participantID string) (*core.ParticipantContext, error) {
	url := fmt.Sprintf("%s/participants/%s", c.baseURL, participantID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrUpstreamUnavailable, err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", core.ErrUpstreamUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: participant %s", core.ErrNotFound, participantID)
	case resp.StatusCode != http.StatusOK:
		return nil, fmt.Errorf("%w: registry returned %d", core.ErrUpstreamUnavailable, resp.StatusCode)
	}

	var payload participantResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: malformed participant payload: %v", core.ErrUpstreamUnavailable, err)
	}

	evidence := make(map[core.EvidenceKind]string, len(payload.EvidenceURLs))
	for kind, ref := range payload.EvidenceURLs {
		evidence[core.EvidenceKind(kind)] = ref
	}

	return &core.ParticipantContext{
		ParticipantID: payload.ParticipantID,
		Username:      payload.Username,
		X:             payload.X,
		Y:             payload.Y,
		Evidence:      evidence,
	}, nil
}

type confirmRequest struct {
	Label    string `json:"label"`
	Quadrant string `json:"quadrant,omitempty"`
}

type confirmResponse struct {
	Accepted bool `json:"accepted"`
}

// Confirm reports the winning label for participantID to the confirmation
// sink and returns whether the sink accepted it. Every failure is
// core.ErrCommitFailed; the caller decides what a rejection means.
func (c *Client) Confirm(ctx context.Context, participantID string, label core.Biome) (bool, error) {
	body, err := json.Marshal(confirmRequest{Label: string(label), Quadrant: string(label.Quadrant())})
	if err != nil {
		return false, fmt.Errorf("%w: encode confirmation: %v", core.ErrCommitFailed, err)
	}

	url := fmt.Sprintf("%s/participants/%s/confirm-location", c.baseURL, participantID)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("%w: %v", core.ErrCommitFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", core.ErrCommitFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("%w: sink returned %d", core.ErrCommitFailed, resp.StatusCode)
	}

	var payload confirmResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return false, fmt.Errorf("%w: malformed confirmation payload: %v", core.ErrCommitFailed, err)
	}

	return payload.Accepted, nil
}
