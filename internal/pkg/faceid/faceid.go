package faceid

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gigline/gigline-backend-go/internal/config"
	"github.com/gigline/gigline-backend-go/internal/domain/identity"
)

// Client is the HTTP client for the external face-match and liveness
// provider. It implements identity.Provider.
type Client struct {
	cfg        config.IdentityConfig
	httpClient *http.Client
}

// NewClient creates a new face verification client
func NewClient(cfg config.IdentityConfig) *Client {
	return &Client{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: cfg.ProviderTimeout,
		},
	}
}

type verifyRequest struct {
	WorkerID string  `json:"worker_id"`
	Image    string  `json:"image"`
	PhotoURL *string `json:"photo_url,omitempty"`
}

type verifyResponse struct {
	Match               bool    `json:"match"`
	Confidence          float64 `json:"confidence"`
	Liveness            bool    `json:"liveness"`
	AllowManualOverride bool    `json:"allow_manual_override"`
	Reason              string  `json:"reason"`
}

// IsEnrolled implements identity.Provider.
func (c *Client) IsEnrolled(ctx context.Context, workerID string) (bool, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		c.cfg.ProviderBaseURL+"/v1/enrollments/"+workerID, nil)
	if err != nil {
		return false, fmt.Errorf("failed to build enrollment request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return false, fmt.Errorf("%w: %v", identity.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return true, nil
	case resp.StatusCode == http.StatusNotFound:
		return false, nil
	case resp.StatusCode >= 500:
		return false, fmt.Errorf("%w: status %d", identity.ErrProviderUnavailable, resp.StatusCode)
	default:
		return false, fmt.Errorf("enrollment lookup failed: status %d", resp.StatusCode)
	}
}

// Verify implements identity.Provider.
func (c *Client) Verify(ctx context.Context, workerID string, capture identity.Capture) (identity.Decision, error) {
	body, err := json.Marshal(verifyRequest{
		WorkerID: workerID,
		Image:    capture.Image,
		PhotoURL: capture.PhotoURL,
	})
	if err != nil {
		return identity.Decision{}, fmt.Errorf("failed to marshal verify request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		c.cfg.ProviderBaseURL+"/v1/verify", bytes.NewReader(body))
	if err != nil {
		return identity.Decision{}, fmt.Errorf("failed to build verify request: %w", err)
	}
	c.setHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return identity.Decision{}, fmt.Errorf("%w: %v", identity.ErrProviderUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 500 {
		return identity.Decision{}, fmt.Errorf("%w: status %d", identity.ErrProviderUnavailable, resp.StatusCode)
	}
	if resp.StatusCode != http.StatusOK {
		return identity.Decision{}, fmt.Errorf("verification failed: status %d", resp.StatusCode)
	}

	var verdict verifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&verdict); err != nil {
		return identity.Decision{}, fmt.Errorf("failed to decode verify response: %w", err)
	}

	return identity.Decision{
		Match:               verdict.Match,
		Confidence:          verdict.Confidence,
		Liveness:            verdict.Liveness,
		AllowManualOverride: verdict.AllowManualOverride,
		Reason:              verdict.Reason,
	}, nil
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Content-Type", "application/json")
	if c.cfg.ProviderAPIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.ProviderAPIKey)
	}
}
