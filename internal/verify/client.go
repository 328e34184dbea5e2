package verify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"StatementSentinel/internal/model"
)

// Client is the shared HTTP transport for a verification service.
type Client struct {
	BaseURL string
	APIKey  string
	HTTP    *http.Client
	limiter *rate.Limiter
}

// ClientConfig configures one service endpoint.
type ClientConfig struct {
	BaseURL        string
	APIKey         string
	Proxy          string
	Timeout        time.Duration
	RequestsPerSec float64
}

// NewClient creates a client with optional proxy support and rate limiting.
func NewClient(cfg ClientConfig) *Client {
	transport := &http.Transport{}
	if cfg.Proxy != "" {
		if u, err := url.Parse(cfg.Proxy); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	limit := rate.Inf
	if cfg.RequestsPerSec > 0 {
		limit = rate.Limit(cfg.RequestsPerSec)
	}
	return &Client{
		BaseURL: strings.TrimRight(cfg.BaseURL, "/"),
		APIKey:  cfg.APIKey,
		HTTP: &http.Client{
			Timeout:   timeout,
			Transport: transport,
		},
		limiter: rate.NewLimiter(limit, 1),
	}
}

// envelope is the success flag every service response carries. A missing flag
// is a failure.
type envelope struct {
	Success *bool  `json:"success"`
	Error   string `json:"error"`
}

func (e envelope) check() error {
	if e.Success == nil {
		return fmt.Errorf("response has no success flag: %w", model.ErrExternalCall)
	}
	if !*e.Success {
		msg := e.Error
		if msg == "" {
			msg = "service reported failure"
		}
		return fmt.Errorf("%s: %w", msg, model.ErrExternalCall)
	}
	return nil
}

type identityRequest struct {
	BusinessName string `json:"businessName"`
	State        string `json:"state"`
	TaxID        string `json:"taxId,omitempty"`
}

func newIdentityRequest(id model.BusinessIdentity) identityRequest {
	return identityRequest{BusinessName: id.BusinessName, State: id.State, TaxID: id.TaxID}
}

// postJSON sends body to path and decodes the response into out. Transport
// errors, non-200 statuses and undecodable bodies wrap model.ErrExternalCall.
func (c *Client) postJSON(ctx context.Context, path string, body, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("rate limit wait: %v: %w", err, model.ErrExternalCall)
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("marshal request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return fmt.Errorf("post %s: %v: %w", path, err, model.ErrExternalCall)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("post %s: status %d, body: %s: %w", path, resp.StatusCode, string(respBody), model.ErrExternalCall)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %v: %w", path, err, model.ErrExternalCall)
	}
	return nil
}
