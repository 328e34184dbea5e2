package verify

import (
	"context"
	"fmt"
	"time"

	"StatementSentinel/internal/model"
)

// RegistryClient implements RegistryLookup over HTTP.
type RegistryClient struct{ *Client }

// NewRegistryClient creates a registry lookup client.
func NewRegistryClient(cfg ClientConfig) *RegistryClient { return &RegistryClient{NewClient(cfg)} }

type registryResponse struct {
	envelope
	Found            bool   `json:"found"`
	Status           string `json:"status"`
	RegistrationDate string `json:"registrationDate"`
}

func (c *RegistryClient) LookupBusiness(ctx context.Context, id model.BusinessIdentity) (*model.RegistryResult, error) {
	var resp registryResponse
	if err := c.postJSON(ctx, "/v1/registry/lookup", newIdentityRequest(id), &resp); err != nil {
		return nil, fmt.Errorf("registry lookup: %w", err)
	}
	if err := resp.check(); err != nil {
		return nil, fmt.Errorf("registry lookup: %w", err)
	}
	res := &model.RegistryResult{Found: resp.Found, Status: resp.Status}
	if resp.RegistrationDate != "" {
		t, err := time.Parse("2006-01-02", resp.RegistrationDate)
		if err != nil {
			return nil, fmt.Errorf("registry lookup: registration date %q: %v: %w", resp.RegistrationDate, err, model.ErrExternalCall)
		}
		res.RegistrationDate = t
	}
	return res, nil
}

// CreditClient implements CreditChecker over HTTP.
type CreditClient struct{ *Client }

// NewCreditClient creates a credit check client.
func NewCreditClient(cfg ClientConfig) *CreditClient { return &CreditClient{NewClient(cfg)} }

type creditResponse struct {
	envelope
	Score  int    `json:"score"`
	Report string `json:"report"`
}

func (c *CreditClient) CheckCredit(ctx context.Context, id model.BusinessIdentity) (*model.CreditResult, error) {
	var resp creditResponse
	if err := c.postJSON(ctx, "/v1/credit/check", newIdentityRequest(id), &resp); err != nil {
		return nil, fmt.Errorf("credit check: %w", err)
	}
	if err := resp.check(); err != nil {
		return nil, fmt.Errorf("credit check: %w", err)
	}
	return &model.CreditResult{Score: resp.Score, Report: resp.Report}, nil
}

// VerificationClient implements BusinessVerifier over HTTP.
type VerificationClient struct{ *Client }

// NewVerificationClient creates a business verification client.
func NewVerificationClient(cfg ClientConfig) *VerificationClient {
	return &VerificationClient{NewClient(cfg)}
}

type verificationResponse struct {
	envelope
	Verified bool              `json:"verified"`
	Details  map[string]string `json:"details"`
}

func (c *VerificationClient) VerifyBusiness(ctx context.Context, id model.BusinessIdentity) (*model.VerificationResult, error) {
	var resp verificationResponse
	if err := c.postJSON(ctx, "/v1/business/verify", newIdentityRequest(id), &resp); err != nil {
		return nil, fmt.Errorf("business verification: %w", err)
	}
	if err := resp.check(); err != nil {
		return nil, fmt.Errorf("business verification: %w", err)
	}
	return &model.VerificationResult{Verified: resp.Verified, Details: resp.Details}, nil
}
