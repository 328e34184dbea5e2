// Package verify holds the contracts and clients of the paid external
// verification services used in phase 3 of the waterfall.
package verify

import (
	"context"

	"StatementSentinel/internal/model"
)

// RegistryLookup looks a business up in a state business registry.
type RegistryLookup interface {
	LookupBusiness(ctx context.Context, id model.BusinessIdentity) (*model.RegistryResult, error)
}

// CreditChecker pulls a business credit report.
type CreditChecker interface {
	CheckCredit(ctx context.Context, id model.BusinessIdentity) (*model.CreditResult, error)
}

// BusinessVerifier confirms a business's identity and standing.
type BusinessVerifier interface {
	VerifyBusiness(ctx context.Context, id model.BusinessIdentity) (*model.VerificationResult, error)
}

// Services bundles the three collaborators. A nil member is never called.
type Services struct {
	Registry     RegistryLookup
	Credit       CreditChecker
	Verification BusinessVerifier
}
