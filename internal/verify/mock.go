package verify

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"StatementSentinel/internal/model"
)

// mockCall sleeps for delay (or until ctx ends) and returns err.
func mockCall(ctx context.Context, calls *atomic.Int32, delay time.Duration, err error) error {
	calls.Add(1)
	if delay > 0 {
		select {
		case <-ctx.Done():
			return fmt.Errorf("%v: %w", ctx.Err(), model.ErrExternalCall)
		case <-time.After(delay):
		}
	}
	return err
}

// MockRegistry returns a fixed registry result for development and testing.
type MockRegistry struct {
	Result model.RegistryResult
	Err    error
	Delay  time.Duration
	calls  atomic.Int32
}

func (m *MockRegistry) LookupBusiness(ctx context.Context, _ model.BusinessIdentity) (*model.RegistryResult, error) {
	if err := mockCall(ctx, &m.calls, m.Delay, m.Err); err != nil {
		return nil, err
	}
	res := m.Result
	return &res, nil
}

// Calls reports how many times the mock was invoked.
func (m *MockRegistry) Calls() int { return int(m.calls.Load()) }

// MockCredit returns a fixed credit result.
type MockCredit struct {
	Result model.CreditResult
	Err    error
	Delay  time.Duration
	calls  atomic.Int32
}

func (m *MockCredit) CheckCredit(ctx context.Context, _ model.BusinessIdentity) (*model.CreditResult, error) {
	if err := mockCall(ctx, &m.calls, m.Delay, m.Err); err != nil {
		return nil, err
	}
	res := m.Result
	return &res, nil
}

func (m *MockCredit) Calls() int { return int(m.calls.Load()) }

// MockVerification returns a fixed verification result.
type MockVerification struct {
	Result model.VerificationResult
	Err    error
	Delay  time.Duration
	calls  atomic.Int32
}

func (m *MockVerification) VerifyBusiness(ctx context.Context, _ model.BusinessIdentity) (*model.VerificationResult, error) {
	if err := mockCall(ctx, &m.calls, m.Delay, m.Err); err != nil {
		return nil, err
	}
	res := m.Result
	return &res, nil
}

func (m *MockVerification) Calls() int { return int(m.calls.Load()) }

// NewMockServices returns mocks describing an established, verified business.
func NewMockServices() Services {
	return Services{
		Registry: &MockRegistry{Result: model.RegistryResult{
			Found:            true,
			Status:           "ACTIVE",
			RegistrationDate: time.Date(2018, 3, 1, 0, 0, 0, 0, time.UTC),
		}},
		Credit:       &MockCredit{Result: model.CreditResult{Score: 720, Report: "mock report"}},
		Verification: &MockVerification{Result: model.VerificationResult{Verified: true}},
	}
}

var (
	_ RegistryLookup   = (*MockRegistry)(nil)
	_ CreditChecker    = (*MockCredit)(nil)
	_ BusinessVerifier = (*MockVerification)(nil)
	_ RegistryLookup   = (*RegistryClient)(nil)
	_ CreditChecker    = (*CreditClient)(nil)
	_ BusinessVerifier = (*VerificationClient)(nil)
)
