package verify

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StatementSentinel/internal/model"
)

var acme = model.BusinessIdentity{BusinessName: "Acme Bakery LLC", State: "CA"}

func serve(t *testing.T, path, body string, status int) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, path, r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))
		var req identityRequest
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "Acme Bakery LLC", req.BusinessName)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRegistryClient_Success(t *testing.T) {
	srv := serve(t, "/v1/registry/lookup",
		`{"success":true,"found":true,"status":"ACTIVE","registrationDate":"2019-06-15"}`, http.StatusOK)
	c := NewRegistryClient(ClientConfig{BaseURL: srv.URL + "/", APIKey: "secret"})

	res, err := c.LookupBusiness(context.Background(), acme)
	require.NoError(t, err)
	assert.True(t, res.Found)
	assert.Equal(t, "ACTIVE", res.Status)
	assert.Equal(t, time.Date(2019, 6, 15, 0, 0, 0, 0, time.UTC), res.RegistrationDate)
}

func TestCreditClient_Success(t *testing.T) {
	srv := serve(t, "/v1/credit/check", `{"success":true,"score":702,"report":"clean"}`, http.StatusOK)
	c := NewCreditClient(ClientConfig{BaseURL: srv.URL, APIKey: "secret", RequestsPerSec: 50})

	res, err := c.CheckCredit(context.Background(), acme)
	require.NoError(t, err)
	assert.Equal(t, 702, res.Score)
	assert.Equal(t, "clean", res.Report)
}

func TestVerificationClient_Success(t *testing.T) {
	srv := serve(t, "/v1/business/verify",
		`{"success":true,"verified":true,"details":{"ein":"match"}}`, http.StatusOK)
	c := NewVerificationClient(ClientConfig{BaseURL: srv.URL, APIKey: "secret"})

	res, err := c.VerifyBusiness(context.Background(), acme)
	require.NoError(t, err)
	assert.True(t, res.Verified)
	assert.Equal(t, "match", res.Details["ein"])
}

func TestClient_Failures(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		status int
	}{
		{"missing success flag", `{"score":700}`, http.StatusOK},
		{"explicit failure", `{"success":false,"error":"bureau offline"}`, http.StatusOK},
		{"server error", `oops`, http.StatusInternalServerError},
		{"invalid json", `{"success":`, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serve(t, "/v1/credit/check", tt.body, tt.status)
			c := NewCreditClient(ClientConfig{BaseURL: srv.URL, APIKey: "secret"})

			res, err := c.CheckCredit(context.Background(), acme)
			assert.Nil(t, res)
			assert.True(t, errors.Is(err, model.ErrExternalCall), "got %v", err)
		})
	}
}

func TestMock_RespectsContext(t *testing.T) {
	m := &MockCredit{Result: model.CreditResult{Score: 700}, Delay: time.Second}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err := m.CheckCredit(ctx, acme)
	assert.ErrorIs(t, err, model.ErrExternalCall)
	assert.Equal(t, 1, m.Calls())
}

func TestNewMockServices(t *testing.T) {
	s := NewMockServices()
	reg, err := s.Registry.LookupBusiness(context.Background(), acme)
	require.NoError(t, err)
	assert.True(t, reg.Found)

	cr, err := s.Credit.CheckCredit(context.Background(), acme)
	require.NoError(t, err)
	assert.Equal(t, 720, cr.Score)

	v, err := s.Verification.VerifyBusiness(context.Background(), acme)
	require.NoError(t, err)
	assert.True(t, v.Verified)
}
