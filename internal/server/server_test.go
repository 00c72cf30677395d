package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/benithors/dotresolve/internal/domain"
	"github.com/benithors/dotresolve/internal/resolver"
)

type stubResolver struct {
	resp *resolver.Response
	err  error
	got  []string
}

func (s *stubResolver) Resolve(ctx context.Context, raw []string) (*resolver.Response, error) {
	s.got = raw
	if s.err != nil {
		return nil, s.err
	}
	return s.resp, nil
}

func doRequest(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("content-type", "application/json")
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	return w
}

func TestCheckAvailability_OK(t *testing.T) {
	stub := &stubResolver{resp: &resolver.Response{
		Results: map[string]resolver.Status{
			"example.com": resolver.StatusAvailable,
			"foo.io":      resolver.StatusTaken,
		},
		PremiumPrices: map[string]float64{"foo.io": 250.00},
		Source:        resolver.SourcePrimary,
	}}
	srv := New(stub, zap.NewNop())

	w := doRequest(t, srv, http.MethodPost, "/api/v1/domains/availability",
		`{"domains":["Example.COM","foo.io"]}`)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []string{"Example.COM", "foo.io"}, stub.got)

	var got resolver.Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, resolver.SourcePrimary, got.Source)
	assert.Equal(t, resolver.StatusAvailable, got.Results["example.com"])
	assert.Equal(t, 250.00, got.PremiumPrices["foo.io"])
}

func TestCheckAvailability_EmptyBatch(t *testing.T) {
	// The sentinel must map to 400 whether it is returned bare or wrapped.
	for _, err := range []error{domain.ErrEmptyBatch, errors.Wrap(domain.ErrEmptyBatch, "resolve")} {
		stub := &stubResolver{err: err}
		srv := New(stub, zap.NewNop())

		w := doRequest(t, srv, http.MethodPost, "/api/v1/domains/availability",
			`{"domains":["not a domain"]}`)
		assert.Equalf(t, http.StatusBadRequest, w.Code, "err=%v", err)
	}
}

func TestCheckAvailability_BadBody(t *testing.T) {
	srv := New(&stubResolver{}, zap.NewNop())

	for _, body := range []string{``, `{}`, `{"domains":"example.com"}`, `not json`} {
		w := doRequest(t, srv, http.MethodPost, "/api/v1/domains/availability", body)
		assert.Equalf(t, http.StatusBadRequest, w.Code, "body=%q", body)
	}
}

func TestHealth(t *testing.T) {
	srv := New(&stubResolver{}, zap.NewNop())
	w := doRequest(t, srv, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequestIDHeader(t *testing.T) {
	srv := New(&stubResolver{resp: &resolver.Response{Results: map[string]resolver.Status{}, Source: resolver.SourceSecondary}}, zap.NewNop())

	w := doRequest(t, srv, http.MethodGet, "/health", "")
	assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "abc-123", rec.Header().Get("X-Request-Id"))
}
