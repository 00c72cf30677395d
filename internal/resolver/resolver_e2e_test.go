package resolver

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benithors/dotresolve/internal/rdap"
)

// End-to-end over a real registry client: example.com has no registration
// record (404), foo.io has one (200).
func TestResolve_SecondaryEndToEnd(t *testing.T) {
	t.Parallel()

	registry := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/domain/example.com":
			w.WriteHeader(http.StatusNotFound)
		case "/domain/foo.io":
			w.WriteHeader(http.StatusOK)
		default:
			w.WriteHeader(http.StatusInternalServerError)
		}
	}))
	defer registry.Close()

	bootstrap := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintf(w, `{"services":[[["com","io"],["%s/"]]]}`, registry.URL)
	}))
	defer bootstrap.Close()

	client := rdap.NewClient(rdap.Options{BootstrapURL: bootstrap.URL, Timeout: 2 * time.Second})
	r := New(Options{Secondary: client})

	resp, err := r.Resolve(context.Background(), []string{"Example.COM", "not a domain", "foo.io"})
	require.NoError(t, err)

	assert.Equal(t, SourceSecondary, resp.Source)
	assert.Equal(t, map[string]Status{
		"example.com": StatusAvailable,
		"foo.io":      StatusTaken,
	}, resp.Results)
}

// A bootstrap directory that never answers degrades every domain to
// unknown; the call still succeeds.
func TestResolve_BootstrapTimeoutAllUnknown(t *testing.T) {
	t.Parallel()

	bootstrap := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer bootstrap.Close()

	client := rdap.NewClient(rdap.Options{BootstrapURL: bootstrap.URL, Timeout: 50 * time.Millisecond})
	r := New(Options{Secondary: client})

	resp, err := r.Resolve(context.Background(), []string{"example.com", "foo.io"})
	require.NoError(t, err)

	assert.Equal(t, SourceSecondary, resp.Source)
	assert.Equal(t, map[string]Status{
		"example.com": StatusUnknown,
		"foo.io":      StatusUnknown,
	}, resp.Results)
}
