package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dailydaisy/planner/pkg/accounts"
	"github.com/dailydaisy/planner/pkg/auth"
	"github.com/dailydaisy/planner/pkg/authz"
	"github.com/dailydaisy/planner/pkg/storage/memory"
)

func newFullServer(t *testing.T, opts ...ServerOption) *Server {
	t.Helper()

	store := memory.New()
	accountsSvc := accounts.NewService(store, bcrypt.MinCost)
	tokens := auth.NewTokenService([]byte("test-secret"), time.Hour)
	resolver := authz.NewResolver(store, store)
	adapter := NewAdapter(accountsSvc, tokens, resolver, store)

	return NewServer(adapter, opts...)
}

func TestServer_MiddlewareApplied(t *testing.T) {
	server := newFullServer(t)

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/healthz", nil))

	if rec.Code != http.StatusOK {
		t.Errorf("healthz: status = %d, want 200", rec.Code)
	}
	if rec.Header().Get("X-Request-ID") == "" {
		t.Error("expected X-Request-ID header from middleware")
	}
}

func TestServer_MetricsEndpoint(t *testing.T) {
	server := newFullServer(t)

	// Make one request first so the request counter has a sample to export.
	server.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest("GET", "/healthz", nil))

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("metrics: status = %d, want 200", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "planner_requests_total") {
		t.Error("metrics output missing planner_requests_total")
	}
}

func TestServer_MetricsDisabled(t *testing.T) {
	server := newFullServer(t, WithMetrics(false, "/metrics"))

	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	if rec.Code != http.StatusNotFound {
		t.Errorf("disabled metrics: status = %d, want 404", rec.Code)
	}
}
