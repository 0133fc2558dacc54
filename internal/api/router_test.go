package api

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/ferienhaus/kalender-api/internal/infrastructure/config"
)

// The router registers Prometheus collectors in the process-global registry,
// so it can only be built once per test binary; all tests share this fixture.
var (
	testRouterOnce sync.Once
	testRouter     http.Handler
)

func newTestRouter() http.Handler {
	testRouterOnce.Do(func() {
		cfg := &config.Config{
			Session: config.SessionConfig{SecretKey: "test-secret", ExpiryMinutes: 60},
		}
		testRouter = NewRouter(cfg, nil, nil, zerolog.Nop())
	})
	return testRouter
}

// The calendar frontend may be hosted separately from the API, so cross-origin
// requests have to be answered with CORS headers.
func TestRouter_CORSPreflight(t *testing.T) {
	e := newTestRouter()

	req := httptest.NewRequest(http.MethodOptions, "/api/bookings", nil)
	req.Header.Set("Origin", "http://kalender.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Fatalf("preflight status = %d, want %d", rec.Code, http.StatusNoContent)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
	if got := rec.Header().Get("Access-Control-Allow-Methods"); got == "" {
		t.Errorf("Access-Control-Allow-Methods header missing")
	}
}

func TestRouter_CORSSimpleRequest(t *testing.T) {
	e := newTestRouter()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://kalender.example")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	if got := rec.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Access-Control-Allow-Origin = %q, want *", got)
	}
}
