package middleware

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/ashureev/sproc-lineage/internal/identity"
	"github.com/ashureev/sproc-lineage/internal/logger"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestCORSExplicitOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	req.Header.Set("Origin", "https://lineage.example.com")
	rr := httptest.NewRecorder()

	CORS([]string{"https://lineage.example.com"})(okHandler).ServeHTTP(rr, req)

	if got := rr.Header().Get("Access-Control-Allow-Origin"); got != "https://lineage.example.com" {
		t.Errorf("unexpected allow-origin %q", got)
	}
	if rr.Header().Get("Access-Control-Allow-Credentials") != "true" {
		t.Error("expected credentials for explicit origin")
	}
}

func TestCORSWildcardHasNoCredentials(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	req.Header.Set("Origin", "https://elsewhere.example.com")
	rr := httptest.NewRecorder()

	CORS([]string{"*"})(okHandler).ServeHTTP(rr, req)

	if rr.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected wildcard to allow origin")
	}
	if rr.Header().Get("Access-Control-Allow-Credentials") != "" {
		t.Error("expected no credentials for wildcard origin")
	}
}

func TestCORSRejectsUnknownOrigin(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	rr := httptest.NewRecorder()

	CORS([]string{"https://lineage.example.com"})(okHandler).ServeHTTP(rr, req)

	if rr.Header().Get("Access-Control-Allow-Origin") != "" {
		t.Error("expected no CORS headers for unknown origin")
	}
}

func TestCORSPreflight(t *testing.T) {
	req := httptest.NewRequest(http.MethodOptions, "/api/analyze", nil)
	req.Header.Set("Origin", "https://lineage.example.com")
	rr := httptest.NewRecorder()

	CORS([]string{"*"})(okHandler).ServeHTTP(rr, req)

	if rr.Code != http.StatusNoContent {
		t.Errorf("expected 204 for preflight, got %d", rr.Code)
	}
}

func TestRequestLoggerTagsRequest(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))

	h := chiMiddleware.RequestID(identity.Middleware(true)(RequestLogger(base)(
		http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			logger.FromContext(r.Context()).Info("handled")
		}),
	)))

	req := httptest.NewRequest(http.MethodGet, "/api/history", nil)
	req.Header.Set(identity.SessionHeaderName, "tab-1")
	h.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	if !strings.Contains(out, "session_id=tab-1") {
		t.Errorf("expected session id in log line, got %q", out)
	}
	if !strings.Contains(out, "request_id=") {
		t.Errorf("expected request id in log line, got %q", out)
	}
}
