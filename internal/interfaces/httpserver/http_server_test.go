package httpserver_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Romer4ig/image-moderation/internal/config"
	"github.com/Romer4ig/image-moderation/internal/interfaces/httpserver"
	"github.com/Romer4ig/image-moderation/internal/interfaces/httpserver/handlers"
)

func newTestServer(checks map[string]httpserver.ReadinessCheck) http.Handler {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{ServiceName: "cover-console", CORSOrigins: []string{"https://studio.example"}}
	provider := handlers.NewProvider(cfg, nil, nil, nil, nil, nil, nil, zerolog.Nop())
	return httpserver.New(cfg, zerolog.Nop(), provider, checks).Handler()
}

func TestReadyzReportsFailingChecks(t *testing.T) {
	handler := newTestServer(map[string]httpserver.ReadinessCheck{
		"database": func(context.Context) error { return nil },
		"files":    func(context.Context) error { return errors.New("files root not writable") },
	})

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/readyz", nil))

	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d", w.Code)
	}
	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("failed to decode body: %v", err)
	}
	if body.Status != "unavailable" {
		t.Errorf("expected status unavailable, got %q", body.Status)
	}
	if body.Checks["files"] != "files root not writable" {
		t.Errorf("unexpected files check: %q", body.Checks["files"])
	}
	if _, ok := body.Checks["database"]; ok {
		t.Errorf("passing check should not be reported")
	}
}

func TestHealthzAndRequestID(t *testing.T) {
	handler := newTestServer(nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-Id", "abc-123")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", w.Code)
	}
	if got := w.Header().Get("X-Request-Id"); got != "abc-123" {
		t.Errorf("expected request id to be echoed, got %q", got)
	}

	w = httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	if w.Header().Get("X-Request-Id") == "" {
		t.Errorf("expected a generated request id")
	}
}

func TestCORSPreflight(t *testing.T) {
	handler := newTestServer(nil)

	tests := []struct {
		name       string
		origin     string
		wantOrigin string
	}{
		{name: "allowed origin", origin: "https://studio.example", wantOrigin: "https://studio.example"},
		{name: "other origin", origin: "https://evil.example", wantOrigin: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, "/api/grid-data", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			if w.Code != http.StatusNoContent {
				t.Errorf("expected status 204, got %d", w.Code)
			}
			if got := w.Header().Get("Access-Control-Allow-Origin"); got != tt.wantOrigin {
				t.Errorf("expected allow origin %q, got %q", tt.wantOrigin, got)
			}
		})
	}
}
