package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func TestLiveness(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

	if err := NewHealthHandler().Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReadiness(t *testing.T) {
	tests := []struct {
		name     string
		checks   map[string]Check
		wantCode int
		wantDeps map[string]string
	}{
		{"no checks", nil, http.StatusOK, map[string]string{}},
		{
			"all healthy",
			map[string]Check{"mongodb": func(context.Context) error { return nil }},
			http.StatusOK,
			map[string]string{"mongodb": "ok"},
		},
		{
			"one failing",
			map[string]Check{
				"mongodb": func(context.Context) error { return nil },
				"redis":   func(context.Context) error { return errors.New("connection refused") },
			},
			http.StatusServiceUnavailable,
			map[string]string{"mongodb": "ok", "redis": "unhealthy"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)

			if err := NewReadinessHandler(tt.checks).Readiness(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, rec.Code)
			}

			var resp readinessResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if len(resp.Dependencies) != len(tt.wantDeps) {
				t.Fatalf("dependencies = %+v", resp.Dependencies)
			}
			for name, status := range tt.wantDeps {
				if resp.Dependencies[name].Status != status {
					t.Errorf("%s status = %q, want %q", name, resp.Dependencies[name].Status, status)
				}
			}
		})
	}
}
