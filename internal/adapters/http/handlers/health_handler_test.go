package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthCheck(t *testing.T) {
	tests := []struct {
		name     string
		ping     error
		want     int
		database string
	}{
		{"healthy", nil, http.StatusOK, "healthy"},
		{"database down", errors.New("connection refused"), http.StatusServiceUnavailable, "unhealthy"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := NewHealthHandler(pingFunc(func(context.Context) error { return tc.ping }), "test")
			app := fiber.New()
			app.Get("/health", h.HealthCheck)

			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/health", nil), -1)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tc.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tc.want)
			}
			var body HealthStatus
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatal(err)
			}
			if body.Checks["database"] != tc.database {
				t.Errorf("database = %q, want %q", body.Checks["database"], tc.database)
			}
		})
	}
}

func TestRootReportsMode(t *testing.T) {
	app := fiber.New()
	app.Get("/", NewHealthHandler(pingFunc(func(context.Context) error { return nil }), "").Root)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatal(err)
	}
	if body["mode"] != "dev" {
		t.Errorf("mode = %q, want dev", body["mode"])
	}
}

func TestMissing(t *testing.T) {
	if got := missing("bob", "Username", " ", "Password"); got != "Password is required" {
		t.Errorf("missing = %q", got)
	}
	if got := missing("bob", "Username"); got != "" {
		t.Errorf("missing = %q, want empty", got)
	}
}
