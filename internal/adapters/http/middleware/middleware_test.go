package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"visaconsult/internal/config"
	"visaconsult/internal/core/domain"
	"visaconsult/internal/pkg/jwt"

	"github.com/gofiber/fiber/v2"
)

const testSecret = "middleware-test-secret"

func testConfig() *config.Config {
	return &config.Config{JWT: config.JWTConfig{Secret: testSecret, AccessTokenMins: 15}}
}

func newTestApp(handlers ...fiber.Handler) *fiber.App {
	app := fiber.New(fiber.Config{ErrorHandler: CustomErrorHandler})
	handlers = append(handlers, func(c *fiber.Ctx) error {
		a, ok := CurrentActor(c)
		if !ok {
			return c.SendString("anonymous")
		}
		return c.SendString(string(a.Role))
	})
	app.Get("/", handlers...)
	return app
}

func accessToken(t *testing.T, role domain.Role, secret string, mins int) string {
	t.Helper()
	tok, err := jwt.GenerateAccessToken(7, "tester", string(role), secret, mins)
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return tok
}

func TestAuthMiddleware(t *testing.T) {
	cfg := testConfig()
	app := newTestApp(AuthMiddleware(cfg))

	tests := []struct {
		name   string
		header string
		cookie string
		want   int
	}{
		{"no token", "", "", http.StatusUnauthorized},
		{"bearer", "Bearer " + accessToken(t, domain.RoleUser, testSecret, 15), "", http.StatusOK},
		{"cookie", "", accessToken(t, domain.RoleOfficer, testSecret, 15), http.StatusOK},
		{"wrong secret", "Bearer " + accessToken(t, domain.RoleUser, "other-secret", 15), "", http.StatusUnauthorized},
		{"expired", "Bearer " + accessToken(t, domain.RoleUser, testSecret, -1), "", http.StatusUnauthorized},
		{"not bearer", "Basic abc", "", http.StatusUnauthorized},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if tc.cookie != "" {
				req.AddCookie(&http.Cookie{Name: "access_token", Value: tc.cookie})
			}
			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tc.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tc.want)
			}
		})
	}
}

func TestRoleMiddleware(t *testing.T) {
	cfg := testConfig()

	tests := []struct {
		name  string
		guard fiber.Handler
		role  domain.Role
		want  int
	}{
		{"admin only allows admin", AdminOnly(), domain.RoleAdmin, http.StatusOK},
		{"admin only rejects officer", AdminOnly(), domain.RoleOfficer, http.StatusForbidden},
		{"staff allows officer", OfficerOrAdmin(), domain.RoleOfficer, http.StatusOK},
		{"staff rejects user", OfficerOrAdmin(), domain.RoleUser, http.StatusForbidden},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(AuthMiddleware(cfg), tc.guard)
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set("Authorization", "Bearer "+accessToken(t, tc.role, testSecret, 15))
			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tc.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tc.want)
			}
		})
	}

	// without AuthMiddleware there is no role to check
	app := newTestApp(AdminOnly())
	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("no session = %d, want 401", resp.StatusCode)
	}
}

func TestCacheHeaders(t *testing.T) {
	tests := []struct {
		name string
		mw   fiber.Handler
		want string
	}{
		{"public", CacheControl(time.Hour), "public, max-age=3600"},
		{"private", PrivateCacheHeaders(0), "private, max-age=0"},
		{"none", NoCacheHeaders(), "no-store, no-cache, must-revalidate"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			app := newTestApp(tc.mw)
			resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
			if err != nil {
				t.Fatal(err)
			}
			if got := resp.Header.Get(fiber.HeaderCacheControl); got != tc.want {
				t.Errorf("Cache-Control = %q, want %q", got, tc.want)
			}
		})
	}

	// errors are never cached publicly
	app := fiber.New()
	app.Get("/", CacheControl(time.Hour), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusNotFound)
	})
	resp, _ := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
	if got := resp.Header.Get(fiber.HeaderCacheControl); got != "" {
		t.Errorf("404 Cache-Control = %q, want none", got)
	}
}

func TestCustomErrorHandler(t *testing.T) {
	app := fiber.New(fiber.Config{ErrorHandler: CustomErrorHandler})
	app.Get("/teapot", func(c *fiber.Ctx) error {
		return fiber.NewError(http.StatusTeapot, "short and stout")
	})

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/teapot", nil), -1)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusTeapot {
		t.Errorf("status = %d", resp.StatusCode)
	}

	resp, _ = app.Test(httptest.NewRequest(http.MethodGet, "/missing", nil), -1)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown route = %d, want 404", resp.StatusCode)
	}
}

func TestRateLimiterUsesEnvelope(t *testing.T) {
	app := fiber.New()
	app.Get("/", StrictRateLimiter(), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})

	var last int
	for i := 0; i < 4; i++ {
		resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/", nil), -1)
		if err != nil {
			t.Fatal(err)
		}
		last = resp.StatusCode
	}
	if last != http.StatusTooManyRequests {
		t.Errorf("fourth request = %d, want 429", last)
	}
}

func TestCorsConfig(t *testing.T) {
	t.Setenv("ALLOWED_ORIGINS", "https://portal.example.com")

	prod := corsConfig(&config.Config{AppMode: "prod"})
	if prod.AllowOrigins != "https://portal.example.com" || !prod.AllowCredentials {
		t.Errorf("prod cors = %+v", prod)
	}
	dev := corsConfig(&config.Config{AppMode: "dev"})
	if dev.AllowOrigins != "*" || dev.AllowCredentials {
		t.Errorf("dev cors = %+v", dev)
	}
}
