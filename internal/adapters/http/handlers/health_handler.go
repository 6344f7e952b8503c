package handlers

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
)

const pingTimeout = 2 * time.Second

// Pinger reports database reachability
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves liveness and readiness probes
type HealthHandler struct {
	db      Pinger
	mode    string
	started time.Time
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db Pinger, mode string) *HealthHandler {
	if mode == "" {
		mode = "dev"
	}
	return &HealthHandler{db: db, mode: mode, started: time.Now()}
}

// HealthStatus is the /health payload
type HealthStatus struct {
	Status string            `json:"status"`
	Uptime string            `json:"uptime"`
	Checks map[string]string `json:"checks"`
}

// Root handles root endpoint
// @Summary Root endpoint
// @Description Returns API status
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "running",
		"message": "🚀 Visa Consult API v1.0 is running",
		"mode":    h.mode,
		"docs":    "/swagger/index.html",
	})
}

// HealthCheck pings the database; a failed ping answers 503 so load
// balancers drain the instance
// @Summary Health check
// @Description Check API and database health
// @Tags Health
// @Produce json
// @Success 200 {object} HealthStatus
// @Failure 503 {object} HealthStatus
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), pingTimeout)
	defer cancel()

	body := HealthStatus{
		Status: "ok",
		Uptime: time.Since(h.started).Round(time.Second).String(),
		Checks: map[string]string{"api": "healthy", "database": "healthy"},
	}
	code := fiber.StatusOK
	if err := h.db.Ping(ctx); err != nil {
		body.Status = "degraded"
		body.Checks["database"] = "unhealthy"
		code = fiber.StatusServiceUnavailable
	}
	return c.Status(code).JSON(body)
}
