// Package http contains the inbound HTTP handlers.
package http

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"

	"triage_server/pkg/cache"
)

// BreakerReporter exposes the secondary classifier's circuit state.
type BreakerReporter interface {
	BreakerState() string
}

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	cache   *cache.RedisCache
	breaker BreakerReporter
}

// NewHealthHandler creates the handler. Both dependencies are optional.
func NewHealthHandler(c *cache.RedisCache, breaker BreakerReporter) *HealthHandler {
	return &HealthHandler{cache: c, breaker: breaker}
}

// Register mounts the probe routes on the app root.
func (h *HealthHandler) Register(app *fiber.App) {
	app.Get("/health", h.Health)
	app.Get("/ready", h.Ready)
}

func (h *HealthHandler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (h *HealthHandler) Ready(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	checks := make(map[string]string)
	allHealthy := true

	if h.cache != nil {
		if err := h.cache.Ping(ctx); err != nil {
			checks["redis"] = "unhealthy: " + err.Error()
			allHealthy = false
		} else {
			checks["redis"] = "healthy"
		}
	} else {
		checks["redis"] = "not configured"
	}

	if h.breaker != nil {
		checks["secondary_classifier"] = "breaker " + h.breaker.BreakerState()
	} else {
		checks["secondary_classifier"] = "not configured"
	}

	status := "ready"
	statusCode := fiber.StatusOK
	if !allHealthy {
		status = "not ready"
		statusCode = fiber.StatusServiceUnavailable
	}

	return c.Status(statusCode).JSON(fiber.Map{
		"status":    status,
		"checks":    checks,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
