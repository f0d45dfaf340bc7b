package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthChecker verifies a backing dependency is reachable.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// HealthCheckerFunc adapts a function to the HealthChecker interface.
type HealthCheckerFunc func(ctx context.Context) error

// HealthCheck invokes the wrapped function.
func (f HealthCheckerFunc) HealthCheck(ctx context.Context) error {
	return f(ctx)
}

// HealthHandler reports service liveness and dependency readiness.
type HealthHandler struct {
	checks map[string]HealthChecker
}

// NewHealthHandler constructs a HealthHandler with named dependency checks.
func NewHealthHandler(checks map[string]HealthChecker) *HealthHandler {
	return &HealthHandler{checks: checks}
}

// RegisterRoutes binds the health endpoint.
func (h *HealthHandler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/healthz", h.health)
}

func (h *HealthHandler) health(c *gin.Context) {
	status := http.StatusOK
	detail := gin.H{"status": "ok"}

	for name, check := range h.checks {
		if check == nil {
			continue
		}
		if err := check.HealthCheck(c.Request.Context()); err != nil {
			status = http.StatusServiceUnavailable
			detail["status"] = "degraded"
			detail[name] = err.Error()
		}
	}

	c.JSON(status, detail)
}
