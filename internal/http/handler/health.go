package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

const (
	jsonKeyStatus      = "status"
	statusOK           = "ok"
	statusUnavailable  = "unavailable"
	healthCheckTimeout = 2 * time.Second
)

type HealthHandler struct {
	checks map[string]HealthChecker
}

// NewHealthHandler reports on the named dependencies. Nil checkers are skipped.
func NewHealthHandler(checks map[string]HealthChecker) *HealthHandler {
	active := make(map[string]HealthChecker, len(checks))
	for name, check := range checks {
		if check != nil {
			active[name] = check
		}
	}
	return &HealthHandler{checks: active}
}

func (h *HealthHandler) Health(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), healthCheckTimeout)
	defer cancel()

	body := map[string]string{jsonKeyStatus: statusOK}
	code := http.StatusOK

	for name, check := range h.checks {
		if err := check.Ping(ctx); err != nil {
			c.Logger().Errorf("health check %s failed: %v", name, err)
			body[name] = statusUnavailable
			body[jsonKeyStatus] = statusUnavailable
			code = http.StatusServiceUnavailable
			continue
		}
		body[name] = statusOK
	}

	return c.JSON(code, body)
}
