package handler

import (
	"net/http"

	"github.com/deppfellow/robotics-club/internal/middleware"
	"github.com/deppfellow/robotics-club/internal/server"
	"github.com/labstack/echo/v4"
)

// HealthHandler answers load balancer and uptime probes with the result of
// the database and Redis checks.
type HealthHandler struct {
	Handler
}

func NewHealthHandler(s *server.Server) *HealthHandler {
	return &HealthHandler{Handler: NewHandler(s)}
}

// CheckHealth returns 200 when every check passes and 503 otherwise.
func (h *HealthHandler) CheckHealth(c echo.Context) error {
	report := h.server.Health.Run(c.Request().Context())

	status := http.StatusOK
	if !report.Healthy() {
		status = http.StatusServiceUnavailable
		middleware.GetLogger(c).Warn().Interface("checks", report.Checks).Msg("dependency check failed")
	}

	c.Response().Header().Set("Cache-Control", "no-store")
	return c.JSON(status, report)
}
