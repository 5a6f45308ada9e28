package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
)

// BackendChecker reports whether the backend is reachable right now.
type BackendChecker interface {
	Check(ctx context.Context) bool
}

type HealthHandler struct {
	backend BackendChecker
}

var healthHandler *HealthHandler

func NewHealthHandler(backend BackendChecker) *HealthHandler {
	return &HealthHandler{
		backend: backend,
	}
}

func SetupHealthHandler(backend BackendChecker) {
	healthHandler = NewHealthHandler(backend)
}

func GetHealthHandler() *HealthHandler {
	return healthHandler
}

func (h *HealthHandler) CheckHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "Server is running",
		"time":   time.Now().Format(time.RFC3339),
	})
}

func (h *HealthHandler) CheckBackendHealth(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if !h.backend.Check(ctx) {
		return c.JSON(http.StatusServiceUnavailable, map[string]string{
			"status": "Backend unreachable",
		})
	}

	return c.JSON(http.StatusOK, map[string]string{
		"status": "Backend reachable",
	})
}
