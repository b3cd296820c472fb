package routes

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// SystemRoutes registers liveness and scrape endpoints.
type SystemRoutes struct {
	metrics bool
}

// NewSystemRoutes constructs system routes. /metrics is only mounted when
// the Prometheus reader is enabled.
func NewSystemRoutes(prometheusMetrics bool) *SystemRoutes {
	return &SystemRoutes{metrics: prometheusMetrics}
}

// RegisterRoutes registers system endpoints.
func (r *SystemRoutes) RegisterRoutes(s *echo.Echo) {
	s.GET("/healthz", handleHealth)
	if r.metrics {
		s.GET("/metrics", echo.WrapHandler(promhttp.Handler()))
	}
}

func handleHealth(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}
