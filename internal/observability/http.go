package observability

import (
	"context"
	"strings"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
)

// EchoMiddleware returns the unified HTTP tracing middleware.
func EchoMiddleware() echo.MiddlewareFunc {
	return otelecho.Middleware("stockwatch", otelecho.WithSkipper(traceSkipper))
}

// EchoSpanEnrichmentMiddleware tags the request context and root span with
// the request id, matched route and, on supplier routes, the supplier tag.
func EchoSpanEnrichmentMiddleware() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.SetRequest(c.Request().WithContext(enrich(c)))
			err := next(c)
			c.SetRequest(c.Request().WithContext(enrich(c)))
			return err
		}
	}
}

func enrich(c echo.Context) context.Context {
	ctx := WithRequestMetadata(c.Request().Context(), c.Response().Header().Get(echo.HeaderXRequestID), resolvedRoute(c))
	if supplier := supplierParam(c); supplier != "" {
		ctx = WithSupplier(ctx, supplier)
	}
	return ctx
}

func supplierParam(c echo.Context) string {
	for _, name := range []string{"source", "supplier"} {
		if value := strings.ToLower(strings.TrimSpace(c.Param(name))); value != "" {
			return value
		}
	}
	return ""
}

func traceSkipper(c echo.Context) bool {
	switch strings.TrimSpace(c.Request().URL.Path) {
	case "/healthz", "/metrics", "/favicon.ico":
		return true
	default:
		return false
	}
}

func resolvedRoute(c echo.Context) string {
	if route := strings.TrimSpace(c.Path()); route != "" {
		return route
	}
	return strings.TrimSpace(c.Request().URL.Path)
}
