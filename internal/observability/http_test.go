package observability

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

func TestEchoSpanEnrichmentTagsSupplierRoutes(t *testing.T) {
	t.Parallel()

	e := echo.New()
	e.Use(middleware.RequestID())
	e.Use(EchoSpanEnrichmentMiddleware())

	var supplier, route, requestID string
	e.POST("/webhooks/suppliers/:source", func(c echo.Context) error {
		ctx := c.Request().Context()
		supplier, _ = SupplierFromContext(ctx)
		route, _ = RouteFromContext(ctx)
		requestID, _ = RequestIDFromContext(ctx)
		return c.NoContent(http.StatusAccepted)
	})

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/webhooks/suppliers/SanMar", nil))

	if supplier != "sanmar" {
		t.Fatalf("unexpected supplier: got=%q want=%q", supplier, "sanmar")
	}
	if route != "/webhooks/suppliers/:source" {
		t.Fatalf("unexpected route: %q", route)
	}
	if requestID == "" {
		t.Fatal("expected request id in context")
	}
}
