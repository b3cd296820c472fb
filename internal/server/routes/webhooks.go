package routes

import (
	"github.com/labstack/echo/v4"

	supplierwebhook "github.com/fr0stylo/stockwatch/internal/webhooks/supplier"
)

// WebhookRoutes registers webhook endpoints.
type WebhookRoutes struct {
	supplier *supplierwebhook.Handler
}

// NewWebhookRoutes constructs webhook routes.
func NewWebhookRoutes(ingest supplierwebhook.Ingester) *WebhookRoutes {
	return &WebhookRoutes{
		supplier: supplierwebhook.NewHandler(ingest),
	}
}

// RegisterRoutes registers webhook endpoints.
func (w *WebhookRoutes) RegisterRoutes(s *echo.Echo) {
	s.POST("/webhooks/suppliers/:source", w.handleSupplierWebhook)
}

func (w *WebhookRoutes) handleSupplierWebhook(c echo.Context) error {
	return w.supplier.Handle(c.Response(), c.Request(), c.Param("source"))
}
