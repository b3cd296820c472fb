package supplier

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

type supplierIngestionMetrics struct {
	requests metric.Int64Counter
	accepted metric.Int64Counter
	rejected metric.Int64Counter
	outcome  metric.Int64Counter
}

func newSupplierIngestionMetrics() supplierIngestionMetrics {
	meter := otel.Meter("github.com/fr0stylo/stockwatch/internal/webhooks/supplier")
	requests, _ := meter.Int64Counter("stockwatch.ingestion.supplier.requests")
	accepted, _ := meter.Int64Counter("stockwatch.ingestion.supplier.accepted")
	rejected, _ := meter.Int64Counter("stockwatch.ingestion.supplier.rejected")
	outcome, _ := meter.Int64Counter("stockwatch.ingestion.supplier.outcome")
	return supplierIngestionMetrics{
		requests: requests,
		accepted: accepted,
		rejected: rejected,
		outcome:  outcome,
	}
}

func (m supplierIngestionMetrics) recordRequest(ctx context.Context, supplier string) {
	m.requests.Add(ctx, 1, metric.WithAttributes(attribute.String("supplier", supplier)))
}

func (m supplierIngestionMetrics) recordAccepted(ctx context.Context, supplier string) {
	m.accepted.Add(ctx, 1, metric.WithAttributes(attribute.String("supplier", supplier)))
}

func (m supplierIngestionMetrics) recordRejected(ctx context.Context, supplier, reason string) {
	m.rejected.Add(ctx, 1, metric.WithAttributes(
		attribute.String("supplier", supplier),
		attribute.String("reason", reason),
	))
}

// recordOutcome counts the reconciliation status of accepted deliveries.
func (m supplierIngestionMetrics) recordOutcome(ctx context.Context, supplier, status string) {
	m.outcome.Add(ctx, 1, metric.WithAttributes(
		attribute.String("supplier", supplier),
		attribute.String("status", status),
	))
}
