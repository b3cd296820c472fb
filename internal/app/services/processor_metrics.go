package services

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/fr0stylo/stockwatch/internal/app/domain"
)

type reconcileMetrics struct {
	events        metric.Int64Counter
	notifications metric.Int64Counter
	alerts        metric.Int64Counter
	duration      metric.Float64Histogram
}

func newReconcileMetrics() reconcileMetrics {
	meter := otel.Meter("github.com/fr0stylo/stockwatch/internal/app/services")
	events, _ := meter.Int64Counter("stockwatch.reconcile.events")
	notifications, _ := meter.Int64Counter("stockwatch.reconcile.notifications")
	alerts, _ := meter.Int64Counter("stockwatch.reconcile.alerts")
	duration, _ := meter.Float64Histogram("stockwatch.reconcile.duration", metric.WithUnit("ms"))
	return reconcileMetrics{
		events:        events,
		notifications: notifications,
		alerts:        alerts,
		duration:      duration,
	}
}

func (m reconcileMetrics) recordEvent(ctx context.Context, source domain.Source, status domain.EventStatus, elapsed time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String("supplier", string(source)),
		attribute.String("status", string(status)),
	)
	m.events.Add(ctx, 1, attrs)
	m.duration.Record(ctx, float64(elapsed)/float64(time.Millisecond), attrs)
}

func (m reconcileMetrics) recordNotification(ctx context.Context, kind domain.NotificationType) {
	m.notifications.Add(ctx, 1, metric.WithAttributes(attribute.String("type", string(kind))))
}

func (m reconcileMetrics) recordAlert(ctx context.Context, kind domain.AlertType) {
	m.alerts.Add(ctx, 1, metric.WithAttributes(attribute.String("type", string(kind))))
}
