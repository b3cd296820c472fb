package services

import (
	"context"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/fr0stylo/stockwatch/internal/app/domain"
	"github.com/fr0stylo/stockwatch/internal/app/ports"
)

// ingestBatcher coalesces event-log appends from concurrent deliveries into
// one store write per flush. Callers block until their batch is written.
type ingestBatcher struct {
	storeFactory  ports.IngestionStoreFactory
	batchSize     int
	flushInterval time.Duration
	queue         chan batchedEvent
	metrics       batcherMetrics
}

type batchedEvent struct {
	event  domain.WebhookEvent
	result chan error
}

type batcherMetrics struct {
	flushes metric.Int64Counter
	events  metric.Int64Counter
	errors  metric.Int64Counter
}

func newIngestBatcher(storeFactory ports.IngestionStoreFactory, batchSize int, flushInterval time.Duration) *ingestBatcher {
	b := &ingestBatcher{
		storeFactory:  storeFactory,
		batchSize:     batchSize,
		flushInterval: flushInterval,
		queue:         make(chan batchedEvent, batchSize*8),
	}
	b.metrics = newBatcherMetrics(b.queue)
	go b.run()
	return b
}

func newBatcherMetrics(queue chan batchedEvent) batcherMetrics {
	meter := otel.Meter("github.com/fr0stylo/stockwatch/internal/app/services")
	flushes, _ := meter.Int64Counter("stockwatch.ingest.batch.flushes")
	events, _ := meter.Int64Counter("stockwatch.ingest.batch.events")
	errors, _ := meter.Int64Counter("stockwatch.ingest.batch.errors")
	_, _ = meter.Int64ObservableGauge("stockwatch.ingest.batch.queue_depth",
		metric.WithInt64Callback(func(_ context.Context, o metric.Int64Observer) error {
			o.Observe(int64(len(queue)))
			return nil
		}),
	)
	return batcherMetrics{flushes: flushes, events: events, errors: errors}
}

func (b *ingestBatcher) append(ctx context.Context, event domain.WebhookEvent) error {
	pending := batchedEvent{event: event, result: make(chan error, 1)}

	select {
	case b.queue <- pending:
	case <-ctx.Done():
		return ctx.Err()
	default:
		slog.WarnContext(ctx, "ingest_batch_queue_full", "queue_cap", cap(b.queue), "event_id", event.ID)
		return ErrIngestBusy
	}

	select {
	case err := <-pending.result:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (b *ingestBatcher) run() {
	ticker := time.NewTicker(b.flushInterval)
	defer ticker.Stop()

	batch := make([]batchedEvent, 0, b.batchSize)
	for {
		select {
		case pending := <-b.queue:
			batch = append(batch, pending)
			if len(batch) < b.batchSize {
				continue
			}
		case <-ticker.C:
			if len(batch) == 0 {
				continue
			}
		}
		b.flush(batch)
		batch = batch[:0]
	}
}

func (b *ingestBatcher) flush(batch []batchedEvent) {
	ctx := context.Background()
	err := b.write(ctx, batch)
	if err != nil {
		b.metrics.errors.Add(ctx, 1)
	} else {
		b.metrics.flushes.Add(ctx, 1)
		b.metrics.events.Add(ctx, int64(len(batch)))
	}
	for _, pending := range batch {
		pending.result <- err
	}
}

func (b *ingestBatcher) write(ctx context.Context, batch []batchedEvent) error {
	store, err := b.storeFactory.Open()
	if err != nil {
		slog.Error("ingest_batch_open_failed", "error", err, "batch_size", len(batch))
		return err
	}
	defer func() {
		_ = store.Close()
	}()

	events := make([]domain.WebhookEvent, len(batch))
	for i, pending := range batch {
		events[i] = pending.event
	}
	if err := store.AppendEvents(ctx, events); err != nil {
		slog.Error("ingest_batch_flush_failed", "error", err, "batch_size", len(events))
		return err
	}
	return nil
}
