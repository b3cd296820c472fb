package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel/attribute"

	"github.com/fr0stylo/stockwatch/internal/app/domain"
	"github.com/fr0stylo/stockwatch/internal/app/ports"
	"github.com/fr0stylo/stockwatch/internal/observability"
)

var (
	// ErrInvalidQuantity indicates a negative reported quantity.
	ErrInvalidQuantity = errors.New("invalid quantity")
	// ErrInvalidSize indicates a size update without a size id.
	ErrInvalidSize = errors.New("invalid size")
	// ErrProcessingPanic wraps a recovered panic.
	ErrProcessingPanic = errors.New("processing panic")
	// ErrNilEvent is returned for a nil event.
	ErrNilEvent = errors.New("nil event")
)

// Hooks are optional side effects invoked synchronously in emission order.
type Hooks struct {
	OnNotification func(domain.WebhookNotification)
	OnAlert        func(domain.InventoryAlert)
}

// ProcessResult is the outcome of reconciling one event.
// On failure it still carries everything emitted before the failure.
type ProcessResult struct {
	Success       bool
	Notifications []domain.WebhookNotification
	Alerts        []domain.InventoryAlert
	Err           error
}

// ProcessorOption customizes a Processor.
type ProcessorOption func(*Processor)

// WithClock overrides the time source.
func WithClock(now func() time.Time) ProcessorOption {
	return func(p *Processor) {
		if now != nil {
			p.now = now
		}
	}
}

// WithIDGenerator overrides notification and alert id generation.
func WithIDGenerator(newID func() string) ProcessorOption {
	return func(p *Processor) {
		if newID != nil {
			p.newID = newID
		}
	}
}

// WithLogger overrides the processor logger.
func WithLogger(logger *slog.Logger) ProcessorOption {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// WithKeyLocks shares a lock table between processors writing the same store.
func WithKeyLocks(locks *KeyLocks) ProcessorOption {
	return func(p *Processor) {
		if locks != nil {
			p.locks = locks
		}
	}
}

// Processor diffs incoming supplier updates against stored snapshots and
// emits notifications and alerts for stock transitions.
type Processor struct {
	store   ports.SnapshotStore
	locks   *KeyLocks
	now     func() time.Time
	newID   func() string
	logger  *slog.Logger
	metrics reconcileMetrics
}

// NewProcessor builds a processor over the given snapshot store.
func NewProcessor(store ports.SnapshotStore, opts ...ProcessorOption) *Processor {
	p := &Processor{
		store:   store,
		locks:   NewKeyLocks(),
		now:     time.Now,
		newID:   uuid.NewString,
		logger:  slog.Default(),
		metrics: newReconcileMetrics(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Process reconciles one event. It never panics and never returns an error
// directly; failures are reported through ProcessResult and the event status.
func (p *Processor) Process(ctx context.Context, event *domain.WebhookEvent, hooks Hooks) ProcessResult {
	if event == nil {
		return ProcessResult{Err: ErrNilEvent}
	}

	started := p.now()
	ctx = observability.WithSupplier(ctx, string(event.Source))
	ctx, span := observability.StartReconcileSpan(ctx, "reconcile.process",
		attribute.String("stockwatch.event_id", event.ID),
		attribute.String("stockwatch.event_type", string(event.EventType)),
		attribute.Int("stockwatch.products", len(event.Payload.Products)),
	)
	defer span.End()

	event.Status = domain.StatusProcessing
	run := &reconcileRun{processor: p, event: event, hooks: hooks}
	err := run.safely(ctx)

	finished := p.now()
	event.ProcessedAt = &finished
	event.ResponseTimeMS = finished.Sub(started).Milliseconds()
	if err != nil {
		event.Status = domain.StatusFailed
		event.Error = err.Error()
		span.RecordError(err)
		p.logger.ErrorContext(ctx, "Failed to process webhook event",
			"event_id", event.ID,
			"error", err,
			"notifications", len(run.notifications),
			"alerts", len(run.alerts),
		)
	} else {
		event.Status = domain.StatusCompleted
		event.Error = ""
	}
	span.SetAttributes(
		attribute.String("stockwatch.status", string(event.Status)),
		attribute.Int("stockwatch.notifications", len(run.notifications)),
		attribute.Int("stockwatch.alerts", len(run.alerts)),
	)
	p.metrics.recordEvent(ctx, event.Source, event.Status, finished.Sub(started))

	return ProcessResult{
		Success:       err == nil,
		Notifications: run.notifications,
		Alerts:        run.alerts,
		Err:           err,
	}
}

type reconcileRun struct {
	processor     *Processor
	event         *domain.WebhookEvent
	hooks         Hooks
	notifications []domain.WebhookNotification
	alerts        []domain.InventoryAlert
}

func (r *reconcileRun) safely(ctx context.Context) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			err = fmt.Errorf("%w: %v", ErrProcessingPanic, recovered)
		}
	}()
	return r.apply(ctx)
}

func (r *reconcileRun) apply(ctx context.Context) error {
	for _, product := range r.event.Payload.Products {
		if product.Discontinued {
			title, msg := discontinuedMessage(product, r.event.Source)
			r.notify(ctx, r.notification(product, domain.NotificationDiscontinued, domain.SeverityError, title, msg, map[string]any{
				"styleId":  product.StyleID,
				"supplier": string(r.event.Source),
			}))
		}
		if product.PriceUpdate != nil {
			title, msg := priceChangeMessage(product, *product.PriceUpdate)
			r.notify(ctx, r.notification(product, domain.NotificationPriceChange, domain.SeverityInfo, title, msg, map[string]any{
				"price":   product.PriceUpdate.StringFixed(2),
				"styleId": product.StyleID,
			}))
		}
		for _, size := range product.SizeUpdates {
			if err := r.applySize(ctx, product, size); err != nil {
				return fmt.Errorf("product %s size %s: %w", product.SKU, size.SizeID, err)
			}
		}
	}
	return nil
}

func (r *reconcileRun) applySize(ctx context.Context, product domain.ProductInventoryUpdate, size domain.SizeInventoryUpdate) error {
	if strings.TrimSpace(size.SizeID) == "" {
		return ErrInvalidSize
	}
	if size.CurrentQuantity < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidQuantity, size.CurrentQuantity)
	}

	key := domain.SnapshotKey{
		Supplier: r.event.Source,
		StyleID:  product.StyleID,
		ColorID:  product.ColorID,
		SizeID:   size.SizeID,
	}

	var (
		previous domain.InventorySnapshot
		existed  bool
		next     domain.InventorySnapshot
	)
	store := r.processor.store
	err := r.processor.locks.WithLock(key.String(), func() error {
		var err error
		previous, existed, err = store.Get(ctx, key)
		if err != nil {
			return fmt.Errorf("get snapshot: %w", err)
		}
		next = r.nextSnapshot(product, size, previous, existed)
		if err := store.Upsert(ctx, next); err != nil {
			return fmt.Errorf("upsert snapshot: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if existed {
		r.transition(ctx, product, size, previous, next)
	}
	switch {
	case next.IsOutOfStock:
		r.raise(ctx, r.alert(product, next, domain.AlertOutOfStock, false))
	case next.IsLowStock:
		r.raise(ctx, r.alert(product, next, domain.AlertLowStock, true))
	}
	return nil
}

func (r *reconcileRun) nextSnapshot(product domain.ProductInventoryUpdate, size domain.SizeInventoryUpdate, previous domain.InventorySnapshot, existed bool) domain.InventorySnapshot {
	price := decimal.Zero
	switch {
	case product.PriceUpdate != nil:
		price = *product.PriceUpdate
	case existed:
		price = previous.Price
	}
	updatedAt := size.Timestamp
	if updatedAt.IsZero() {
		updatedAt = r.processor.now()
	}
	return domain.InventorySnapshot{
		SKU:               product.SKU,
		StyleID:           product.StyleID,
		ColorID:           product.ColorID,
		SizeID:            size.SizeID,
		Quantity:          size.CurrentQuantity,
		Price:             price,
		Supplier:          r.event.Source,
		UpdatedAt:         updatedAt,
		LowStockThreshold: domain.DefaultLowStockThreshold,
	}.Normalize()
}

// transition emits at most one notification; the first matching bucket change wins.
func (r *reconcileRun) transition(ctx context.Context, product domain.ProductInventoryUpdate, size domain.SizeInventoryUpdate, previous, next domain.InventorySnapshot) {
	switch {
	case previous.Quantity > 0 && next.IsOutOfStock:
		title, msg := outOfStockMessage(product, size)
		r.notify(ctx, r.notification(product, domain.NotificationOutOfStock, domain.SeverityWarning, title, msg, map[string]any{
			"size":             sizeLabel(size),
			"color":            colorLabel(product),
			"previousQuantity": previous.Quantity,
		}))
	case previous.IsOutOfStock && !next.IsOutOfStock:
		title, msg := restockedMessage(product, size, next.Quantity)
		r.notify(ctx, r.notification(product, domain.NotificationRestocked, domain.SeverityInfo, title, msg, map[string]any{
			"size":     sizeLabel(size),
			"color":    colorLabel(product),
			"quantity": next.Quantity,
		}))
	case !previous.IsLowStock && next.IsLowStock:
		title, msg := lowStockMessage(product, size, next.Quantity)
		r.notify(ctx, r.notification(product, domain.NotificationLowStock, domain.SeverityWarning, title, msg, map[string]any{
			"size":      sizeLabel(size),
			"color":     colorLabel(product),
			"quantity":  next.Quantity,
			"threshold": next.LowStockThreshold,
		}))
	}
}

func (r *reconcileRun) notification(product domain.ProductInventoryUpdate, kind domain.NotificationType, severity domain.Severity, title, msg string, metadata map[string]any) domain.WebhookNotification {
	return domain.WebhookNotification{
		ID:          r.processor.newID(),
		EventID:     r.event.ID,
		Type:        kind,
		Title:       title,
		Message:     msg,
		Severity:    severity,
		ProductSKU:  product.SKU,
		ProductName: product.DisplayName(),
		CreatedAt:   r.processor.now(),
		Metadata:    metadata,
	}
}

func (r *reconcileRun) alert(product domain.ProductInventoryUpdate, snapshot domain.InventorySnapshot, kind domain.AlertType, withThreshold bool) domain.InventoryAlert {
	alert := domain.InventoryAlert{
		ID:              r.processor.newID(),
		SKU:             product.SKU,
		StyleID:         snapshot.StyleID,
		ColorID:         snapshot.ColorID,
		SizeID:          snapshot.SizeID,
		AlertType:       kind,
		CurrentQuantity: snapshot.Quantity,
		Supplier:        snapshot.Supplier,
		CreatedAt:       r.processor.now(),
	}
	if withThreshold {
		threshold := snapshot.LowStockThreshold
		alert.Threshold = &threshold
	}
	return alert
}

func (r *reconcileRun) notify(ctx context.Context, notification domain.WebhookNotification) {
	r.notifications = append(r.notifications, notification)
	r.processor.metrics.recordNotification(ctx, notification.Type)
	if r.hooks.OnNotification != nil {
		r.hooks.OnNotification(notification)
	}
}

func (r *reconcileRun) raise(ctx context.Context, alert domain.InventoryAlert) {
	r.alerts = append(r.alerts, alert)
	r.processor.metrics.recordAlert(ctx, alert.AlertType)
	if r.hooks.OnAlert != nil {
		r.hooks.OnAlert(alert)
	}
}
