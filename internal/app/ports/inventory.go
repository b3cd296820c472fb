package ports

import (
	"context"
	"errors"
	"time"

	"github.com/fr0stylo/stockwatch/internal/app/domain"
)

// ErrNotFound is returned by feed stores for unknown ids.
var ErrNotFound = errors.New("not found")

// SnapshotStore holds the last known state per inventory unit.
// Upsert replaces the stored row and recomputes stock flags; no merge, no versioning.
type SnapshotStore interface {
	Get(ctx context.Context, key domain.SnapshotKey) (domain.InventorySnapshot, bool, error)
	Upsert(ctx context.Context, snapshot domain.InventorySnapshot) error
	GetAll(ctx context.Context) ([]domain.InventorySnapshot, error)
	Clear(ctx context.Context) error
}

// FeedStore serves the notification/alert/event read side.
type FeedStore interface {
	ListNotifications(ctx context.Context, filter NotificationFilter) ([]domain.WebhookNotification, error)
	MarkNotificationRead(ctx context.Context, id string) error
	ListAlerts(ctx context.Context, filter AlertFilter) ([]domain.InventoryAlert, error)
	AcknowledgeAlert(ctx context.Context, id, by string, at time.Time) error
	ListEvents(ctx context.Context, limit int) ([]domain.WebhookEvent, error)
}

// NotificationFilter narrows notification listings.
type NotificationFilter struct {
	UnreadOnly bool
	Limit      int
}

// AlertFilter narrows alert listings.
type AlertFilter struct {
	OpenOnly bool
	Limit    int
}

// EventLog walks persisted webhook events in received order.
type EventLog interface {
	ForEachEvent(ctx context.Context, fn func(domain.WebhookEvent) error) error
}
