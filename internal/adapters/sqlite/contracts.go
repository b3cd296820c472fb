package sqlite

import (
	"context"

	"github.com/fr0stylo/stockwatch/internal/db"
)

type snapshotDatabase interface {
	GetInventorySnapshot(ctx context.Context, id string) (db.InventorySnapshot, error)
	UpsertInventorySnapshot(ctx context.Context, row db.InventorySnapshot) error
	ListInventorySnapshots(ctx context.Context) ([]db.InventorySnapshot, error)
	ClearInventorySnapshots(ctx context.Context) error
}

type ingestionDatabase interface {
	GetSupplierAccountByAuthToken(ctx context.Context, authToken string) (db.SupplierAccount, error)
	AppendWebhookEvents(ctx context.Context, events []db.WebhookEvent) error
	UpdateWebhookEventStatus(ctx context.Context, event db.WebhookEvent) error
	AppendNotifications(ctx context.Context, rows []db.WebhookNotification) error
	AppendAlerts(ctx context.Context, rows []db.InventoryAlert) error
}

type feedDatabase interface {
	ListNotifications(ctx context.Context, unreadOnly bool, limit int) ([]db.WebhookNotification, error)
	MarkNotificationRead(ctx context.Context, id string) (int64, error)
	ListAlerts(ctx context.Context, openOnly bool, limit int) ([]db.InventoryAlert, error)
	AcknowledgeAlert(ctx context.Context, id, by, at string) (int64, error)
	ListWebhookEvents(ctx context.Context, limit int) ([]db.WebhookEvent, error)
	ForEachWebhookEvent(ctx context.Context, fn func(db.WebhookEvent) error) error
}
