package ports

import (
	"context"

	"github.com/fr0stylo/stockwatch/internal/app/domain"
)

// IngestionStore is the minimal storage contract needed by webhook ingestion.
type IngestionStore interface {
	GetSupplierAccountByAuthToken(ctx context.Context, token string) (SupplierAccount, error)
	AppendEvents(ctx context.Context, events []domain.WebhookEvent) error
	UpdateEventStatus(ctx context.Context, event domain.WebhookEvent) error
	AppendNotifications(ctx context.Context, notifications []domain.WebhookNotification) error
	AppendAlerts(ctx context.Context, alerts []domain.InventoryAlert) error
	Close() error
}

// SupplierAccount is one configured supplier feed credential.
type SupplierAccount struct {
	ID            int64
	Source        domain.Source
	Name          string
	AuthToken     string
	WebhookSecret string
	Enabled       bool
}

// IngestionStoreFactory creates request-scoped ingestion stores.
type IngestionStoreFactory interface {
	Open() (IngestionStore, error)
}
