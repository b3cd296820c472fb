package sqlite

import (
	"context"

	"github.com/fr0stylo/stockwatch/internal/app/domain"
	"github.com/fr0stylo/stockwatch/internal/app/ports"
	"github.com/fr0stylo/stockwatch/internal/db"
)

type ingestionStore struct {
	db ingestionDatabase
}

func newIngestionStore(database ingestionDatabase) *ingestionStore {
	return &ingestionStore{db: database}
}

func (s *ingestionStore) GetSupplierAccountByAuthToken(ctx context.Context, token string) (ports.SupplierAccount, error) {
	account, err := s.db.GetSupplierAccountByAuthToken(ctx, token)
	if err != nil {
		return ports.SupplierAccount{}, err
	}
	return ports.SupplierAccount{
		ID:            account.ID,
		Source:        domain.Source(account.Source),
		Name:          account.Name,
		AuthToken:     account.AuthToken,
		WebhookSecret: account.WebhookSecret,
		Enabled:       account.Enabled != 0,
	}, nil
}

func (s *ingestionStore) AppendEvents(ctx context.Context, events []domain.WebhookEvent) error {
	rows := make([]db.WebhookEvent, 0, len(events))
	for _, event := range events {
		row, err := eventToRow(event)
		if err != nil {
			return err
		}
		rows = append(rows, row)
	}
	return s.db.AppendWebhookEvents(ctx, rows)
}

func (s *ingestionStore) UpdateEventStatus(ctx context.Context, event domain.WebhookEvent) error {
	row, err := eventToRow(event)
	if err != nil {
		return err
	}
	return s.db.UpdateWebhookEventStatus(ctx, row)
}

func (s *ingestionStore) AppendNotifications(ctx context.Context, notifications []domain.WebhookNotification) error {
	rows := make([]db.WebhookNotification, 0, len(notifications))
	for _, n := range notifications {
		rows = append(rows, notificationToRow(n))
	}
	return s.db.AppendNotifications(ctx, rows)
}

func (s *ingestionStore) AppendAlerts(ctx context.Context, alerts []domain.InventoryAlert) error {
	rows := make([]db.InventoryAlert, 0, len(alerts))
	for _, a := range alerts {
		rows = append(rows, alertToRow(a))
	}
	return s.db.AppendAlerts(ctx, rows)
}

// Close is a no-op; the shared handle belongs to Stores' owner.
func (s *ingestionStore) Close() error {
	return nil
}

var _ ports.IngestionStore = (*ingestionStore)(nil)
