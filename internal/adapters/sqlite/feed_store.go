package sqlite

import (
	"context"
	"strings"
	"time"

	"github.com/fr0stylo/stockwatch/internal/app/domain"
	"github.com/fr0stylo/stockwatch/internal/app/ports"
	"github.com/fr0stylo/stockwatch/internal/db"
)

// FeedStore reads notifications, alerts and the webhook event log.
type FeedStore struct {
	db feedDatabase
}

// NewFeedStore wraps a database handle.
func NewFeedStore(database feedDatabase) *FeedStore {
	return &FeedStore{db: database}
}

func (s *FeedStore) ListNotifications(ctx context.Context, filter ports.NotificationFilter) ([]domain.WebhookNotification, error) {
	rows, err := s.db.ListNotifications(ctx, filter.UnreadOnly, filter.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.WebhookNotification, 0, len(rows))
	for _, row := range rows {
		out = append(out, notificationFromRow(row))
	}
	return out, nil
}

func (s *FeedStore) MarkNotificationRead(ctx context.Context, id string) error {
	affected, err := s.db.MarkNotificationRead(ctx, strings.TrimSpace(id))
	if err != nil {
		return err
	}
	if affected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (s *FeedStore) ListAlerts(ctx context.Context, filter ports.AlertFilter) ([]domain.InventoryAlert, error) {
	rows, err := s.db.ListAlerts(ctx, filter.OpenOnly, filter.Limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.InventoryAlert, 0, len(rows))
	for _, row := range rows {
		out = append(out, alertFromRow(row))
	}
	return out, nil
}

func (s *FeedStore) AcknowledgeAlert(ctx context.Context, id, by string, at time.Time) error {
	affected, err := s.db.AcknowledgeAlert(ctx, strings.TrimSpace(id), strings.TrimSpace(by), formatTime(at))
	if err != nil {
		return err
	}
	if affected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (s *FeedStore) ListEvents(ctx context.Context, limit int) ([]domain.WebhookEvent, error) {
	rows, err := s.db.ListWebhookEvents(ctx, limit)
	if err != nil {
		return nil, err
	}
	out := make([]domain.WebhookEvent, 0, len(rows))
	for _, row := range rows {
		event, err := eventFromRow(row)
		if err != nil {
			return nil, err
		}
		out = append(out, event)
	}
	return out, nil
}

func (s *FeedStore) ForEachEvent(ctx context.Context, fn func(domain.WebhookEvent) error) error {
	return s.db.ForEachWebhookEvent(ctx, func(row db.WebhookEvent) error {
		event, err := eventFromRow(row)
		if err != nil {
			return err
		}
		return fn(event)
	})
}

var (
	_ ports.FeedStore = (*FeedStore)(nil)
	_ ports.EventLog  = (*FeedStore)(nil)
)
