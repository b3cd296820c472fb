package services

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/fr0stylo/stockwatch/internal/app/domain"
	"github.com/fr0stylo/stockwatch/internal/app/ports"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
	maxSampleSize    = 10000
)

// ErrInvalidAcknowledger indicates an alert ack without a name.
var ErrInvalidAcknowledger = errors.New("acknowledged by is required")

// SampleFunc produces n synthetic webhook events.
type SampleFunc func(n int) []domain.WebhookEvent

// InventoryReadService serves snapshot, feed and analytics queries.
type InventoryReadService struct {
	snapshots ports.SnapshotStore
	feed      ports.FeedStore
	sample    SampleFunc
	now       func() time.Time
}

// NewInventoryReadService constructs the read side. sample may be nil.
func NewInventoryReadService(snapshots ports.SnapshotStore, feed ports.FeedStore, sample SampleFunc) *InventoryReadService {
	return &InventoryReadService{
		snapshots: snapshots,
		feed:      feed,
		sample:    sample,
		now:       time.Now,
	}
}

// ListSnapshots returns snapshots sorted by key, optionally for one supplier.
func (s *InventoryReadService) ListSnapshots(ctx context.Context, supplier string) ([]domain.InventorySnapshot, error) {
	all, err := s.snapshots.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	supplier = strings.ToLower(strings.TrimSpace(supplier))
	out := make([]domain.InventorySnapshot, 0, len(all))
	for _, snapshot := range all {
		if supplier != "" && string(snapshot.Supplier) != supplier {
			continue
		}
		out = append(out, snapshot)
	}
	slices.SortFunc(out, func(a, b domain.InventorySnapshot) int {
		return strings.Compare(a.Key().String(), b.Key().String())
	})
	return out, nil
}

// GetSnapshot returns one snapshot or ports.ErrNotFound.
func (s *InventoryReadService) GetSnapshot(ctx context.Context, key domain.SnapshotKey) (domain.InventorySnapshot, error) {
	snapshot, ok, err := s.snapshots.Get(ctx, key)
	if err != nil {
		return domain.InventorySnapshot{}, err
	}
	if !ok {
		return domain.InventorySnapshot{}, ports.ErrNotFound
	}
	return snapshot, nil
}

func (s *InventoryReadService) ListNotifications(ctx context.Context, unreadOnly bool, limit int) ([]domain.WebhookNotification, error) {
	return s.feed.ListNotifications(ctx, ports.NotificationFilter{UnreadOnly: unreadOnly, Limit: clampLimit(limit)})
}

func (s *InventoryReadService) MarkNotificationRead(ctx context.Context, id string) error {
	return s.feed.MarkNotificationRead(ctx, id)
}

func (s *InventoryReadService) ListAlerts(ctx context.Context, openOnly bool, limit int) ([]domain.InventoryAlert, error) {
	return s.feed.ListAlerts(ctx, ports.AlertFilter{OpenOnly: openOnly, Limit: clampLimit(limit)})
}

// AcknowledgeAlert stamps an alert as handled by the given operator.
func (s *InventoryReadService) AcknowledgeAlert(ctx context.Context, id, by string) error {
	if strings.TrimSpace(by) == "" {
		return ErrInvalidAcknowledger
	}
	return s.feed.AcknowledgeAlert(ctx, id, by, s.now().UTC())
}

func (s *InventoryReadService) ListEvents(ctx context.Context, limit int) ([]domain.WebhookEvent, error) {
	return s.feed.ListEvents(ctx, clampLimit(limit))
}

// WebhookAnalytics summarizes the most recent persisted events, or n
// generated events when sample > 0 and a sampler is configured.
func (s *InventoryReadService) WebhookAnalytics(ctx context.Context, sample int) (EventSummary, error) {
	if sample > 0 && s.sample != nil {
		return SummarizeEvents(s.sample(min(sample, maxSampleSize))), nil
	}
	events, err := s.feed.ListEvents(ctx, maxListLimit)
	if err != nil {
		return EventSummary{}, err
	}
	return SummarizeEvents(events), nil
}

func clampLimit(limit int) int {
	switch {
	case limit <= 0:
		return defaultListLimit
	case limit > maxListLimit:
		return maxListLimit
	default:
		return limit
	}
}
