package services

import (
	"context"
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/fr0stylo/stockwatch/internal/adapters/memory"
	"github.com/fr0stylo/stockwatch/internal/app/domain"
	"github.com/fr0stylo/stockwatch/internal/app/ports"
)

func TestSummarizeEventsComputesRatesAndPercentiles(t *testing.T) {
	t.Parallel()

	events := make([]domain.WebhookEvent, 0, 20)
	for i := 1; i <= 20; i++ {
		processedAt := time.Date(2026, 3, 1, 9, 0, i, 0, time.UTC)
		event := domain.WebhookEvent{
			ID:             fmt.Sprintf("evt-%d", i),
			Source:         domain.SourceSanMar,
			Status:         domain.StatusCompleted,
			ProcessedAt:    &processedAt,
			ResponseTimeMS: int64(i * 10),
		}
		switch {
		case i <= 3:
			event.Status = domain.StatusFailed
			event.Error = "upstream timeout"
		case i == 4:
			event.Status = domain.StatusRetrying
			event.RetryCount = 2
			event.ProcessedAt = nil
			event.ResponseTimeMS = 0
		case i == 5:
			event.Source = domain.SourceSSActivewear
		}
		events = append(events, event)
	}

	summary := SummarizeEvents(events)
	if summary.Total != 20 {
		t.Fatalf("unexpected total: got=%d want=20", summary.Total)
	}
	if summary.ByStatus[domain.StatusFailed] != 3 || summary.ByStatus[domain.StatusCompleted] != 16 {
		t.Fatalf("unexpected status counts: %+v", summary.ByStatus)
	}
	if want := 16.0 / 19.0; math.Abs(summary.SuccessRate-want) > 1e-9 {
		t.Fatalf("unexpected success rate: got=%f want=%f", summary.SuccessRate, want)
	}
	if summary.FailureCauses["upstream timeout"] != 3 {
		t.Fatalf("unexpected failure causes: %+v", summary.FailureCauses)
	}
	if summary.BySource[domain.SourceSSActivewear] != 1 || summary.Retries != 2 {
		t.Fatalf("unexpected source/retry totals: %+v retries=%d", summary.BySource, summary.Retries)
	}
	rt := summary.ResponseTime
	if rt.P50 != 110 || rt.P95 != 190 || rt.Max != 200 || math.Abs(rt.Avg-2060.0/19.0) > 1e-9 {
		t.Fatalf("unexpected response times: %+v", rt)
	}
}

func TestSummarizeEventsSkipsUnprocessedLatency(t *testing.T) {
	t.Parallel()

	processedAt := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	events := []domain.WebhookEvent{
		{ID: "done", Status: domain.StatusCompleted, ProcessedAt: &processedAt, ResponseTimeMS: 100},
		{ID: "wait-1", Status: domain.StatusPending},
		{ID: "wait-2", Status: domain.StatusPending},
	}
	rt := SummarizeEvents(events).ResponseTime
	if rt.P50 != 100 || rt.Max != 100 || rt.Avg != 100 {
		t.Fatalf("unexpected response times: %+v", rt)
	}

	pending := SummarizeEvents(events[1:])
	if pending.Total != 2 || pending.ResponseTime != (ResponseTimeStats{}) {
		t.Fatalf("unexpected pending-only summary: %+v", pending)
	}
}

func TestSummarizeEventsEmpty(t *testing.T) {
	t.Parallel()

	summary := SummarizeEvents(nil)
	if summary.Total != 0 || summary.SuccessRate != 0 || summary.ByStatus == nil {
		t.Fatalf("unexpected empty summary: %+v", summary)
	}
}

type fakeFeedStore struct {
	events    []domain.WebhookEvent
	limit     int
	ackedID   string
	ackedBy   string
	ackedAt   time.Time
	readIDs   []string
	unreadArg bool
}

func (f *fakeFeedStore) ListNotifications(_ context.Context, filter ports.NotificationFilter) ([]domain.WebhookNotification, error) {
	f.unreadArg = filter.UnreadOnly
	f.limit = filter.Limit
	return nil, nil
}

func (f *fakeFeedStore) MarkNotificationRead(_ context.Context, id string) error {
	f.readIDs = append(f.readIDs, id)
	return nil
}

func (f *fakeFeedStore) ListAlerts(_ context.Context, filter ports.AlertFilter) ([]domain.InventoryAlert, error) {
	f.limit = filter.Limit
	return nil, nil
}

func (f *fakeFeedStore) AcknowledgeAlert(_ context.Context, id, by string, at time.Time) error {
	f.ackedID, f.ackedBy, f.ackedAt = id, by, at
	return nil
}

func (f *fakeFeedStore) ListEvents(_ context.Context, limit int) ([]domain.WebhookEvent, error) {
	f.limit = limit
	return f.events, nil
}

func TestInventoryReadServiceClampsLimitsAndValidatesAck(t *testing.T) {
	t.Parallel()

	feed := &fakeFeedStore{}
	svc := NewInventoryReadService(memory.NewSnapshotStore(), feed, nil)

	if _, err := svc.ListNotifications(context.Background(), true, 0); err != nil {
		t.Fatalf("list notifications: %v", err)
	}
	if feed.limit != defaultListLimit || !feed.unreadArg {
		t.Fatalf("unexpected notification filter: limit=%d unread=%v", feed.limit, feed.unreadArg)
	}
	if _, err := svc.ListAlerts(context.Background(), false, 100000); err != nil {
		t.Fatalf("list alerts: %v", err)
	}
	if feed.limit != maxListLimit {
		t.Fatalf("unexpected alert limit: got=%d want=%d", feed.limit, maxListLimit)
	}

	if err := svc.AcknowledgeAlert(context.Background(), "alert-1", "  "); err != ErrInvalidAcknowledger {
		t.Fatalf("expected ErrInvalidAcknowledger, got %v", err)
	}
	if err := svc.AcknowledgeAlert(context.Background(), "alert-1", "ops"); err != nil {
		t.Fatalf("ack: %v", err)
	}
	if feed.ackedID != "alert-1" || feed.ackedBy != "ops" || feed.ackedAt.IsZero() {
		t.Fatalf("unexpected ack call: %+v", feed)
	}
}

func TestInventoryReadServiceSnapshotsSortedAndFiltered(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := memory.NewSnapshotStore()
	for _, s := range []domain.InventorySnapshot{
		{Supplier: domain.SourceSanMar, StyleID: "B", ColorID: "1", SizeID: "M", Quantity: 3},
		{Supplier: domain.SourceSanMar, StyleID: "A", ColorID: "1", SizeID: "M", Quantity: 30},
		{Supplier: domain.SourceSSActivewear, StyleID: "A", ColorID: "1", SizeID: "M"},
	} {
		if err := store.Upsert(ctx, s); err != nil {
			t.Fatalf("upsert: %v", err)
		}
	}
	svc := NewInventoryReadService(store, &fakeFeedStore{}, nil)

	got, err := svc.ListSnapshots(ctx, "SanMar")
	if err != nil {
		t.Fatalf("list snapshots: %v", err)
	}
	if len(got) != 2 || got[0].StyleID != "A" || got[1].StyleID != "B" {
		t.Fatalf("unexpected snapshots: %+v", got)
	}

	if _, err := svc.GetSnapshot(ctx, domain.SnapshotKey{Supplier: domain.SourceSanMar, StyleID: "Z"}); err != ports.ErrNotFound {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestWebhookAnalyticsUsesSamplerWhenRequested(t *testing.T) {
	t.Parallel()

	feed := &fakeFeedStore{events: []domain.WebhookEvent{{Status: domain.StatusCompleted}}}
	sampled := 0
	svc := NewInventoryReadService(memory.NewSnapshotStore(), feed, func(n int) []domain.WebhookEvent {
		sampled = n
		return make([]domain.WebhookEvent, n)
	})

	summary, err := svc.WebhookAnalytics(context.Background(), 25)
	if err != nil {
		t.Fatalf("sampled analytics: %v", err)
	}
	if sampled != 25 || summary.Total != 25 {
		t.Fatalf("unexpected sampled summary: sampled=%d total=%d", sampled, summary.Total)
	}

	summary, err = svc.WebhookAnalytics(context.Background(), 0)
	if err != nil {
		t.Fatalf("log analytics: %v", err)
	}
	if summary.Total != 1 || summary.SuccessRate != 1 {
		t.Fatalf("unexpected log summary: %+v", summary)
	}
}
