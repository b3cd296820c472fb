package scenario

import (
	"testing"
	"time"

	"github.com/fr0stylo/stockwatch/internal/app/domain"
	"github.com/fr0stylo/stockwatch/internal/suppliers"
)

func TestGenerateWebhookEventsShape(t *testing.T) {
	t.Parallel()

	end := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	events := GenerateWebhookEvents(NewRand(42), Config{Count: 2000, End: end})
	if len(events) != 2000 {
		t.Fatalf("unexpected event count: got=%d want=2000", len(events))
	}

	counts := map[domain.EventStatus]int{}
	for i, event := range events {
		counts[event.Status]++
		if i > 0 && event.ReceivedAt.Before(events[i-1].ReceivedAt) {
			t.Fatalf("events not ordered at %d", i)
		}
		if event.ReceivedAt.Before(end.Add(-24*time.Hour)) || event.ReceivedAt.After(end) {
			t.Fatalf("event outside window: %s", event.ReceivedAt)
		}
		switch event.Status {
		case domain.StatusFailed:
			if event.Error == "" || event.ResponseTimeMS < 360 {
				t.Fatalf("failed event missing cause or too fast: %+v", event)
			}
		case domain.StatusRetrying:
			if event.RetryCount < 1 || event.RetryCount > 3 {
				t.Fatalf("unexpected retry count: %d", event.RetryCount)
			}
			if event.ProcessedAt != nil || event.ResponseTimeMS != 0 {
				t.Fatalf("retrying event must not be processed: %+v", event)
			}
		case domain.StatusCompleted:
			if event.ResponseTimeMS < 120 || event.ResponseTimeMS > 200 || event.ProcessedAt == nil {
				t.Fatalf("unexpected completed timing: %+v", event)
			}
		case domain.StatusPending:
			if event.ProcessedAt != nil {
				t.Fatalf("pending event must not be processed: %+v", event)
			}
		}
	}

	completedShare := float64(counts[domain.StatusCompleted]) / 2000
	if completedShare < 0.80 || completedShare > 0.90 {
		t.Fatalf("completed share out of band: %.3f", completedShare)
	}
	if counts[domain.StatusFailed] == 0 || counts[domain.StatusRetrying] == 0 || counts[domain.StatusPending] == 0 {
		t.Fatalf("expected every status to appear: %+v", counts)
	}
}

func TestGenerateWebhookEventsOnlySettledEventsAreProcessed(t *testing.T) {
	t.Parallel()

	events := GenerateWebhookEvents(NewRand(7), Config{Count: 2000})
	unsettled := 0
	for _, event := range events {
		settled := event.Status == domain.StatusCompleted || event.Status == domain.StatusFailed
		if !settled && event.ProcessedAt != nil {
			unsettled++
		}
		if settled && event.ProcessedAt == nil {
			t.Fatalf("settled event without ProcessedAt: %+v", event)
		}
	}
	if unsettled != 0 {
		t.Fatalf("unsettled events with ProcessedAt: got=%d want=0", unsettled)
	}
}

func TestGenerateWebhookEventsDeterministicForSeed(t *testing.T) {
	t.Parallel()

	cfg := Config{Count: 50, End: time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)}
	a := GenerateWebhookEvents(NewRand(7), cfg)
	b := GenerateWebhookEvents(NewRand(7), cfg)
	for i := range a {
		if a[i].ID != b[i].ID || a[i].Status != b[i].Status || a[i].ResponseTimeMS != b[i].ResponseTimeMS {
			t.Fatalf("seeded runs diverged at %d", i)
		}
	}
}

func TestInventoryStreamRendersParsableSupplierBodies(t *testing.T) {
	t.Parallel()

	for _, source := range []domain.Source{domain.SourceSSActivewear, domain.SourceSanMar} {
		stream := NewInventoryStream(NewRand(99), DefaultCatalog(source))
		now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

		sawZero, sawLow := false, false
		for i := 0; i < 200; i++ {
			body, err := stream.Next(now, 3)
			if err != nil {
				t.Fatalf("%s next: %v", source, err)
			}
			payload, err := suppliers.Normalize(source, body, now)
			if err != nil {
				t.Fatalf("%s normalize: %v", source, err)
			}
			if len(payload.Products) == 0 || len(payload.Products) > 3 {
				t.Fatalf("%s unexpected product count: %d", source, len(payload.Products))
			}
			for _, product := range payload.Products {
				if product.StyleID == "" || len(product.SizeUpdates) != 1 {
					t.Fatalf("%s unexpected product: %+v", source, product)
				}
				q := product.SizeUpdates[0].CurrentQuantity
				if q < 0 {
					t.Fatalf("%s negative quantity", source)
				}
				sawZero = sawZero || q == 0
				sawLow = sawLow || (q > 0 && q <= domain.DefaultLowStockThreshold)
			}
		}
		if !sawZero || !sawLow {
			t.Fatalf("%s walk never reached zero=%v low=%v", source, sawZero, sawLow)
		}
	}
}
