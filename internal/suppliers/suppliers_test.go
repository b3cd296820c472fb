package suppliers

import (
	"errors"
	"testing"
	"time"

	"github.com/fr0stylo/stockwatch/internal/app/domain"
)

func TestNormalizeDispatchesBySourceTag(t *testing.T) {
	now := time.Date(2026, 3, 4, 0, 0, 0, 0, time.UTC)

	a, err := Normalize(domain.SourceSSActivewear, []byte(`{"products":[{"styleID":1,"sizes":[{"sizeID":"S","qty":3}]}]}`), now)
	if err != nil {
		t.Fatalf("normalize ss_activewear: %v", err)
	}
	if len(a.Products) != 1 || a.Products[0].SizeUpdates[0].CurrentQuantity != 3 {
		t.Fatalf("unexpected ss_activewear payload: %+v", a)
	}

	b, err := Normalize(domain.SourceSanMar, []byte(`{"items":[{"productKey":"K","inventory":[{"sizeCode":"S","quantity":4}]}]}`), now)
	if err != nil {
		t.Fatalf("normalize sanmar: %v", err)
	}
	if len(b.Products) != 1 || b.Products[0].SizeUpdates[0].CurrentQuantity != 4 {
		t.Fatalf("unexpected sanmar payload: %+v", b)
	}
}

func TestNormalizeUnknownSource(t *testing.T) {
	_, err := Normalize(domain.Source("alphabroder"), []byte(`{}`), time.Now())
	if !errors.Is(err, ErrUnknownSource) {
		t.Fatalf("expected ErrUnknownSource, got %v", err)
	}
	if _, err := ParseSource("alphabroder"); !errors.Is(err, ErrUnknownSource) {
		t.Fatalf("expected ParseSource to reject unregistered tag, got %v", err)
	}
}

func TestRegisterAddsSourceWithoutTouchingExisting(t *testing.T) {
	source := domain.Source("test_feed")
	Register(source, func(raw []byte, now time.Time) (domain.WebhookPayload, error) {
		return domain.WebhookPayload{Timestamp: now, BatchID: "custom"}, nil
	})

	parsed, err := ParseSource(" TEST_FEED ")
	if err != nil || parsed != source {
		t.Fatalf("parse source: got=%q err=%v", parsed, err)
	}
	got, err := Normalize(source, []byte(`{}`), time.Now())
	if err != nil || got.BatchID != "custom" {
		t.Fatalf("custom normalizer not used: %+v err=%v", got, err)
	}
	if _, ok := Lookup(domain.SourceSanMar); !ok {
		t.Fatalf("expected built-in sources to remain registered")
	}
}
