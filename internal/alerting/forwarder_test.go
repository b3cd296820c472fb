package alerting

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	ceevent "github.com/cloudevents/sdk-go/v2/event"

	"github.com/fr0stylo/stockwatch/internal/app/domain"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testAlert(id string) domain.InventoryAlert {
	threshold := 10
	return domain.InventoryAlert{
		ID:              id,
		SKU:             "G500-NAVY-L",
		StyleID:         "G500",
		ColorID:         "NAVY",
		SizeID:          "L",
		AlertType:       domain.AlertLowStock,
		CurrentQuantity: 4,
		Threshold:       &threshold,
		Supplier:        domain.SourceSSActivewear,
		CreatedAt:       time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}
}

func TestForwarderDeliversCloudEvents(t *testing.T) {
	t.Parallel()

	var (
		mu       sync.Mutex
		received []ceevent.Event
	)
	sink := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Content-Type"); got != structuredContentType {
			t.Errorf("unexpected content type: %s", got)
		}
		var event ceevent.Event
		if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
			t.Errorf("decode event: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}
		mu.Lock()
		received = append(received, event)
		mu.Unlock()
		w.WriteHeader(http.StatusAccepted)
	}))
	t.Cleanup(sink.Close)

	forwarder, err := New(Config{SinkURL: sink.URL, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("new forwarder: %v", err)
	}
	forwarder.OnAlert(testAlert("alert-1"))
	forwarder.OnAlert(testAlert("alert-2"))

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := forwarder.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(received) != 2 {
		t.Fatalf("unexpected delivered count: got=%d want=2", len(received))
	}
	event := received[0]
	if event.Type() != "com.stockwatch.inventory.alert.low_stock" || event.Source() != EventSource || event.Subject() != "G500-NAVY-L" {
		t.Fatalf("unexpected event attributes: %s", event.String())
	}
	var alert domain.InventoryAlert
	if err := event.DataAs(&alert); err != nil {
		t.Fatalf("decode alert data: %v", err)
	}
	if alert.ID != "alert-1" || alert.Threshold == nil || *alert.Threshold != 10 {
		t.Fatalf("unexpected alert payload: %+v", alert)
	}
	if stats := forwarder.Stats(); stats.Sent != 2 || stats.Failed != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestForwarderDropsWhenQueueFull(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	sink := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
		w.WriteHeader(http.StatusOK)
	}))
	t.Cleanup(sink.Close)

	forwarder, err := New(Config{SinkURL: sink.URL, QueueSize: 1, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("new forwarder: %v", err)
	}

	accepted := 0
	for i := 0; i < 3; i++ {
		if forwarder.Enqueue(testAlert("alert")) {
			accepted++
		}
	}
	if accepted > 2 {
		t.Fatalf("queue of one plus one in flight accepted %d", accepted)
	}
	if dropped := forwarder.Stats().Dropped; dropped != int64(3-accepted) {
		t.Fatalf("unexpected dropped count: got=%d want=%d", dropped, 3-accepted)
	}

	close(release)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := forwarder.Close(ctx); err != nil {
		t.Fatalf("close: %v", err)
	}
	if forwarder.Enqueue(testAlert("late")) {
		t.Fatal("closed forwarder must not accept alerts")
	}
}

func TestForwarderCountsRejectedDeliveries(t *testing.T) {
	t.Parallel()

	sink := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	t.Cleanup(sink.Close)

	forwarder, err := New(Config{SinkURL: sink.URL, Logger: quietLogger()})
	if err != nil {
		t.Fatalf("new forwarder: %v", err)
	}
	forwarder.Enqueue(testAlert("alert-1"))
	if err := forwarder.Close(context.Background()); err != nil {
		t.Fatalf("close: %v", err)
	}
	if stats := forwarder.Stats(); stats.Failed != 1 || stats.Sent != 0 {
		t.Fatalf("unexpected stats: %+v", stats)
	}
}

func TestNewRejectsInvalidSinkURL(t *testing.T) {
	t.Parallel()

	for _, raw := range []string{"", "ftp://example.com", "not a url", "/relative"} {
		if _, err := New(Config{SinkURL: raw}); !errors.Is(err, ErrInvalidSinkURL) {
			t.Fatalf("expected ErrInvalidSinkURL for %q, got %v", raw, err)
		}
	}
}
