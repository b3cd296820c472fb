// Package alerting forwards inventory alerts to an external sink as CloudEvents.
package alerting

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	ceevent "github.com/cloudevents/sdk-go/v2/event"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/fr0stylo/stockwatch/internal/app/domain"
)

const (
	// EventSource is the CloudEvents source of forwarded alerts.
	EventSource = "stockwatch/reconciler"
	// EventTypePrefix is joined with the alert type.
	EventTypePrefix = "com.stockwatch.inventory.alert."

	structuredContentType = "application/cloudevents+json"
	defaultQueueSize      = 256
	defaultTimeout        = 10 * time.Second
)

// ErrInvalidSinkURL indicates a sink URL that is not absolute http(s).
var ErrInvalidSinkURL = errors.New("invalid alert sink url")

// Config configures the forwarder.
type Config struct {
	SinkURL    string
	QueueSize  int
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *slog.Logger
}

// Stats are delivery counters since start.
type Stats struct {
	Sent    int64
	Failed  int64
	Dropped int64
}

// Forwarder queues alerts and posts them from one background sender.
type Forwarder struct {
	sinkURL string
	client  *http.Client
	logger  *slog.Logger
	queue   chan domain.InventoryAlert
	done    chan struct{}

	mu     sync.RWMutex
	closed bool

	sent    atomic.Int64
	failed  atomic.Int64
	dropped atomic.Int64
}

// New validates cfg and starts the sender goroutine.
func New(cfg Config) (*Forwarder, error) {
	target, err := url.Parse(strings.TrimSpace(cfg.SinkURL))
	if err != nil || (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidSinkURL, cfg.SinkURL)
	}

	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = defaultQueueSize
	}
	client := cfg.HTTPClient
	if client == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		client = &http.Client{
			Timeout:   timeout,
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		}
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	f := &Forwarder{
		sinkURL: target.String(),
		client:  client,
		logger:  logger,
		queue:   make(chan domain.InventoryAlert, queueSize),
		done:    make(chan struct{}),
	}
	go f.run()
	return f, nil
}

// Enqueue hands an alert to the sender without blocking.
// It reports false when the queue is full or the forwarder is closed.
func (f *Forwarder) Enqueue(alert domain.InventoryAlert) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if f.closed {
		f.dropped.Add(1)
		return false
	}
	select {
	case f.queue <- alert:
		return true
	default:
		f.dropped.Add(1)
		f.logger.Warn("alert_forward_dropped", "alert_id", alert.ID, "sku", alert.SKU, "queue_cap", cap(f.queue))
		return false
	}
}

// OnAlert adapts Enqueue to the processor hook signature.
func (f *Forwarder) OnAlert(alert domain.InventoryAlert) {
	f.Enqueue(alert)
}

// Stats returns delivery counters.
func (f *Forwarder) Stats() Stats {
	return Stats{Sent: f.sent.Load(), Failed: f.failed.Load(), Dropped: f.dropped.Load()}
}

// Close stops accepting alerts and waits for queued ones to be sent.
func (f *Forwarder) Close(ctx context.Context) error {
	f.mu.Lock()
	if !f.closed {
		f.closed = true
		close(f.queue)
	}
	f.mu.Unlock()

	select {
	case <-f.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *Forwarder) run() {
	defer close(f.done)
	for alert := range f.queue {
		if err := f.send(context.Background(), alert); err != nil {
			f.failed.Add(1)
			f.logger.Error("alert_forward_failed", "alert_id", alert.ID, "sku", alert.SKU, "error", err)
			continue
		}
		f.sent.Add(1)
	}
}

func (f *Forwarder) send(ctx context.Context, alert domain.InventoryAlert) error {
	event, err := NewAlertEvent(alert)
	if err != nil {
		return err
	}
	body, err := json.Marshal(event)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.sinkURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", structuredContentType)

	resp, err := f.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("alert sink rejected: status=%s body=%s", resp.Status, strings.TrimSpace(string(msg)))
	}
	return nil
}

// NewAlertEvent wraps an alert in a CloudEvent keyed by SKU.
func NewAlertEvent(alert domain.InventoryAlert) (ceevent.Event, error) {
	event := ceevent.New()
	event.SetID(alert.ID)
	event.SetSource(EventSource)
	event.SetType(EventTypePrefix + string(alert.AlertType))
	event.SetSubject(alert.SKU)
	event.SetTime(alert.CreatedAt)
	if err := event.SetData(ceevent.ApplicationJSON, alert); err != nil {
		return ceevent.Event{}, err
	}
	if err := event.Validate(); err != nil {
		return ceevent.Event{}, err
	}
	return event, nil
}
