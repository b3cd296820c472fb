package services

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	cebinding "github.com/cloudevents/sdk-go/v2/binding"
	ceevent "github.com/cloudevents/sdk-go/v2/event"
	cehttp "github.com/cloudevents/sdk-go/v2/protocol/http"
	"github.com/google/uuid"

	"github.com/fr0stylo/stockwatch/internal/app/domain"
	"github.com/fr0stylo/stockwatch/internal/app/ports"
	"github.com/fr0stylo/stockwatch/internal/suppliers"
	"github.com/fr0stylo/stockwatch/internal/suppliers/wire"
)

var (
	// ErrUnknownSource indicates the path tag names no registered supplier.
	ErrUnknownSource = suppliers.ErrUnknownSource
	// ErrMissingAuthToken indicates missing bearer authorization token.
	ErrMissingAuthToken = errors.New("missing auth token")
	// ErrInvalidAuthToken indicates an unknown, disabled or mismatched supplier token.
	ErrInvalidAuthToken = errors.New("invalid auth token")
	// ErrInvalidSignature indicates request signature validation failure.
	ErrInvalidSignature = errors.New("invalid signature")
	// ErrInvalidPayload indicates a body that is not a JSON object or CloudEvent.
	ErrInvalidPayload = errors.New("invalid payload")
	// ErrUnsupportedType indicates event type is not currently accepted.
	ErrUnsupportedType = errors.New("unsupported event type")
	// ErrIngestBusy indicates the append queue is saturated.
	ErrIngestBusy = errors.New("ingestion queue is full")
)

const bearerPrefix = "Bearer "

// IngestErrorKind classifies ingestion failures for transport-specific mapping.
type IngestErrorKind string

const (
	IngestErrorUnknown          IngestErrorKind = "unknown"
	IngestErrorUnknownSource    IngestErrorKind = "unknown_source"
	IngestErrorMissingAuth      IngestErrorKind = "missing_auth"
	IngestErrorInvalidAuth      IngestErrorKind = "invalid_auth"
	IngestErrorInvalidSignature IngestErrorKind = "invalid_signature"
	IngestErrorInvalidPayload   IngestErrorKind = "invalid_payload"
	IngestErrorUnsupportedType  IngestErrorKind = "unsupported_type"
	IngestErrorBusy             IngestErrorKind = "busy"
)

// IngestCommand is transport-agnostic webhook ingestion input.
type IngestCommand struct {
	Source              string
	AuthorizationHeader string
	SignatureHeader     string
	EventTypeHeader     string
	Headers             http.Header
	Body                []byte
}

// IngestResult describes an accepted delivery. A failed reconciliation is
// still an accepted delivery; Status reports it.
type IngestResult struct {
	EventID       string                       `json:"eventId"`
	Source        domain.Source                `json:"source"`
	EventType     domain.EventType             `json:"eventType"`
	Status        domain.EventStatus           `json:"status"`
	Error         string                       `json:"error,omitempty"`
	Notifications []domain.WebhookNotification `json:"notifications"`
	Alerts        []domain.InventoryAlert      `json:"alerts"`
}

// IngestBatchConfig controls optional batched event appends.
type IngestBatchConfig struct {
	Enabled       bool
	Size          int
	FlushInterval time.Duration
}

// IngestConfig bundles optional ingestion behaviour.
type IngestConfig struct {
	Batch IngestBatchConfig
	Hooks Hooks
}

// IngestService authenticates supplier deliveries, records them and runs reconciliation.
type IngestService struct {
	storeFactory ports.IngestionStoreFactory
	processor    *Processor
	batcher      *ingestBatcher
	hooks        Hooks
	now          func() time.Time
	newID        func() string
}

// NewIngestService constructs an ingestion service with direct appends.
func NewIngestService(storeFactory ports.IngestionStoreFactory, processor *Processor) *IngestService {
	return NewIngestServiceWithConfig(storeFactory, processor, IngestConfig{})
}

// NewIngestServiceWithConfig constructs an ingestion service with optional batching and hooks.
func NewIngestServiceWithConfig(storeFactory ports.IngestionStoreFactory, processor *Processor, cfg IngestConfig) *IngestService {
	service := &IngestService{
		storeFactory: storeFactory,
		processor:    processor,
		hooks:        cfg.Hooks,
		now:          time.Now,
		newID:        uuid.NewString,
	}
	if cfg.Batch.Enabled {
		size := cfg.Batch.Size
		if size <= 0 {
			size = 100
		}
		if size > 2000 {
			size = 2000
		}
		interval := cfg.Batch.FlushInterval
		if interval <= 0 {
			interval = 50 * time.Millisecond
		}
		service.batcher = newIngestBatcher(storeFactory, size, interval)
	}
	return service
}

// ClassifyIngestError classifies a returned ingestion error.
func ClassifyIngestError(err error) IngestErrorKind {
	switch {
	case err == nil:
		return IngestErrorUnknown
	case errors.Is(err, ErrUnknownSource):
		return IngestErrorUnknownSource
	case errors.Is(err, ErrMissingAuthToken):
		return IngestErrorMissingAuth
	case errors.Is(err, ErrInvalidAuthToken):
		return IngestErrorInvalidAuth
	case errors.Is(err, ErrInvalidSignature):
		return IngestErrorInvalidSignature
	case errors.Is(err, ErrInvalidPayload):
		return IngestErrorInvalidPayload
	case errors.Is(err, ErrUnsupportedType):
		return IngestErrorUnsupportedType
	case errors.Is(err, ErrIngestBusy):
		return IngestErrorBusy
	default:
		return IngestErrorUnknown
	}
}

// Ingest validates a supplier delivery, appends it to the event log and reconciles it.
func (s *IngestService) Ingest(ctx context.Context, cmd IngestCommand) (IngestResult, error) {
	source, err := suppliers.ParseSource(cmd.Source)
	if err != nil {
		return IngestResult{}, err
	}

	token, err := bearerToken(cmd.AuthorizationHeader)
	if err != nil {
		return IngestResult{}, ErrMissingAuthToken
	}

	store, account, err := s.lookupAccount(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return IngestResult{}, ErrInvalidAuthToken
		}
		return IngestResult{}, err
	}
	defer func() {
		_ = store.Close()
	}()

	if account.Source != source {
		return IngestResult{}, ErrInvalidAuthToken
	}
	if !validSignature(cmd.Body, account.WebhookSecret, cmd.SignatureHeader) {
		return IngestResult{}, ErrInvalidSignature
	}

	body, envelopeType, err := decodeEnvelope(ctx, cmd.Headers, cmd.Body)
	if err != nil || !wire.IsObject(body) {
		return IngestResult{}, ErrInvalidPayload
	}
	if envelopeType == "" {
		envelopeType = cmd.EventTypeHeader
	}
	eventType, ok := domain.ResolveEventType(envelopeType)
	if !ok {
		return IngestResult{}, ErrUnsupportedType
	}

	receivedAt := s.now().UTC()
	payload, err := suppliers.Normalize(source, body, receivedAt)
	if err != nil {
		return IngestResult{}, ErrInvalidPayload
	}

	event := domain.WebhookEvent{
		ID:         s.newID(),
		Source:     source,
		EventType:  eventType,
		Payload:    payload,
		Status:     domain.StatusPending,
		ReceivedAt: receivedAt,
	}
	if err := s.appendEvent(ctx, store, event); err != nil {
		return IngestResult{}, err
	}

	outcome := s.processor.Process(ctx, &event, s.hooks)

	// the snapshot store has already moved; record the outcome even if the caller left
	persistCtx := context.WithoutCancel(ctx)
	if err := store.UpdateEventStatus(persistCtx, event); err != nil {
		return IngestResult{}, fmt.Errorf("update event status: %w", err)
	}
	if len(outcome.Notifications) > 0 {
		if err := store.AppendNotifications(persistCtx, outcome.Notifications); err != nil {
			return IngestResult{}, fmt.Errorf("append notifications: %w", err)
		}
	}
	if len(outcome.Alerts) > 0 {
		if err := store.AppendAlerts(persistCtx, outcome.Alerts); err != nil {
			return IngestResult{}, fmt.Errorf("append alerts: %w", err)
		}
	}

	return IngestResult{
		EventID:       event.ID,
		Source:        event.Source,
		EventType:     event.EventType,
		Status:        event.Status,
		Error:         event.Error,
		Notifications: nonNil(outcome.Notifications),
		Alerts:        nonNil(outcome.Alerts),
	}, nil
}

func (s *IngestService) appendEvent(ctx context.Context, store ports.IngestionStore, event domain.WebhookEvent) error {
	if s.batcher != nil {
		return s.batcher.append(ctx, event)
	}
	return store.AppendEvents(ctx, []domain.WebhookEvent{event})
}

func (s *IngestService) lookupAccount(ctx context.Context, token string) (ports.IngestionStore, ports.SupplierAccount, error) {
	store, err := s.storeFactory.Open()
	if err != nil {
		return nil, ports.SupplierAccount{}, err
	}

	account, err := store.GetSupplierAccountByAuthToken(ctx, token)
	if err != nil {
		_ = store.Close()
		return nil, ports.SupplierAccount{}, err
	}
	if !account.Enabled {
		_ = store.Close()
		return nil, ports.SupplierAccount{}, sql.ErrNoRows
	}

	return store, account, nil
}

// decodeEnvelope unwraps CloudEvents deliveries (binary or structured) and
// passes plain JSON bodies through with no type.
func decodeEnvelope(ctx context.Context, headers http.Header, body []byte) ([]byte, string, error) {
	req := &http.Request{
		Method: http.MethodPost,
		Header: headers.Clone(),
		Body:   io.NopCloser(bytes.NewReader(body)),
	}
	if req.Header == nil {
		req.Header = http.Header{}
	}
	message := cehttp.NewMessageFromHttpRequest(req)
	defer func() {
		_ = message.Finish(nil)
	}()

	if message.ReadEncoding() == cebinding.EncodingUnknown {
		if !json.Valid(body) {
			return nil, "", ErrInvalidPayload
		}
		return body, "", nil
	}

	cloudEvent, err := cebinding.ToEvent(ctx, message)
	if err != nil {
		return nil, "", err
	}
	raw, err := cloudEventData(cloudEvent)
	if err != nil {
		return nil, "", err
	}
	return raw, cloudEvent.Type(), nil
}

func cloudEventData(event *ceevent.Event) ([]byte, error) {
	if event == nil {
		return nil, errors.New("cloud event is nil")
	}
	raw := json.RawMessage{}
	if err := event.DataAs(&raw); err != nil {
		return nil, err
	}
	if len(raw) == 0 {
		return nil, errors.New("cloud event data is empty")
	}
	return raw, nil
}

func bearerToken(value string) (string, error) {
	trimmed := strings.TrimSpace(value)
	if !strings.HasPrefix(trimmed, bearerPrefix) {
		return "", errors.New("missing bearer prefix")
	}
	token := strings.TrimSpace(strings.TrimPrefix(trimmed, bearerPrefix))
	if token == "" {
		return "", errors.New("empty token")
	}
	return token, nil
}

// Sign returns the hex HMAC-SHA256 of body, as expected in X-Webhook-Signature.
func Sign(body []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func validSignature(body []byte, secret, signature string) bool {
	signature = strings.ToLower(strings.TrimSpace(signature))
	signature = strings.TrimPrefix(signature, "sha256=")
	if signature == "" {
		return false
	}
	return hmac.Equal([]byte(Sign(body, secret)), []byte(signature))
}

func nonNil[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
