package supplier

import (
	"context"
	"encoding/json"
	"io"
	"net/http"

	appservices "github.com/fr0stylo/stockwatch/internal/app/services"
)

const (
	// SignatureHeader is the HMAC signature header.
	SignatureHeader = "X-Webhook-Signature"
	// EventTypeHeader optionally names the event type of a plain JSON delivery.
	EventTypeHeader = "X-Webhook-Event"
	// AuthorizationHeader contains the bearer token.
	AuthorizationHeader = "Authorization"
	maxPayloadBytes     = 1 << 20
)

// Ingester is the ingestion entry point used by the handler.
type Ingester interface {
	Ingest(ctx context.Context, cmd appservices.IngestCommand) (appservices.IngestResult, error)
}

// Handler accepts supplier inventory webhooks.
type Handler struct {
	ingest  Ingester
	metrics supplierIngestionMetrics
}

// NewHandler constructs a supplier webhook handler.
func NewHandler(ingest Ingester) *Handler {
	return &Handler{ingest: ingest, metrics: newSupplierIngestionMetrics()}
}

// Handle validates and processes a delivery for the given source tag.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request, source string) error {
	ctx := r.Context()
	h.metrics.recordRequest(ctx, source)

	body, readErr := io.ReadAll(io.LimitReader(r.Body, maxPayloadBytes))
	if readErr != nil {
		h.metrics.recordRejected(ctx, source, "read_body")
		http.Error(w, "invalid payload", http.StatusBadRequest)
		return readErr
	}

	result, ingestErr := h.ingest.Ingest(ctx, appservices.IngestCommand{
		Source:              source,
		AuthorizationHeader: r.Header.Get(AuthorizationHeader),
		SignatureHeader:     r.Header.Get(SignatureHeader),
		EventTypeHeader:     r.Header.Get(EventTypeHeader),
		Headers:             r.Header,
		Body:                body,
	})
	if ingestErr != nil {
		kind := appservices.ClassifyIngestError(ingestErr)
		h.metrics.recordRejected(ctx, source, string(kind))
		if writeIngestHTTPError(w, kind) {
			return nil
		}
		return ingestErr
	}

	h.metrics.recordAccepted(ctx, source)
	h.metrics.recordOutcome(ctx, source, string(result.Status))

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	return json.NewEncoder(w).Encode(result)
}

func writeIngestHTTPError(w http.ResponseWriter, kind appservices.IngestErrorKind) bool {
	switch kind {
	case appservices.IngestErrorUnknown:
		return false
	case appservices.IngestErrorUnknownSource:
		http.Error(w, "unknown supplier", http.StatusNotFound)
		return true
	case appservices.IngestErrorMissingAuth:
		http.Error(w, appservices.ErrMissingAuthToken.Error(), http.StatusUnauthorized)
		return true
	case appservices.IngestErrorInvalidAuth:
		http.Error(w, appservices.ErrInvalidAuthToken.Error(), http.StatusUnauthorized)
		return true
	case appservices.IngestErrorInvalidSignature:
		http.Error(w, "invalid signature", http.StatusUnauthorized)
		return true
	case appservices.IngestErrorInvalidPayload:
		http.Error(w, "invalid supplier payload", http.StatusBadRequest)
		return true
	case appservices.IngestErrorUnsupportedType:
		http.Error(w, "unsupported event type", http.StatusUnprocessableEntity)
		return true
	case appservices.IngestErrorBusy:
		http.Error(w, "ingestion busy", http.StatusServiceUnavailable)
		return true
	}

	return false
}
