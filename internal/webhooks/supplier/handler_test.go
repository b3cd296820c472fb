package supplier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/fr0stylo/stockwatch/internal/adapters/memory"
	"github.com/fr0stylo/stockwatch/internal/adapters/sqlite"
	"github.com/fr0stylo/stockwatch/internal/app/domain"
	"github.com/fr0stylo/stockwatch/internal/app/ports"
	appservices "github.com/fr0stylo/stockwatch/internal/app/services"
	"github.com/fr0stylo/stockwatch/internal/db"
)

const ssBody = `{"products":[{"sku":"B00760004","styleID":"3001","styleName":"Unisex Jersey Tee","brandName":"Bella + Canvas","colorID":"BLK","colorName":"Black","price":3.29,"sizes":[{"sizeID":"M","sizeName":"Medium","qty":4}]}]}`

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	ctx := context.Background()
	database, err := db.New(filepath.Join(t.TempDir(), "testdb"))
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = database.Close() })

	_, err = sqlite.SeedSupplierAccounts(ctx, database, []ports.SupplierAccount{{
		Source:        domain.SourceSSActivewear,
		AuthToken:     "tok-ss",
		WebhookSecret: "ss-secret",
		Enabled:       true,
	}})
	if err != nil {
		t.Fatalf("seed accounts: %v", err)
	}

	processor := appservices.NewProcessor(memory.NewSnapshotStore(),
		appservices.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	ingest := appservices.NewIngestService(sqlite.NewStores(database), processor)
	return NewHandler(ingest)
}

func newDelivery(body, token, secret string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/webhooks/suppliers/ssactivewear", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set(AuthorizationHeader, "Bearer "+token)
	}
	req.Header.Set(SignatureHeader, appservices.Sign([]byte(body), secret))
	return req
}

func TestHandleAcceptsSignedSupplierDelivery(t *testing.T) {
	t.Parallel()

	handler := newTestHandler(t)
	rec := httptest.NewRecorder()

	if err := handler.Handle(rec, newDelivery(ssBody, "tok-ss", "ss-secret"), "ssactivewear"); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if rec.Code != http.StatusAccepted {
		t.Fatalf("unexpected status: got=%d want=%d body=%s", rec.Code, http.StatusAccepted, rec.Body.String())
	}

	var result appservices.IngestResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Status != domain.StatusCompleted {
		t.Fatalf("unexpected status: got=%s want=%s", result.Status, domain.StatusCompleted)
	}
	if len(result.Alerts) != 1 || result.Alerts[0].AlertType != domain.AlertLowStock {
		t.Fatalf("expected one low stock alert, got %+v", result.Alerts)
	}
}

func TestHandleMapsRejectionsToStatusCodes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		source string
		req    func() *http.Request
		want   int
	}{
		{name: "unknown supplier", source: "alphabroder", req: func() *http.Request { return newDelivery(ssBody, "tok-ss", "ss-secret") }, want: http.StatusNotFound},
		{name: "missing token", source: "ssactivewear", req: func() *http.Request { return newDelivery(ssBody, "", "ss-secret") }, want: http.StatusUnauthorized},
		{name: "wrong token", source: "ssactivewear", req: func() *http.Request { return newDelivery(ssBody, "nope", "ss-secret") }, want: http.StatusUnauthorized},
		{name: "bad signature", source: "ssactivewear", req: func() *http.Request { return newDelivery(ssBody, "tok-ss", "other") }, want: http.StatusUnauthorized},
		{name: "not json", source: "ssactivewear", req: func() *http.Request { return newDelivery("qty=4", "tok-ss", "ss-secret") }, want: http.StatusBadRequest},
		{name: "unsupported type", source: "ssactivewear", req: func() *http.Request {
			req := newDelivery(`{"items":[]}`, "tok-ss", "ss-secret")
			req.Header.Set(EventTypeHeader, "order.shipped")
			return req
		}, want: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			handler := newTestHandler(t)
			rec := httptest.NewRecorder()
			if err := handler.Handle(rec, tt.req(), tt.source); err != nil {
				t.Fatalf("handle: %v", err)
			}
			if rec.Code != tt.want {
				t.Fatalf("unexpected status: got=%d want=%d body=%s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}
}

type stubIngester struct {
	err error
}

func (s stubIngester) Ingest(context.Context, appservices.IngestCommand) (appservices.IngestResult, error) {
	return appservices.IngestResult{}, s.err
}

func TestHandleBusyAndInfrastructureErrors(t *testing.T) {
	t.Parallel()

	busy := NewHandler(stubIngester{err: appservices.ErrIngestBusy})
	rec := httptest.NewRecorder()
	if err := busy.Handle(rec, newDelivery(ssBody, "tok-ss", "ss-secret"), "ssactivewear"); err != nil {
		t.Fatalf("handle busy: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("unexpected status: got=%d want=%d", rec.Code, http.StatusServiceUnavailable)
	}

	boom := errors.New("disk full")
	broken := NewHandler(stubIngester{err: boom})
	if err := broken.Handle(httptest.NewRecorder(), newDelivery(ssBody, "tok-ss", "ss-secret"), "ssactivewear"); !errors.Is(err, boom) {
		t.Fatalf("expected infrastructure error to be returned, got %v", err)
	}
}
