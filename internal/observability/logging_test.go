package observability

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestWrapSlogHandlerAddsContextFields(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	log := slog.New(WrapSlogHandler(slog.NewTextHandler(&buf, nil)))

	ctx := WithRequestMetadata(context.Background(), "req-1", "/webhooks/suppliers/:source")
	ctx = WithSupplier(ctx, "sanmar")
	log.InfoContext(ctx, "event processed")

	out := buf.String()
	for _, want := range []string{"request_id=req-1", "route=/webhooks/suppliers/:source", "supplier=sanmar"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in log line, got %q", want, out)
		}
	}
}

func TestWrapSlogHandlerNilFallsBackToDiscard(t *testing.T) {
	t.Parallel()

	log := slog.New(WrapSlogHandler(nil))
	log.Info("dropped")
}
