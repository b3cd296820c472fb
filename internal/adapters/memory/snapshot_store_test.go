package memory

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/fr0stylo/stockwatch/internal/app/domain"
)

func TestSnapshotStoreUpsertReplacesAndRecomputesFlags(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := NewSnapshotStore()
	key := domain.SnapshotKey{Supplier: domain.SourceSanMar, StyleID: "PC61", ColorID: "RED", SizeID: "M"}

	if _, ok, err := store.Get(ctx, key); err != nil || ok {
		t.Fatalf("expected empty store, ok=%v err=%v", ok, err)
	}

	err := store.Upsert(ctx, domain.InventorySnapshot{
		SKU: "PC61-RED", StyleID: "PC61", ColorID: "RED", SizeID: "M", Supplier: domain.SourceSanMar,
		Quantity: 50, Price: decimal.RequireFromString("4.15"), IsOutOfStock: true,
	})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	got, ok, err := store.Get(ctx, key)
	if err != nil || !ok {
		t.Fatalf("get after upsert: ok=%v err=%v", ok, err)
	}
	if got.IsOutOfStock || got.IsLowStock {
		t.Fatalf("expected caller-supplied flags to be recomputed, got %+v", got)
	}

	if err := store.Upsert(ctx, domain.InventorySnapshot{StyleID: "PC61", ColorID: "RED", SizeID: "M", Supplier: domain.SourceSanMar, Quantity: 4}); err != nil {
		t.Fatalf("second upsert: %v", err)
	}
	got, _, _ = store.Get(ctx, key)
	if got.Quantity != 4 || !got.IsLowStock {
		t.Fatalf("expected overwrite with low stock, got %+v", got)
	}
	if !got.Price.IsZero() || got.SKU != "" {
		t.Fatalf("expected replace semantics without merge, got %+v", got)
	}

	all, err := store.GetAll(ctx)
	if err != nil || len(all) != 1 {
		t.Fatalf("get all: len=%d err=%v", len(all), err)
	}

	if err := store.Clear(ctx); err != nil {
		t.Fatalf("clear: %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("expected store to be empty after clear, got %d", store.Len())
	}
}
