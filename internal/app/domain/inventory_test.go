package domain

import "testing"

func TestSnapshotNormalizeDerivesFlagsFromQuantity(t *testing.T) {
	t.Parallel()

	cases := []struct {
		quantity   int
		wantLow    bool
		wantOutOfS bool
	}{
		{quantity: 0, wantLow: false, wantOutOfS: true},
		{quantity: 1, wantLow: true, wantOutOfS: false},
		{quantity: 10, wantLow: true, wantOutOfS: false},
		{quantity: 11, wantLow: false, wantOutOfS: false},
		{quantity: 500, wantLow: false, wantOutOfS: false},
	}

	for _, tc := range cases {
		snapshot := InventorySnapshot{
			Supplier:     SourceSSActivewear,
			StyleID:      "G500",
			ColorID:      "NAVY",
			SizeID:       "L",
			Quantity:     tc.quantity,
			IsLowStock:   !tc.wantLow,
			IsOutOfStock: !tc.wantOutOfS,
		}.Normalize()

		if snapshot.IsLowStock != tc.wantLow {
			t.Fatalf("quantity %d low stock: got=%v want=%v", tc.quantity, snapshot.IsLowStock, tc.wantLow)
		}
		if snapshot.IsOutOfStock != tc.wantOutOfS {
			t.Fatalf("quantity %d out of stock: got=%v want=%v", tc.quantity, snapshot.IsOutOfStock, tc.wantOutOfS)
		}
		if snapshot.LowStockThreshold != DefaultLowStockThreshold {
			t.Fatalf("threshold: got=%d want=%d", snapshot.LowStockThreshold, DefaultLowStockThreshold)
		}
		if snapshot.ID != "ss_activewear:G500:NAVY:L" {
			t.Fatalf("unexpected id: %q", snapshot.ID)
		}
	}
}

func TestParseEventTypeDefaultsAndRejectsUnknown(t *testing.T) {
	t.Parallel()

	got, ok := ParseEventType("")
	if !ok || got != EventInventoryUpdated {
		t.Fatalf("empty event type: got=%q ok=%v", got, ok)
	}
	got, ok = ParseEventType(" Pricing.Updated ")
	if !ok || got != EventPricingUpdated {
		t.Fatalf("pricing event type: got=%q ok=%v", got, ok)
	}
	if _, ok := ParseEventType("order.created"); ok {
		t.Fatalf("expected unknown event type to be rejected")
	}
}

func TestResolveEventTypeAcceptsQualifiedTypes(t *testing.T) {
	t.Parallel()

	cases := map[string]EventType{
		"inventory.low_stock":                   EventInventoryLowStock,
		"com.sanmar.inventory.out_of_stock":     EventInventoryOutOfStock,
		"COM.SSACTIVEWEAR.PRODUCT.DISCONTINUED": EventProductDiscontinued,
		"":                                      EventInventoryUpdated,
	}
	for value, want := range cases {
		got, ok := ResolveEventType(value)
		if !ok || got != want {
			t.Fatalf("ResolveEventType(%q): got=%s ok=%v want=%s", value, got, ok, want)
		}
	}

	for _, value := range []string{"order.created", "com.sanmar.inventory", "xinventory.updated"} {
		if _, ok := ResolveEventType(value); ok {
			t.Fatalf("ResolveEventType(%q) should be unsupported", value)
		}
	}
}
