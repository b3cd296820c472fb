package sanmar

import (
	"testing"
	"time"
)

var fixedNow = time.Date(2026, 3, 4, 9, 30, 0, 0, time.UTC)

func TestParseMapsItemsAndInventory(t *testing.T) {
	payload := []byte(`{
		"items": [{
			"sku": "PC61-RED",
			"productKey": "PC61",
			"productName": "Essential Tee",
			"brand": "Port & Company",
			"colorId": "RED",
			"colorName": "Red",
			"colorHex": "#C8102E",
			"price": "4.15",
			"status": "Discontinued",
			"inventory": [
				{"sizeCode": "M", "quantity": "25", "previousQuantity": 30, "updatedAt": "2026-03-04T07:15:00Z"},
				{"sizeCode": "2XL", "sizeName": "2X-Large", "quantity": 0}
			]
		}]
	}`)

	got, err := Parse(payload, fixedNow)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got.Products) != 1 {
		t.Fatalf("expected 1 product, got %d", len(got.Products))
	}
	product := got.Products[0]
	if product.StyleID != "PC61" {
		t.Fatalf("expected productKey to map to style id, got %q", product.StyleID)
	}
	if !product.Discontinued {
		t.Fatalf("expected status discontinued to map to true")
	}
	if product.PriceUpdate == nil || product.PriceUpdate.String() != "4.15" {
		t.Fatalf("unexpected price: %v", product.PriceUpdate)
	}
	if len(product.SizeUpdates) != 2 {
		t.Fatalf("expected 2 sizes, got %d", len(product.SizeUpdates))
	}
	medium := product.SizeUpdates[0]
	if medium.SizeID != "M" || medium.SizeName != "M" || medium.CurrentQuantity != 25 {
		t.Fatalf("unexpected medium mapping: %+v", medium)
	}
	if !medium.Timestamp.Equal(time.Date(2026, 3, 4, 7, 15, 0, 0, time.UTC)) {
		t.Fatalf("unexpected medium timestamp: %s", medium.Timestamp)
	}
	if product.SizeUpdates[1].SizeName != "2X-Large" {
		t.Fatalf("unexpected size name: %q", product.SizeUpdates[1].SizeName)
	}
	if !got.Timestamp.Equal(fixedNow) {
		t.Fatalf("expected payload timestamp to default to now, got %s", got.Timestamp)
	}
}

func TestParseActiveStatusIsNotDiscontinued(t *testing.T) {
	got, err := Parse([]byte(`{"items": [{"productKey": "PC61", "status": "active"}]}`), fixedNow)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if got.Products[0].Discontinued {
		t.Fatalf("expected active status to map to false")
	}
	if len(got.Products[0].SizeUpdates) != 0 {
		t.Fatalf("expected missing inventory to become empty")
	}
}

func TestParseIgnoresProductsKey(t *testing.T) {
	got, err := Parse([]byte(`{"products": [{"sku": "A"}]}`), fixedNow)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if len(got.Products) != 0 {
		t.Fatalf("expected sanmar parser to read items only, got %d products", len(got.Products))
	}
}
