package sanmar

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/fr0stylo/stockwatch/internal/app/domain"
	"github.com/fr0stylo/stockwatch/internal/suppliers/wire"
)

const statusDiscontinued = "discontinued"

type envelope struct {
	Items     json.RawMessage `json:"items"`
	Timestamp wire.Time       `json:"timestamp"`
	BatchID   wire.String     `json:"batchId"`
}

type item struct {
	SKU         wire.String     `json:"sku"`
	ProductKey  wire.String     `json:"productKey"`
	ProductName wire.String     `json:"productName"`
	Brand       wire.String     `json:"brand"`
	ColorID     wire.String     `json:"colorId"`
	ColorName   wire.String     `json:"colorName"`
	ColorHex    wire.String     `json:"colorHex"`
	Inventory   json.RawMessage `json:"inventory"`
	Price       wire.Decimal    `json:"price"`
	Status      wire.String     `json:"status"`
}

type stockLevel struct {
	SizeCode         wire.String  `json:"sizeCode"`
	SizeName         wire.String  `json:"sizeName"`
	Quantity         wire.Int     `json:"quantity"`
	PreviousQuantity wire.Int     `json:"previousQuantity"`
	PriceChange      wire.Decimal `json:"priceChange"`
	UpdatedAt        wire.Time    `json:"updatedAt"`
}

// Parse maps a SanMar inventory push into the canonical payload.
func Parse(raw []byte, now time.Time) (domain.WebhookPayload, error) {
	if !json.Valid(raw) {
		return domain.WebhookPayload{}, wire.ErrMalformedJSON
	}
	var body envelope
	if wire.IsObject(raw) {
		_ = json.Unmarshal(raw, &body)
	}

	timestamp := body.Timestamp.Or(now)
	payload := domain.WebhookPayload{
		Products:  []domain.ProductInventoryUpdate{},
		Timestamp: timestamp,
		BatchID:   body.BatchID.Value(),
	}

	for _, entry := range wire.Elements(body.Items) {
		if !wire.IsObject(entry) {
			continue
		}
		var it item
		if err := json.Unmarshal(entry, &it); err != nil {
			continue
		}
		payload.Products = append(payload.Products, domain.ProductInventoryUpdate{
			SKU:          it.SKU.Value(),
			StyleID:      it.ProductKey.Value(),
			StyleName:    it.ProductName.Value(),
			BrandName:    it.Brand.Value(),
			ColorID:      it.ColorID.Value(),
			ColorName:    it.ColorName.Value(),
			ColorCode:    it.ColorHex.Value(),
			SizeUpdates:  convertInventory(it.Inventory, timestamp),
			PriceUpdate:  it.Price.Ptr(),
			Discontinued: strings.EqualFold(it.Status.Value(), statusDiscontinued),
		})
	}

	return payload, nil
}

func convertInventory(raw json.RawMessage, fallback time.Time) []domain.SizeInventoryUpdate {
	out := []domain.SizeInventoryUpdate{}
	for _, entry := range wire.Elements(raw) {
		if !wire.IsObject(entry) {
			continue
		}
		var level stockLevel
		if err := json.Unmarshal(entry, &level); err != nil {
			continue
		}
		name := level.SizeName.Value()
		if name == "" {
			name = level.SizeCode.Value()
		}
		out = append(out, domain.SizeInventoryUpdate{
			SizeID:           level.SizeCode.Value(),
			SizeName:         name,
			PreviousQuantity: level.PreviousQuantity.Ptr(),
			CurrentQuantity:  level.Quantity.Or(0),
			PriceChange:      level.PriceChange.Ptr(),
			Timestamp:        level.UpdatedAt.Or(fallback),
		})
	}
	return out
}
