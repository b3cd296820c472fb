package ssactivewear

import (
	"encoding/json"
	"time"

	"github.com/fr0stylo/stockwatch/internal/app/domain"
	"github.com/fr0stylo/stockwatch/internal/suppliers/wire"
)

type envelope struct {
	Products  json.RawMessage `json:"products"`
	Timestamp wire.Time       `json:"timestamp"`
	BatchID   wire.String     `json:"batchId"`
}

type product struct {
	SKU          wire.String     `json:"sku"`
	StyleID      wire.String     `json:"styleID"`
	StyleName    wire.String     `json:"styleName"`
	BrandName    wire.String     `json:"brandName"`
	ColorID      wire.String     `json:"colorID"`
	ColorName    wire.String     `json:"colorName"`
	ColorCode    wire.String     `json:"colorCode"`
	Sizes        json.RawMessage `json:"sizes"`
	Price        wire.Decimal    `json:"price"`
	Discontinued wire.Bool       `json:"discontinued"`
}

type size struct {
	SizeID      wire.String  `json:"sizeID"`
	SizeName    wire.String  `json:"sizeName"`
	Qty         wire.Int     `json:"qty"`
	PreviousQty wire.Int     `json:"previousQty"`
	PriceChange wire.Decimal `json:"priceChange"`
	Timestamp   wire.Time    `json:"timestamp"`
}

// Parse maps an S&S Activewear inventory push into the canonical payload.
// Only a body that is not valid JSON is an error; missing lists and fields default.
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

	for _, item := range wire.Elements(body.Products) {
		if !wire.IsObject(item) {
			continue
		}
		var p product
		if err := json.Unmarshal(item, &p); err != nil {
			continue
		}
		payload.Products = append(payload.Products, domain.ProductInventoryUpdate{
			SKU:          p.SKU.Value(),
			StyleID:      p.StyleID.Value(),
			StyleName:    p.StyleName.Value(),
			BrandName:    p.BrandName.Value(),
			ColorID:      p.ColorID.Value(),
			ColorName:    p.ColorName.Value(),
			ColorCode:    p.ColorCode.Value(),
			SizeUpdates:  convertSizes(p.Sizes, timestamp),
			PriceUpdate:  p.Price.Ptr(),
			Discontinued: bool(p.Discontinued),
		})
	}

	return payload, nil
}

func convertSizes(raw json.RawMessage, fallback time.Time) []domain.SizeInventoryUpdate {
	out := []domain.SizeInventoryUpdate{}
	for _, item := range wire.Elements(raw) {
		if !wire.IsObject(item) {
			continue
		}
		var s size
		if err := json.Unmarshal(item, &s); err != nil {
			continue
		}
		out = append(out, domain.SizeInventoryUpdate{
			SizeID:           s.SizeID.Value(),
			SizeName:         s.SizeName.Value(),
			PreviousQuantity: s.PreviousQty.Ptr(),
			CurrentQuantity:  s.Qty.Or(0),
			PriceChange:      s.PriceChange.Ptr(),
			Timestamp:        s.Timestamp.Or(fallback),
		})
	}
	return out
}
