package scenario

import (
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/fr0stylo/stockwatch/internal/app/domain"
)

// Variant is one (style, color, size) unit in a synthetic catalog.
type Variant struct {
	StyleID   string
	StyleName string
	BrandName string
	ColorID   string
	ColorName string
	SizeID    string
	SizeName  string
}

// SKU is the supplier SKU for the variant's style and color.
func (v Variant) SKU() string {
	return v.StyleID + "-" + v.ColorID
}

// Catalog is the set of variants a stream walks over.
type Catalog struct {
	Source   domain.Source
	Variants []Variant
}

// DefaultCatalog builds a small apparel catalog for source.
func DefaultCatalog(source domain.Source) Catalog {
	styles := []struct{ id, name, brand string }{
		{"G500", "Heavy Cotton Tee", "Gildan"},
		{"PC54", "Core Cotton Tee", "Port & Company"},
		{"3001", "Jersey Tee", "Bella+Canvas"},
	}
	colors := []struct{ id, name string }{{"NAVY", "Navy"}, {"BLK", "Black"}}
	sizes := []struct{ id, name string }{{"S", "Small"}, {"M", "Medium"}, {"L", "Large"}, {"XL", "X-Large"}}

	catalog := Catalog{Source: source}
	for _, style := range styles {
		for _, color := range colors {
			for _, size := range sizes {
				catalog.Variants = append(catalog.Variants, Variant{
					StyleID: style.id, StyleName: style.name, BrandName: style.brand,
					ColorID: color.id, ColorName: color.name,
					SizeID: size.id, SizeName: size.name,
				})
			}
		}
	}
	return catalog
}

// InventoryStream random-walks variant quantities and renders each step as
// raw supplier JSON. Walks regularly cross zero and the low stock band.
type InventoryStream struct {
	rng        *rand.Rand
	catalog    Catalog
	quantities []int
	batches    int
}

// NewInventoryStream starts every variant at a random in-stock quantity.
func NewInventoryStream(rng *rand.Rand, catalog Catalog) *InventoryStream {
	quantities := make([]int, len(catalog.Variants))
	for i := range quantities {
		quantities[i] = 20 + rng.IntN(100)
	}
	return &InventoryStream{rng: rng, catalog: catalog, quantities: quantities}
}

// Source is the supplier tag the stream renders for.
func (s *InventoryStream) Source() domain.Source {
	return s.catalog.Source
}

// Quantity returns the current walked quantity of variant i.
func (s *InventoryStream) Quantity(i int) int {
	return s.quantities[i]
}

type step struct {
	variant  Variant
	previous int
	current  int
}

// Next advances up to maxChanges variants and returns the supplier body.
func (s *InventoryStream) Next(now time.Time, maxChanges int) ([]byte, error) {
	if len(s.catalog.Variants) == 0 {
		return nil, fmt.Errorf("catalog for %s has no variants", s.catalog.Source)
	}
	if maxChanges <= 0 {
		maxChanges = 1
	}
	changes := 1 + s.rng.IntN(min(maxChanges, len(s.catalog.Variants)))
	steps := make([]step, 0, changes)
	for _, i := range s.rng.Perm(len(s.catalog.Variants))[:changes] {
		previous := s.quantities[i]
		s.quantities[i] = s.walk(previous)
		steps = append(steps, step{variant: s.catalog.Variants[i], previous: previous, current: s.quantities[i]})
	}
	s.batches++
	batchID := fmt.Sprintf("%s-%06d", strings.ReplaceAll(string(s.catalog.Source), "_", ""), s.batches)

	switch s.catalog.Source {
	case domain.SourceSanMar:
		return renderSanMar(batchID, now, steps)
	default:
		return renderSSActivewear(batchID, now, steps)
	}
}

func (s *InventoryStream) walk(q int) int {
	roll := s.rng.IntN(100)
	switch {
	case roll < 10:
		return 0
	case roll < 25:
		return 1 + s.rng.IntN(domain.DefaultLowStockThreshold)
	case q == 0:
		return 10 + s.rng.IntN(60)
	default:
		return max(0, q+s.rng.IntN(51)-25)
	}
}

func renderSSActivewear(batchID string, now time.Time, steps []step) ([]byte, error) {
	type size struct {
		SizeID      string `json:"sizeID"`
		SizeName    string `json:"sizeName"`
		Qty         int    `json:"qty"`
		PreviousQty int    `json:"previousQty"`
	}
	type product struct {
		SKU       string `json:"sku"`
		StyleID   string `json:"styleID"`
		StyleName string `json:"styleName"`
		BrandName string `json:"brandName"`
		ColorID   string `json:"colorID"`
		ColorName string `json:"colorName"`
		Sizes     []size `json:"sizes"`
	}
	products := make([]product, 0, len(steps))
	for _, st := range steps {
		v := st.variant
		products = append(products, product{
			SKU: v.SKU(), StyleID: v.StyleID, StyleName: v.StyleName, BrandName: v.BrandName,
			ColorID: v.ColorID, ColorName: v.ColorName,
			Sizes: []size{{SizeID: v.SizeID, SizeName: v.SizeName, Qty: st.current, PreviousQty: st.previous}},
		})
	}
	return json.Marshal(map[string]any{
		"batchId":   batchID,
		"timestamp": now.UTC().Format(time.RFC3339),
		"products":  products,
	})
}

func renderSanMar(batchID string, now time.Time, steps []step) ([]byte, error) {
	type level struct {
		SizeCode         string `json:"sizeCode"`
		SizeName         string `json:"sizeName"`
		Quantity         int    `json:"quantity"`
		PreviousQuantity int    `json:"previousQuantity"`
		UpdatedAt        string `json:"updatedAt"`
	}
	type item struct {
		SKU         string  `json:"sku"`
		ProductKey  string  `json:"productKey"`
		ProductName string  `json:"productName"`
		Brand       string  `json:"brand"`
		ColorID     string  `json:"colorId"`
		ColorName   string  `json:"colorName"`
		Status      string  `json:"status"`
		Inventory   []level `json:"inventory"`
	}
	items := make([]item, 0, len(steps))
	for _, st := range steps {
		v := st.variant
		items = append(items, item{
			SKU: v.SKU(), ProductKey: v.StyleID, ProductName: v.StyleName, Brand: v.BrandName,
			ColorID: v.ColorID, ColorName: v.ColorName, Status: "active",
			Inventory: []level{{
				SizeCode: v.SizeID, SizeName: v.SizeName,
				Quantity: st.current, PreviousQuantity: st.previous,
				UpdatedAt: now.UTC().Format(time.RFC3339),
			}},
		})
	}
	return json.Marshal(map[string]any{
		"batchId":   batchID,
		"timestamp": now.UTC().Format(time.RFC3339),
		"items":     items,
	})
}
