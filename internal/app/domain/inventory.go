package domain

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultLowStockThreshold is applied to every snapshot.
// Per-SKU thresholds are not supported yet.
const DefaultLowStockThreshold = 10

// Source identifies the supplier feed a payload came from.
type Source string

const (
	// SourceSSActivewear is the products[]/sizes[] wire shape.
	SourceSSActivewear Source = "ss_activewear"
	// SourceSanMar is the items[]/inventory[] wire shape.
	SourceSanMar Source = "sanmar"
)

// EventType is the kind of change a supplier reported.
type EventType string

const (
	EventInventoryUpdated    EventType = "inventory.updated"
	EventInventoryLowStock   EventType = "inventory.low_stock"
	EventInventoryOutOfStock EventType = "inventory.out_of_stock"
	EventProductUpdated      EventType = "product.updated"
	EventProductDiscontinued EventType = "product.discontinued"
	EventPricingUpdated      EventType = "pricing.updated"
)

var knownEventTypes = map[EventType]struct{}{
	EventInventoryUpdated:    {},
	EventInventoryLowStock:   {},
	EventInventoryOutOfStock: {},
	EventProductUpdated:      {},
	EventProductDiscontinued: {},
	EventPricingUpdated:      {},
}

// ParseEventType resolves a wire event type. Empty values fall back to inventory.updated.
func ParseEventType(value string) (EventType, bool) {
	value = strings.ToLower(strings.TrimSpace(value))
	if value == "" {
		return EventInventoryUpdated, true
	}
	eventType := EventType(value)
	_, ok := knownEventTypes[eventType]
	return eventType, ok
}

// ResolveEventType maps a qualified type such as "com.sanmar.inventory.low_stock"
// to the known event type it ends with.
func ResolveEventType(value string) (EventType, bool) {
	if eventType, ok := ParseEventType(value); ok {
		return eventType, true
	}
	value = strings.ToLower(strings.TrimSpace(value))
	for eventType := range knownEventTypes {
		if strings.HasSuffix(value, "."+string(eventType)) {
			return eventType, true
		}
	}
	return EventType(value), false
}

// EventStatus is the processing lifecycle of a webhook event.
type EventStatus string

const (
	StatusPending    EventStatus = "pending"
	StatusProcessing EventStatus = "processing"
	StatusCompleted  EventStatus = "completed"
	StatusFailed     EventStatus = "failed"
	// StatusRetrying is a label only; nothing schedules retries.
	StatusRetrying EventStatus = "retrying"
)

// WebhookEvent is one received supplier webhook call.
type WebhookEvent struct {
	ID          string         `json:"id"`
	Source      Source         `json:"source"`
	EventType   EventType      `json:"eventType"`
	Payload     WebhookPayload `json:"payload"`
	Status      EventStatus    `json:"status"`
	ReceivedAt  time.Time      `json:"receivedAt"`
	ProcessedAt *time.Time     `json:"processedAt,omitempty"`
	RetryCount  int            `json:"retryCount"`
	Error       string         `json:"error,omitempty"`
	// ResponseTimeMS is wall time spent processing the event.
	ResponseTimeMS int64 `json:"responseTimeMs"`
}

// WebhookPayload is the normalized batch carried by an event.
type WebhookPayload struct {
	Products  []ProductInventoryUpdate `json:"products"`
	Timestamp time.Time                `json:"timestamp"`
	BatchID   string                   `json:"batchId,omitempty"`
}

// ProductInventoryUpdate is one product/color combination.
type ProductInventoryUpdate struct {
	SKU          string                `json:"sku"`
	StyleID      string                `json:"styleId"`
	StyleName    string                `json:"styleName"`
	BrandName    string                `json:"brandName"`
	ColorID      string                `json:"colorId"`
	ColorName    string                `json:"colorName"`
	ColorCode    string                `json:"colorCode,omitempty"`
	SizeUpdates  []SizeInventoryUpdate `json:"sizeUpdates"`
	PriceUpdate  *decimal.Decimal      `json:"priceUpdate,omitempty"`
	Discontinued bool                  `json:"discontinued"`
}

// DisplayName is the label used in notification text.
func (p ProductInventoryUpdate) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(p.BrandName) + " " + strings.TrimSpace(p.StyleName))
	if name == "" {
		return p.SKU
	}
	return name
}

// SizeInventoryUpdate is one size variant within a product update.
// PreviousQuantity is supplier-reported and never used for diffing.
type SizeInventoryUpdate struct {
	SizeID           string           `json:"sizeId"`
	SizeName         string           `json:"sizeName"`
	PreviousQuantity *int             `json:"previousQuantity,omitempty"`
	CurrentQuantity  int              `json:"currentQuantity"`
	PriceChange      *decimal.Decimal `json:"priceChange,omitempty"`
	Timestamp        time.Time        `json:"timestamp"`
}

// SnapshotKey addresses one inventory unit.
type SnapshotKey struct {
	Supplier Source
	StyleID  string
	ColorID  string
	SizeID   string
}

func (k SnapshotKey) String() string {
	return string(k.Supplier) + ":" + k.StyleID + ":" + k.ColorID + ":" + k.SizeID
}

// InventorySnapshot is the last known state of one (supplier, style, color, size) tuple.
type InventorySnapshot struct {
	ID                string          `json:"id"`
	SKU               string          `json:"sku"`
	StyleID           string          `json:"styleId"`
	ColorID           string          `json:"colorId"`
	SizeID            string          `json:"sizeId"`
	Quantity          int             `json:"quantity"`
	Price             decimal.Decimal `json:"price"`
	Supplier          Source          `json:"supplier"`
	UpdatedAt         time.Time       `json:"updatedAt"`
	LowStockThreshold int             `json:"lowStockThreshold"`
	IsLowStock        bool            `json:"isLowStock"`
	IsOutOfStock      bool            `json:"isOutOfStock"`
}

// Key returns the snapshot address.
func (s InventorySnapshot) Key() SnapshotKey {
	return SnapshotKey{Supplier: s.Supplier, StyleID: s.StyleID, ColorID: s.ColorID, SizeID: s.SizeID}
}

// Normalize fills the id and threshold and recomputes the stock flags.
// Stores call it on every write; flags are never taken from the caller.
func (s InventorySnapshot) Normalize() InventorySnapshot {
	if s.LowStockThreshold <= 0 {
		s.LowStockThreshold = DefaultLowStockThreshold
	}
	s.ID = s.Key().String()
	s.IsOutOfStock = s.Quantity == 0
	s.IsLowStock = s.Quantity > 0 && s.Quantity <= s.LowStockThreshold
	return s
}
