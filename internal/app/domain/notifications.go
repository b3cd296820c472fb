package domain

import "time"

// NotificationType is the condition a notification describes.
type NotificationType string

const (
	NotificationDiscontinued NotificationType = "discontinued"
	NotificationPriceChange  NotificationType = "price_change"
	NotificationOutOfStock   NotificationType = "out_of_stock"
	NotificationRestocked    NotificationType = "restocked"
	NotificationLowStock     NotificationType = "low_stock"
)

// Severity grades a notification for display.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
	SeverityError   Severity = "error"
)

// WebhookNotification is a human-readable record of a detected condition.
// Only Read changes after creation.
type WebhookNotification struct {
	ID          string           `json:"id"`
	EventID     string           `json:"eventId"`
	Type        NotificationType `json:"type"`
	Title       string           `json:"title"`
	Message     string           `json:"message"`
	Severity    Severity         `json:"severity"`
	ProductSKU  string           `json:"productSku"`
	ProductName string           `json:"productName"`
	Read        bool             `json:"read"`
	CreatedAt   time.Time        `json:"createdAt"`
	Metadata    map[string]any   `json:"metadata,omitempty"`
}

// AlertType is the stock state an alert flags.
type AlertType string

const (
	AlertLowStock   AlertType = "low_stock"
	AlertOutOfStock AlertType = "out_of_stock"
	// AlertRestocked is accepted on the wire but never produced by reconciliation.
	AlertRestocked AlertType = "restocked"
)

// InventoryAlert is the structured counterpart of a stock notification.
type InventoryAlert struct {
	ID              string     `json:"id"`
	SKU             string     `json:"sku"`
	StyleID         string     `json:"styleId"`
	ColorID         string     `json:"colorId"`
	SizeID          string     `json:"sizeId"`
	AlertType       AlertType  `json:"alertType"`
	CurrentQuantity int        `json:"currentQuantity"`
	Threshold       *int       `json:"threshold,omitempty"`
	Supplier        Source     `json:"supplier"`
	AffectedQuotes  []string   `json:"affectedQuotes,omitempty"`
	AffectedJobs    []string   `json:"affectedJobs,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	AcknowledgedAt  *time.Time `json:"acknowledgedAt,omitempty"`
	AcknowledgedBy  string     `json:"acknowledgedBy,omitempty"`
}

// Acknowledged reports whether someone has handled the alert.
func (a InventoryAlert) Acknowledged() bool {
	return a.AcknowledgedAt != nil
}
