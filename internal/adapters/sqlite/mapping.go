package sqlite

import (
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/fr0stylo/stockwatch/internal/app/domain"
	"github.com/fr0stylo/stockwatch/internal/db"
)

func formatTime(value time.Time) string {
	return value.UTC().Format(time.RFC3339Nano)
}

func parseTime(value string) time.Time {
	parsed, err := time.Parse(time.RFC3339Nano, strings.TrimSpace(value))
	if err != nil {
		return time.Time{}
	}
	return parsed
}

func nullTime(value *time.Time) sql.NullString {
	if value == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: formatTime(*value), Valid: true}
}

func timePtr(value sql.NullString) *time.Time {
	if !value.Valid || strings.TrimSpace(value.String) == "" {
		return nil
	}
	parsed := parseTime(value.String)
	if parsed.IsZero() {
		return nil
	}
	return &parsed
}

func nullString(value string) sql.NullString {
	if value == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: value, Valid: true}
}

func boolInt(value bool) int64 {
	if value {
		return 1
	}
	return 0
}

func nullJSON(value any, empty bool) sql.NullString {
	if empty {
		return sql.NullString{}
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(raw), Valid: true}
}

func snapshotToRow(snapshot domain.InventorySnapshot) db.InventorySnapshot {
	return db.InventorySnapshot{
		ID:                snapshot.ID,
		Supplier:          string(snapshot.Supplier),
		StyleID:           snapshot.StyleID,
		ColorID:           snapshot.ColorID,
		SizeID:            snapshot.SizeID,
		SKU:               snapshot.SKU,
		Quantity:          int64(snapshot.Quantity),
		Price:             snapshot.Price.String(),
		LowStockThreshold: int64(snapshot.LowStockThreshold),
		IsLowStock:        boolInt(snapshot.IsLowStock),
		IsOutOfStock:      boolInt(snapshot.IsOutOfStock),
		UpdatedAt:         formatTime(snapshot.UpdatedAt),
	}
}

// snapshotFromRow re-derives flags instead of trusting the stored columns.
func snapshotFromRow(row db.InventorySnapshot) domain.InventorySnapshot {
	price, err := decimal.NewFromString(row.Price)
	if err != nil {
		price = decimal.Zero
	}
	return domain.InventorySnapshot{
		SKU:               row.SKU,
		StyleID:           row.StyleID,
		ColorID:           row.ColorID,
		SizeID:            row.SizeID,
		Quantity:          int(row.Quantity),
		Price:             price,
		Supplier:          domain.Source(row.Supplier),
		UpdatedAt:         parseTime(row.UpdatedAt),
		LowStockThreshold: int(row.LowStockThreshold),
	}.Normalize()
}

func eventToRow(event domain.WebhookEvent) (db.WebhookEvent, error) {
	payload, err := json.Marshal(event.Payload)
	if err != nil {
		return db.WebhookEvent{}, err
	}
	return db.WebhookEvent{
		ID:             event.ID,
		Source:         string(event.Source),
		EventType:      string(event.EventType),
		Status:         string(event.Status),
		PayloadJSON:    string(payload),
		ReceivedAt:     formatTime(event.ReceivedAt),
		ProcessedAt:    nullTime(event.ProcessedAt),
		RetryCount:     int64(event.RetryCount),
		Error:          nullString(event.Error),
		ResponseTimeMS: event.ResponseTimeMS,
	}, nil
}

func eventFromRow(row db.WebhookEvent) (domain.WebhookEvent, error) {
	var payload domain.WebhookPayload
	if strings.TrimSpace(row.PayloadJSON) != "" {
		if err := json.Unmarshal([]byte(row.PayloadJSON), &payload); err != nil {
			return domain.WebhookEvent{}, err
		}
	}
	return domain.WebhookEvent{
		ID:             row.ID,
		Source:         domain.Source(row.Source),
		EventType:      domain.EventType(row.EventType),
		Payload:        payload,
		Status:         domain.EventStatus(row.Status),
		ReceivedAt:     parseTime(row.ReceivedAt),
		ProcessedAt:    timePtr(row.ProcessedAt),
		RetryCount:     int(row.RetryCount),
		Error:          row.Error.String,
		ResponseTimeMS: row.ResponseTimeMS,
	}, nil
}

func notificationToRow(n domain.WebhookNotification) db.WebhookNotification {
	return db.WebhookNotification{
		ID:           n.ID,
		EventID:      n.EventID,
		Type:         string(n.Type),
		Title:        n.Title,
		Message:      n.Message,
		Severity:     string(n.Severity),
		ProductSKU:   n.ProductSKU,
		ProductName:  n.ProductName,
		IsRead:       boolInt(n.Read),
		CreatedAt:    formatTime(n.CreatedAt),
		MetadataJSON: nullJSON(n.Metadata, len(n.Metadata) == 0),
	}
}

func notificationFromRow(row db.WebhookNotification) domain.WebhookNotification {
	n := domain.WebhookNotification{
		ID:          row.ID,
		EventID:     row.EventID,
		Type:        domain.NotificationType(row.Type),
		Title:       row.Title,
		Message:     row.Message,
		Severity:    domain.Severity(row.Severity),
		ProductSKU:  row.ProductSKU,
		ProductName: row.ProductName,
		Read:        row.IsRead != 0,
		CreatedAt:   parseTime(row.CreatedAt),
	}
	if row.MetadataJSON.Valid {
		_ = json.Unmarshal([]byte(row.MetadataJSON.String), &n.Metadata)
	}
	return n
}

func alertToRow(a domain.InventoryAlert) db.InventoryAlert {
	threshold := sql.NullInt64{}
	if a.Threshold != nil {
		threshold = sql.NullInt64{Int64: int64(*a.Threshold), Valid: true}
	}
	return db.InventoryAlert{
		ID:                 a.ID,
		SKU:                a.SKU,
		StyleID:            a.StyleID,
		ColorID:            a.ColorID,
		SizeID:             a.SizeID,
		AlertType:          string(a.AlertType),
		CurrentQuantity:    int64(a.CurrentQuantity),
		Threshold:          threshold,
		Supplier:           string(a.Supplier),
		AffectedQuotesJSON: nullJSON(a.AffectedQuotes, len(a.AffectedQuotes) == 0),
		AffectedJobsJSON:   nullJSON(a.AffectedJobs, len(a.AffectedJobs) == 0),
		CreatedAt:          formatTime(a.CreatedAt),
		AcknowledgedAt:     nullTime(a.AcknowledgedAt),
		AcknowledgedBy:     nullString(a.AcknowledgedBy),
	}
}

func alertFromRow(row db.InventoryAlert) domain.InventoryAlert {
	a := domain.InventoryAlert{
		ID:              row.ID,
		SKU:             row.SKU,
		StyleID:         row.StyleID,
		ColorID:         row.ColorID,
		SizeID:          row.SizeID,
		AlertType:       domain.AlertType(row.AlertType),
		CurrentQuantity: int(row.CurrentQuantity),
		Supplier:        domain.Source(row.Supplier),
		CreatedAt:       parseTime(row.CreatedAt),
		AcknowledgedAt:  timePtr(row.AcknowledgedAt),
		AcknowledgedBy:  row.AcknowledgedBy.String,
	}
	if row.Threshold.Valid {
		threshold := int(row.Threshold.Int64)
		a.Threshold = &threshold
	}
	if row.AffectedQuotesJSON.Valid {
		_ = json.Unmarshal([]byte(row.AffectedQuotesJSON.String), &a.AffectedQuotes)
	}
	if row.AffectedJobsJSON.Valid {
		_ = json.Unmarshal([]byte(row.AffectedJobsJSON.String), &a.AffectedJobs)
	}
	return a
}
