package db

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// InventorySnapshot is one inventory_snapshots row.
type InventorySnapshot struct {
	ID                string `db:"id"`
	Supplier          string `db:"supplier"`
	StyleID           string `db:"style_id"`
	ColorID           string `db:"color_id"`
	SizeID            string `db:"size_id"`
	SKU               string `db:"sku"`
	Quantity          int64  `db:"quantity"`
	Price             string `db:"price"`
	LowStockThreshold int64  `db:"low_stock_threshold"`
	IsLowStock        int64  `db:"is_low_stock"`
	IsOutOfStock      int64  `db:"is_out_of_stock"`
	UpdatedAt         string `db:"updated_at"`
}

// WebhookNotification is one webhook_notifications row.
type WebhookNotification struct {
	Seq          int64          `db:"seq"`
	ID           string         `db:"id"`
	EventID      string         `db:"event_id"`
	Type         string         `db:"type"`
	Title        string         `db:"title"`
	Message      string         `db:"message"`
	Severity     string         `db:"severity"`
	ProductSKU   string         `db:"product_sku"`
	ProductName  string         `db:"product_name"`
	IsRead       int64          `db:"is_read"`
	CreatedAt    string         `db:"created_at"`
	MetadataJSON sql.NullString `db:"metadata_json"`
}

// InventoryAlert is one inventory_alerts row.
type InventoryAlert struct {
	Seq                int64          `db:"seq"`
	ID                 string         `db:"id"`
	SKU                string         `db:"sku"`
	StyleID            string         `db:"style_id"`
	ColorID            string         `db:"color_id"`
	SizeID             string         `db:"size_id"`
	AlertType          string         `db:"alert_type"`
	CurrentQuantity    int64          `db:"current_quantity"`
	Threshold          sql.NullInt64  `db:"threshold"`
	Supplier           string         `db:"supplier"`
	AffectedQuotesJSON sql.NullString `db:"affected_quotes_json"`
	AffectedJobsJSON   sql.NullString `db:"affected_jobs_json"`
	CreatedAt          string         `db:"created_at"`
	AcknowledgedAt     sql.NullString `db:"acknowledged_at"`
	AcknowledgedBy     sql.NullString `db:"acknowledged_by"`
}

const snapshotColumns = `id, supplier, style_id, color_id, size_id, sku, quantity, price, low_stock_threshold, is_low_stock, is_out_of_stock, updated_at`

// GetInventorySnapshot fetches one snapshot by key id. sql.ErrNoRows when absent.
func (c *Database) GetInventorySnapshot(ctx context.Context, id string) (InventorySnapshot, error) {
	var row InventorySnapshot
	err := c.run(ctx, "GetInventorySnapshot", "query_row", func(ctx context.Context) error {
		return c.db.GetContext(ctx, &row, `SELECT `+snapshotColumns+` FROM inventory_snapshots WHERE id = ?`, id)
	})
	return row, err
}

// UpsertInventorySnapshot replaces the row stored under the snapshot id.
func (c *Database) UpsertInventorySnapshot(ctx context.Context, row InventorySnapshot) error {
	return c.run(ctx, "UpsertInventorySnapshot", "exec", func(ctx context.Context) error {
		_, err := c.db.NamedExecContext(ctx, `INSERT INTO inventory_snapshots (`+snapshotColumns+`)
VALUES (:id, :supplier, :style_id, :color_id, :size_id, :sku, :quantity, :price, :low_stock_threshold, :is_low_stock, :is_out_of_stock, :updated_at)
ON CONFLICT (id) DO UPDATE SET
    supplier = excluded.supplier,
    style_id = excluded.style_id,
    color_id = excluded.color_id,
    size_id = excluded.size_id,
    sku = excluded.sku,
    quantity = excluded.quantity,
    price = excluded.price,
    low_stock_threshold = excluded.low_stock_threshold,
    is_low_stock = excluded.is_low_stock,
    is_out_of_stock = excluded.is_out_of_stock,
    updated_at = excluded.updated_at`, row)
		return err
	})
}

// ListInventorySnapshots returns every stored snapshot.
func (c *Database) ListInventorySnapshots(ctx context.Context) ([]InventorySnapshot, error) {
	var rows []InventorySnapshot
	err := c.run(ctx, "ListInventorySnapshots", "query", func(ctx context.Context) error {
		return c.db.SelectContext(ctx, &rows, `SELECT `+snapshotColumns+` FROM inventory_snapshots ORDER BY id`)
	})
	return rows, err
}

// ClearInventorySnapshots deletes every snapshot.
func (c *Database) ClearInventorySnapshots(ctx context.Context) error {
	return c.run(ctx, "ClearInventorySnapshots", "exec", func(ctx context.Context) error {
		_, err := c.db.ExecContext(ctx, `DELETE FROM inventory_snapshots`)
		return err
	})
}

// AppendNotifications inserts notifications in one transaction.
func (c *Database) AppendNotifications(ctx context.Context, rows []WebhookNotification) error {
	if len(rows) == 0 {
		return nil
	}
	return c.run(ctx, "AppendNotifications", "exec", func(ctx context.Context) error {
		return c.WithTx(ctx, func(tx *sqlx.Tx) error {
			for _, row := range rows {
				if _, err := tx.NamedExecContext(ctx, `INSERT OR IGNORE INTO webhook_notifications
    (id, event_id, type, title, message, severity, product_sku, product_name, is_read, created_at, metadata_json)
VALUES (:id, :event_id, :type, :title, :message, :severity, :product_sku, :product_name, :is_read, :created_at, :metadata_json)`, row); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

// ListNotifications returns newest notifications first.
func (c *Database) ListNotifications(ctx context.Context, unreadOnly bool, limit int) ([]WebhookNotification, error) {
	query := `SELECT seq, id, event_id, type, title, message, severity, product_sku, product_name, is_read, created_at, metadata_json
FROM webhook_notifications`
	if unreadOnly {
		query += ` WHERE is_read = 0`
	}
	query += ` ORDER BY seq DESC LIMIT ?`

	var rows []WebhookNotification
	err := c.run(ctx, "ListNotifications", "query", func(ctx context.Context) error {
		return c.db.SelectContext(ctx, &rows, query, limit)
	})
	return rows, err
}

// MarkNotificationRead flags one notification as read and reports affected rows.
func (c *Database) MarkNotificationRead(ctx context.Context, id string) (int64, error) {
	var affected int64
	err := c.run(ctx, "MarkNotificationRead", "exec", func(ctx context.Context) error {
		result, err := c.db.ExecContext(ctx, `UPDATE webhook_notifications SET is_read = 1 WHERE id = ?`, id)
		if err != nil {
			return err
		}
		affected, err = result.RowsAffected()
		return err
	})
	return affected, err
}

// AppendAlerts inserts alerts in one transaction.
func (c *Database) AppendAlerts(ctx context.Context, rows []InventoryAlert) error {
	if len(rows) == 0 {
		return nil
	}
	return c.run(ctx, "AppendAlerts", "exec", func(ctx context.Context) error {
		return c.WithTx(ctx, func(tx *sqlx.Tx) error {
			for _, row := range rows {
				if _, err := tx.NamedExecContext(ctx, `INSERT OR IGNORE INTO inventory_alerts
    (id, sku, style_id, color_id, size_id, alert_type, current_quantity, threshold, supplier,
     affected_quotes_json, affected_jobs_json, created_at, acknowledged_at, acknowledged_by)
VALUES (:id, :sku, :style_id, :color_id, :size_id, :alert_type, :current_quantity, :threshold, :supplier,
     :affected_quotes_json, :affected_jobs_json, :created_at, :acknowledged_at, :acknowledged_by)`, row); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

// ListAlerts returns newest alerts first.
func (c *Database) ListAlerts(ctx context.Context, openOnly bool, limit int) ([]InventoryAlert, error) {
	query := `SELECT seq, id, sku, style_id, color_id, size_id, alert_type, current_quantity, threshold, supplier,
    affected_quotes_json, affected_jobs_json, created_at, acknowledged_at, acknowledged_by
FROM inventory_alerts`
	if openOnly {
		query += ` WHERE acknowledged_at IS NULL`
	}
	query += ` ORDER BY seq DESC LIMIT ?`

	var rows []InventoryAlert
	err := c.run(ctx, "ListAlerts", "query", func(ctx context.Context) error {
		return c.db.SelectContext(ctx, &rows, query, limit)
	})
	return rows, err
}

// AcknowledgeAlert stamps an alert as handled and reports affected rows.
func (c *Database) AcknowledgeAlert(ctx context.Context, id, by, at string) (int64, error) {
	var affected int64
	err := c.run(ctx, "AcknowledgeAlert", "exec", func(ctx context.Context) error {
		result, err := c.db.ExecContext(ctx, `UPDATE inventory_alerts SET acknowledged_at = ?, acknowledged_by = ? WHERE id = ?`, at, by, id)
		if err != nil {
			return err
		}
		affected, err = result.RowsAffected()
		return err
	})
	return affected, err
}
