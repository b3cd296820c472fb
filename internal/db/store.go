package db

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

// SupplierAccount is one supplier_accounts row.
type SupplierAccount struct {
	ID            int64  `db:"id"`
	Source        string `db:"source"`
	Name          string `db:"name"`
	AuthToken     string `db:"auth_token"`
	WebhookSecret string `db:"webhook_secret"`
	Enabled       int64  `db:"enabled"`
}

// WebhookEvent is one webhook_events row.
type WebhookEvent struct {
	Seq            int64          `db:"seq"`
	ID             string         `db:"id"`
	Source         string         `db:"source"`
	EventType      string         `db:"event_type"`
	Status         string         `db:"status"`
	PayloadJSON    string         `db:"payload_json"`
	ReceivedAt     string         `db:"received_at"`
	ProcessedAt    sql.NullString `db:"processed_at"`
	RetryCount     int64          `db:"retry_count"`
	Error          sql.NullString `db:"error"`
	ResponseTimeMS int64          `db:"response_time_ms"`
}

const webhookEventColumns = `seq, id, source, event_type, status, payload_json, received_at, processed_at, retry_count, error, response_time_ms`

// GetSupplierAccountByAuthToken fetches a supplier account by bearer token.
func (c *Database) GetSupplierAccountByAuthToken(ctx context.Context, authToken string) (SupplierAccount, error) {
	var row SupplierAccount
	err := c.run(ctx, "GetSupplierAccountByAuthToken", "query_row", func(ctx context.Context) error {
		return c.db.GetContext(ctx, &row, `SELECT id, source, name, auth_token, webhook_secret, enabled
FROM supplier_accounts WHERE auth_token = ?`, authToken)
	})
	return row, err
}

// UpsertSupplierAccount inserts or refreshes credentials for (source, name).
func (c *Database) UpsertSupplierAccount(ctx context.Context, account SupplierAccount) (SupplierAccount, error) {
	var row SupplierAccount
	err := c.run(ctx, "UpsertSupplierAccount", "exec", func(ctx context.Context) error {
		_, err := c.db.NamedExecContext(ctx, `INSERT INTO supplier_accounts (source, name, auth_token, webhook_secret, enabled)
VALUES (:source, :name, :auth_token, :webhook_secret, :enabled)
ON CONFLICT (source, name) DO UPDATE SET
    auth_token = excluded.auth_token,
    webhook_secret = excluded.webhook_secret,
    enabled = excluded.enabled`, account)
		if err != nil {
			return err
		}
		return c.db.GetContext(ctx, &row, `SELECT id, source, name, auth_token, webhook_secret, enabled
FROM supplier_accounts WHERE source = ? AND name = ?`, account.Source, account.Name)
	})
	return row, err
}

// ListSupplierAccounts returns all supplier accounts.
func (c *Database) ListSupplierAccounts(ctx context.Context) ([]SupplierAccount, error) {
	var rows []SupplierAccount
	err := c.run(ctx, "ListSupplierAccounts", "query", func(ctx context.Context) error {
		return c.db.SelectContext(ctx, &rows, `SELECT id, source, name, auth_token, webhook_secret, enabled
FROM supplier_accounts ORDER BY source, name`)
	})
	return rows, err
}

// AppendWebhookEvents inserts events in one transaction. Duplicate ids are ignored.
func (c *Database) AppendWebhookEvents(ctx context.Context, events []WebhookEvent) error {
	if len(events) == 0 {
		return nil
	}
	return c.run(ctx, "AppendWebhookEvents", "exec", func(ctx context.Context) error {
		return c.WithTx(ctx, func(tx *sqlx.Tx) error {
			stmt, err := tx.PrepareNamedContext(ctx, `INSERT OR IGNORE INTO webhook_events
    (id, source, event_type, status, payload_json, received_at, processed_at, retry_count, error, response_time_ms)
VALUES (:id, :source, :event_type, :status, :payload_json, :received_at, :processed_at, :retry_count, :error, :response_time_ms)`)
			if err != nil {
				return err
			}
			defer func() { _ = stmt.Close() }()
			for _, event := range events {
				if _, err := stmt.ExecContext(ctx, event); err != nil {
					return err
				}
			}
			return nil
		})
	})
}

// UpdateWebhookEventStatus stores the processing outcome of one event.
func (c *Database) UpdateWebhookEventStatus(ctx context.Context, event WebhookEvent) error {
	return c.run(ctx, "UpdateWebhookEventStatus", "exec", func(ctx context.Context) error {
		_, err := c.db.NamedExecContext(ctx, `UPDATE webhook_events SET
    status = :status,
    processed_at = :processed_at,
    retry_count = :retry_count,
    error = :error,
    response_time_ms = :response_time_ms
WHERE id = :id`, event)
		return err
	})
}

// ListWebhookEvents returns the newest events first.
func (c *Database) ListWebhookEvents(ctx context.Context, limit int) ([]WebhookEvent, error) {
	var rows []WebhookEvent
	err := c.run(ctx, "ListWebhookEvents", "query", func(ctx context.Context) error {
		return c.db.SelectContext(ctx, &rows, `SELECT `+webhookEventColumns+`
FROM webhook_events ORDER BY seq DESC LIMIT ?`, limit)
	})
	return rows, err
}

// ForEachWebhookEvent streams events in insertion order.
func (c *Database) ForEachWebhookEvent(ctx context.Context, fn func(WebhookEvent) error) error {
	return c.run(ctx, "ForEachWebhookEvent", "query", func(ctx context.Context) error {
		rows, err := c.db.QueryxContext(ctx, `SELECT `+webhookEventColumns+`
FROM webhook_events ORDER BY seq ASC`)
		if err != nil {
			return err
		}
		defer func() { _ = rows.Close() }()
		for rows.Next() {
			var row WebhookEvent
			if err := rows.StructScan(&row); err != nil {
				return err
			}
			if err := fn(row); err != nil {
				return err
			}
		}
		return rows.Err()
	})
}

// CountWebhookEvents returns the number of stored events.
func (c *Database) CountWebhookEvents(ctx context.Context) (int64, error) {
	var count int64
	err := c.run(ctx, "CountWebhookEvents", "query_row", func(ctx context.Context) error {
		return c.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM webhook_events`)
	})
	return count, err
}
