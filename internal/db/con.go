package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	// SQLite driver.
	_ "modernc.org/sqlite"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

const (
	driver        = "sqlite"
	defaultPath   = "data/stockwatch"
	migrationsDir = "migrations"
)

// sqlite pragmas applied to every pooled connection.
var connectionPragmas = []string{
	"foreign_keys(ON)",
	"journal_mode(WAL)",
	"synchronous(NORMAL)",
	"busy_timeout(5000)",
	"temp_store(MEMORY)",
}

func init() {
	sqlx.BindDriver(driver, sqlx.QUESTION)
}

// Database wraps the shared sqlite connection pool used by every store.
type Database struct {
	db      *sqlx.DB
	tracker *queryLatencyTracker
}

// New opens the SQLite database at path (".sqlite" is appended) and applies
// the embedded goose migrations.
func New(path string, openParams ...string) (*Database, error) {
	if strings.TrimSpace(path) == "" {
		path = defaultPath
	}
	conn, err := sqlx.Open(driver, sqliteDSN(path, openParams...))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := migrate(conn.DB); err != nil {
		_ = conn.Close()
		return nil, err
	}
	return &Database{db: conn, tracker: newQueryLatencyTracker()}, nil
}

// goose keeps its base FS and dialect in package state.
var migrateMu sync.Mutex

func migrate(conn *sql.DB) error {
	migrateMu.Lock()
	defer migrateMu.Unlock()

	goose.SetBaseFS(migrationsFS)
	if err := goose.SetDialect(driver); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.Up(conn, migrationsDir); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}

func sqliteDSN(path string, openParams ...string) string {
	values := url.Values{}
	values.Set("_fk", "1")
	for _, pragma := range connectionPragmas {
		values.Add("_pragma", pragma)
	}

	for _, param := range openParams {
		key, value, ok := strings.Cut(strings.TrimSpace(strings.TrimPrefix(param, "&")), "=")
		if !ok || strings.TrimSpace(key) == "" {
			continue
		}
		values.Add(strings.TrimSpace(key), strings.TrimSpace(value))
	}

	return fmt.Sprintf("file:%s.sqlite?%s", path, values.Encode())
}

// WithTx runs fn inside a transaction. fn's error rolls the transaction back.
func (c *Database) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	tx, err := c.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		if rollbackErr := tx.Rollback(); rollbackErr != nil {
			return fmt.Errorf("%w (rollback: %v)", err, rollbackErr)
		}
		return err
	}
	return tx.Commit()
}

// Close closes the underlying database connection.
func (c *Database) Close() error {
	return c.db.Close()
}
