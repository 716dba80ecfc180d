package db

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // pure go sqlite driver
)

const sqliteSchema = `CREATE TABLE IF NOT EXISTS order_records (
	id             TEXT PRIMARY KEY,
	placed_at      TEXT NOT NULL,
	customer_name  TEXT NOT NULL,
	phone          TEXT NOT NULL,
	email          TEXT NOT NULL DEFAULT '',
	address        TEXT NOT NULL,
	items          TEXT NOT NULL,
	total_amount   REAL NOT NULL,
	payment_method TEXT NOT NULL,
	status         TEXT NOT NULL,
	created_at     TEXT NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// OpenSQLite opens (creating if needed) the local order log at path.
func OpenSQLite(path string) (*sql.DB, error) {
	if path == "" {
		path = "storefront.db"
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o750); err != nil && !errors.Is(err, os.ErrExist) {
			return nil, fmt.Errorf("create dirs: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// One writer at a time; also keeps an in-memory database on one connection.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create order_records table: %w", err)
	}
	return db, nil
}
