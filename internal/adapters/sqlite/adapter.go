// Package sqlite provides a SQLite-backed implementation of the document store port.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ewilliams-labs/aidj/backend/internal/core/domain"
	"github.com/ewilliams-labs/aidj/backend/internal/core/ports"
	_ "github.com/mattn/go-sqlite3" // Import the driver anonymously
)

// Adapter implements the document store port for SQLite
type Adapter struct {
	db *sql.DB
}

var _ ports.DocumentStore = (*Adapter)(nil)

// NewAdapter creates a connection and runs the schema migration
func NewAdapter(storagePath string) (*Adapter, error) {
	db, err := sql.Open("sqlite3", storagePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite db: %w", err)
	}
	// A single connection serialises writers and keeps :memory: databases shared.
	db.SetMaxOpenConns(1)

	// Verify connection
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite db: %w", err)
	}

	adapter := &Adapter{db: db}

	// Auto-migrate on startup for local dev
	if err := adapter.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	return adapter, nil
}

// Close ensures the DB connection is closed gracefully
func (a *Adapter) Close() error {
	return a.db.Close()
}

// Get returns the document stored under key, or domain.ErrNotFound.
func (a *Adapter) Get(ctx context.Context, key string) ([]byte, error) {
	var body []byte
	err := a.db.QueryRowContext(ctx, "SELECT body FROM documents WHERE key = ?", key).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("sqlite: %q: %w", key, domain.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load document %q: %w", key, err)
	}
	return body, nil
}

// Put inserts or replaces the document stored under key.
func (a *Adapter) Put(ctx context.Context, key string, doc []byte) error {
	_, err := a.db.ExecContext(ctx, `
		INSERT INTO documents (key, body, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(key) DO UPDATE SET
			body = excluded.body,
			updated_at = excluded.updated_at
	`, key, doc)
	if err != nil {
		return fmt.Errorf("failed to save document %q: %w", key, err)
	}
	return nil
}

func (a *Adapter) migrate() error {
	query := `
	CREATE TABLE IF NOT EXISTS documents (
		key TEXT PRIMARY KEY,
		body BLOB NOT NULL,
		updated_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);
	`
	_, err := a.db.Exec(query)
	return err
}
