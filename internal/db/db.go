// Package db provides PostgreSQL-backed durable client storage.
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/career-compass/internal/storage"
)

// schemaSQL creates the client storage table if it does not exist.
const schemaSQL = `
CREATE TABLE IF NOT EXISTS client_storage (
	owner      TEXT        NOT NULL,
	key        TEXT        NOT NULL,
	value      JSONB       NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
	PRIMARY KEY (owner, key)
)`

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

var _ storage.Durable = (*DB)(nil)

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// EnsureSchema creates the tables this package needs.
func (db *DB) EnsureSchema(ctx context.Context) error {
	if _, err := db.pool.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create client_storage table: %w", err)
	}
	return nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Get decodes the value stored for owner/key into dst.
func (db *DB) Get(ctx context.Context, owner, key string, dst any) (bool, error) {
	var content []byte
	err := db.pool.QueryRow(ctx,
		`SELECT value FROM client_storage WHERE owner = $1 AND key = $2`,
		owner, key,
	).Scan(&content)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("failed to get %s: %w", key, err)
	}
	if err := json.Unmarshal(content, dst); err != nil {
		return false, &storage.DecodeError{Key: key, Cause: err}
	}
	return true, nil
}

// Set upserts the JSON encoding of value for owner/key.
func (db *DB) Set(ctx context.Context, owner, key string, value any) error {
	jsonBytes, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", key, err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO client_storage (owner, key, value, updated_at)
		 VALUES ($1, $2, $3, NOW())
		 ON CONFLICT (owner, key) DO UPDATE SET value = $3, updated_at = NOW()`,
		owner, key, jsonBytes,
	)
	if err != nil {
		return fmt.Errorf("failed to save %s: %w", key, err)
	}
	return nil
}

// Remove deletes owner/key.
func (db *DB) Remove(ctx context.Context, owner, key string) error {
	_, err := db.pool.Exec(ctx,
		`DELETE FROM client_storage WHERE owner = $1 AND key = $2`,
		owner, key,
	)
	if err != nil {
		return fmt.Errorf("failed to remove %s: %w", key, err)
	}
	return nil
}
