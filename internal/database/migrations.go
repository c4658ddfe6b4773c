package database

import (
	"context"
	"fmt"
)

// schema is applied at startup. Statements are idempotent so repeated runs
// against an existing database are safe.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id                TEXT PRIMARY KEY,
		name              TEXT NOT NULL,
		email             TEXT NOT NULL UNIQUE,
		credits_amount    INTEGER NOT NULL DEFAULT 0,
		credits_unlimited BOOLEAN NOT NULL DEFAULT FALSE,
		plan              TEXT NOT NULL DEFAULT 'free',
		avatar            TEXT NOT NULL DEFAULT '',
		is_admin          BOOLEAN NOT NULL DEFAULT FALSE,
		version           BIGINT NOT NULL DEFAULT 1,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS generation_history (
		id               TEXT PRIMARY KEY,
		user_id          TEXT NOT NULL REFERENCES users(id),
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		niche            TEXT NOT NULL,
		theme            TEXT NOT NULL,
		base_image_id    TEXT,
		style_image_id   TEXT,
		product_image_id TEXT,
		concepts         JSONB NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_generation_history_user
		ON generation_history (user_id, created_at DESC)`,
	`CREATE TABLE IF NOT EXISTS showcase_items (
		id          TEXT PRIMARY KEY,
		title       TEXT NOT NULL DEFAULT '',
		category    TEXT NOT NULL DEFAULT '',
		image_id    TEXT NOT NULL,
		row_name    TEXT NOT NULL CHECK (row_name IN ('top', 'bottom')),
		batch_index INTEGER NOT NULL DEFAULT 0,
		created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_showcase_items_row
		ON showcase_items (row_name, created_at DESC, batch_index ASC)`,
	`CREATE TABLE IF NOT EXISTS hero_example (
		singleton  BOOLEAN PRIMARY KEY DEFAULT TRUE CHECK (singleton),
		image_id   TEXT NOT NULL DEFAULT '',
		input      TEXT NOT NULL DEFAULT '',
		prompt     TEXT NOT NULL DEFAULT '',
		caption    TEXT NOT NULL DEFAULT '',
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
}

// Migrate applies the schema to the connected database.
func (db *DB) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := db.Pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
