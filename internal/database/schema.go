package database

import (
	"context"
	"fmt"
)

// Schema statements are idempotent so the server can bootstrap a fresh
// database at startup. The UNIQUE constraint on (session_id, milestone_hours)
// backs the insert-if-absent milestone dedup.
var schemaStatements = []string{
	`CREATE EXTENSION IF NOT EXISTS pgcrypto`,

	`CREATE TABLE IF NOT EXISTS accounts (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		display_name TEXT,
		api_token_hash TEXT NOT NULL UNIQUE,
		rate_limit_per_minute INT NOT NULL DEFAULT 60,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		disabled_at TIMESTAMPTZ
	)`,

	`CREATE TABLE IF NOT EXISTS fasting_sessions (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		account_id UUID NOT NULL REFERENCES accounts(id) ON DELETE CASCADE,
		start_time TIMESTAMPTZ NOT NULL,
		end_time TIMESTAMPTZ,
		target_duration INT NOT NULL,
		actual_duration INT,
		is_active BOOLEAN NOT NULL DEFAULT TRUE,
		paused_at TIMESTAMPTZ,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_fasting_sessions_account ON fasting_sessions (account_id)`,
	`CREATE INDEX IF NOT EXISTS idx_fasting_sessions_active ON fasting_sessions (account_id, is_active)`,
	`CREATE INDEX IF NOT EXISTS idx_fasting_sessions_created ON fasting_sessions (created_at)`,

	`CREATE TABLE IF NOT EXISTS fasting_milestones (
		id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
		session_id UUID NOT NULL REFERENCES fasting_sessions(id) ON DELETE CASCADE,
		milestone_hours INT NOT NULL,
		achieved_at TIMESTAMPTZ NOT NULL,
		badge_name TEXT NOT NULL,
		UNIQUE (session_id, milestone_hours)
	)`,

	`CREATE TABLE IF NOT EXISTS fasting_settings (
		setting_key TEXT PRIMARY KEY,
		setting_value TEXT NOT NULL
	)`,
}

// EnsureSchema creates the tables and indexes if they do not exist.
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("ensure schema: %w", err)
		}
	}
	return nil
}
