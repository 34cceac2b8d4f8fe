package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// schema mirrors migrations/000001_init.up.sql. Timestamps are unix nanoseconds
// and industries are a JSON array.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id               INTEGER PRIMARY KEY AUTOINCREMENT,
		email            TEXT    NOT NULL UNIQUE,
		password_hash    TEXT    NOT NULL,
		first_name       TEXT    NOT NULL,
		last_name        TEXT    NOT NULL,
		role             TEXT    NOT NULL CHECK (role IN ('investor', 'entrepreneur')),
		avatar           TEXT,
		bio              TEXT,
		company          TEXT,
		title            TEXT,
		location         TEXT,
		website          TEXT,
		linkedin         TEXT,
		industries       TEXT    NOT NULL DEFAULT '[]',
		investment_range TEXT,
		funding_need     TEXT,
		portfolio_size   INTEGER,
		created_at       INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_users_role ON users (role, id)`,
	`CREATE TABLE IF NOT EXISTS collaboration_requests (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		from_user_id INTEGER NOT NULL REFERENCES users (id),
		to_user_id   INTEGER NOT NULL REFERENCES users (id),
		status       TEXT    NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'accepted', 'rejected')),
		message      TEXT,
		created_at   INTEGER NOT NULL
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS collaboration_requests_pending_key
		ON collaboration_requests (from_user_id, to_user_id) WHERE status = 'pending'`,
	`CREATE TABLE IF NOT EXISTS messages (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		from_user_id INTEGER NOT NULL REFERENCES users (id),
		to_user_id   INTEGER NOT NULL REFERENCES users (id),
		content      TEXT    NOT NULL,
		created_at   INTEGER NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_messages_pair
		ON messages (min(from_user_id, to_user_id), max(from_user_id, to_user_id), created_at, id)`,
	`CREATE TABLE IF NOT EXISTS connections (
		id         INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id_1  INTEGER NOT NULL REFERENCES users (id),
		user_id_2  INTEGER NOT NULL REFERENCES users (id),
		created_at INTEGER NOT NULL,
		CHECK (user_id_1 <> user_id_2)
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS connections_pair_key
		ON connections (min(user_id_1, user_id_2), max(user_id_1, user_id_2))`,
}

// EnsureSchema creates tables and indexes if they do not exist.
func EnsureSchema(ctx context.Context, db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply sqlite schema: %w", err)
		}
	}
	return nil
}
