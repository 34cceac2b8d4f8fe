package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/muhammadafham46/Business-Nexus/internal/model"
)

// CreateConnection inserts a connection. The unique index on the unordered
// pair makes a concurrent duplicate fail with ErrConnectionExists.
func (r *Repository) CreateConnection(ctx context.Context, conn *model.Connection) error {
	if conn.CreatedAt.IsZero() {
		conn.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO connections (user_id_1, user_id_2, created_at)
		VALUES ($1, $2, $3)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		conn.UserID1,
		conn.UserID2,
		conn.CreatedAt,
	).Scan(&conn.ID, &conn.CreatedAt)

	if err != nil {
		if constraint, ok := uniqueViolation(err); ok && constraint == constraintConnectionPair {
			return ErrConnectionExists
		}
		return fmt.Errorf("failed to create connection: %w", err)
	}

	return nil
}

// GetConnection retrieves a connection by ID.
func (r *Repository) GetConnection(ctx context.Context, id int64) (*model.Connection, error) {
	query := `SELECT id, user_id_1, user_id_2, created_at FROM connections WHERE id = $1`

	var conn model.Connection
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&conn.ID,
		&conn.UserID1,
		&conn.UserID2,
		&conn.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrConnectionNotFound
		}
		return nil, fmt.Errorf("failed to get connection: %w", err)
	}

	return &conn, nil
}

// ListConnectionsForUser returns connections where userID is either side.
func (r *Repository) ListConnectionsForUser(ctx context.Context, userID int64) ([]*model.Connection, error) {
	query := `
		SELECT id, user_id_1, user_id_2, created_at
		FROM connections
		WHERE user_id_1 = $1 OR user_id_2 = $1
		ORDER BY id
	`

	rows, err := r.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	defer rows.Close()

	connections := []*model.Connection{}
	for rows.Next() {
		var conn model.Connection
		if err := rows.Scan(&conn.ID, &conn.UserID1, &conn.UserID2, &conn.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan connection: %w", err)
		}
		connections = append(connections, &conn)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating connections: %w", err)
	}

	return connections, nil
}

// AreConnected reports whether the two users share a connection.
func (r *Repository) AreConnected(ctx context.Context, userA, userB int64) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM connections
			WHERE LEAST(user_id_1, user_id_2) = LEAST($1::BIGINT, $2::BIGINT)
			  AND GREATEST(user_id_1, user_id_2) = GREATEST($1::BIGINT, $2::BIGINT)
		)
	`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, userA, userB).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check connection: %w", err)
	}

	return exists, nil
}
