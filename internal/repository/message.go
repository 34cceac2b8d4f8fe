package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/muhammadafham46/Business-Nexus/internal/model"
)

// CreateMessage inserts a new message.
func (r *Repository) CreateMessage(ctx context.Context, msg *model.Message) error {
	if msg.CreatedAt.IsZero() {
		msg.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO messages (from_user_id, to_user_id, content, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`

	if err := r.pool.QueryRow(ctx, query,
		msg.FromUserID,
		msg.ToUserID,
		msg.Content,
		msg.CreatedAt,
	).Scan(&msg.ID, &msg.CreatedAt); err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	return nil
}

// GetMessage retrieves a message by ID.
func (r *Repository) GetMessage(ctx context.Context, id int64) (*model.Message, error) {
	query := `SELECT id, from_user_id, to_user_id, content, created_at FROM messages WHERE id = $1`

	var msg model.Message
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&msg.ID,
		&msg.FromUserID,
		&msg.ToUserID,
		&msg.Content,
		&msg.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMessageNotFound
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}

	return &msg, nil
}

// ListMessagesBetween returns the conversation between two users, oldest first.
func (r *Repository) ListMessagesBetween(ctx context.Context, userA, userB int64) ([]*model.Message, error) {
	query := `
		SELECT id, from_user_id, to_user_id, content, created_at
		FROM messages
		WHERE LEAST(from_user_id, to_user_id) = LEAST($1::BIGINT, $2::BIGINT)
		  AND GREATEST(from_user_id, to_user_id) = GREATEST($1::BIGINT, $2::BIGINT)
		ORDER BY created_at ASC, id ASC
	`

	rows, err := r.pool.Query(ctx, query, userA, userB)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages := []*model.Message{}
	for rows.Next() {
		var msg model.Message
		if err := rows.Scan(
			&msg.ID,
			&msg.FromUserID,
			&msg.ToUserID,
			&msg.Content,
			&msg.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, &msg)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}

	return messages, nil
}
