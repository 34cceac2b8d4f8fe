package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/muhammadafham46/Business-Nexus/internal/model"
)

const requestColumns = `id, from_user_id, to_user_id, status, message, created_at`

// CreateCollaborationRequest inserts a new request. Status defaults to pending.
func (r *Repository) CreateCollaborationRequest(ctx context.Context, req *model.CollaborationRequest) error {
	if req.Status == "" {
		req.Status = model.RequestPending
	}
	if req.CreatedAt.IsZero() {
		req.CreatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO collaboration_requests (from_user_id, to_user_id, status, message, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
		req.FromUserID,
		req.ToUserID,
		string(req.Status),
		req.Message,
		req.CreatedAt,
	).Scan(&req.ID, &req.CreatedAt)

	if err != nil {
		if constraint, ok := uniqueViolation(err); ok && constraint == constraintPendingRequest {
			return ErrRequestExists
		}
		return fmt.Errorf("failed to create collaboration request: %w", err)
	}

	return nil
}

// GetCollaborationRequest retrieves a request by ID.
func (r *Repository) GetCollaborationRequest(ctx context.Context, id int64) (*model.CollaborationRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM collaboration_requests WHERE id = $1`

	req, err := scanRequest(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to get collaboration request: %w", err)
	}

	return req, nil
}

// ListCollaborationRequests lists requests involving filter.UserID, newest first.
func (r *Repository) ListCollaborationRequests(ctx context.Context, filter model.CollaborationRequestFilter) ([]*model.CollaborationRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM collaboration_requests WHERE `
	args := []any{filter.UserID}

	switch filter.Direction {
	case model.DirectionIncoming:
		query += `to_user_id = $1`
	case model.DirectionOutgoing:
		query += `from_user_id = $1`
	default:
		query += `(from_user_id = $1 OR to_user_id = $1)`
	}

	if filter.Status != "" {
		args = append(args, string(filter.Status))
		query += fmt.Sprintf(" AND status = $%d", len(args))
	}

	query += ` ORDER BY created_at DESC, id DESC`

	return r.queryRequests(ctx, query, args...)
}

// ListCollaborationRequestsBetween lists requests in either direction between two users.
func (r *Repository) ListCollaborationRequestsBetween(ctx context.Context, userA, userB int64) ([]*model.CollaborationRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM collaboration_requests
		WHERE (from_user_id = $1 AND to_user_id = $2)
		   OR (from_user_id = $2 AND to_user_id = $1)
		ORDER BY created_at DESC, id DESC
	`
	return r.queryRequests(ctx, query, userA, userB)
}

// UpdateCollaborationRequestStatus sets the status of a request.
func (r *Repository) UpdateCollaborationRequestStatus(ctx context.Context, id int64, status model.RequestStatus) (*model.CollaborationRequest, error) {
	query := `UPDATE collaboration_requests SET status = $2 WHERE id = $1 RETURNING ` + requestColumns

	req, err := scanRequest(r.pool.QueryRow(ctx, query, id, string(status)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrRequestNotFound
		}
		if constraint, ok := uniqueViolation(err); ok && constraint == constraintPendingRequest {
			return nil, ErrRequestExists
		}
		return nil, fmt.Errorf("failed to update collaboration request: %w", err)
	}

	return req, nil
}

func (r *Repository) queryRequests(ctx context.Context, query string, args ...any) ([]*model.CollaborationRequest, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list collaboration requests: %w", err)
	}
	defer rows.Close()

	requests := []*model.CollaborationRequest{}
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan collaboration request: %w", err)
		}
		requests = append(requests, req)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating collaboration requests: %w", err)
	}

	return requests, nil
}

func scanRequest(row pgx.Row) (*model.CollaborationRequest, error) {
	var req model.CollaborationRequest
	var status string

	if err := row.Scan(
		&req.ID,
		&req.FromUserID,
		&req.ToUserID,
		&status,
		&req.Message,
		&req.CreatedAt,
	); err != nil {
		return nil, err
	}

	req.Status = model.RequestStatus(status)
	return &req, nil
}
