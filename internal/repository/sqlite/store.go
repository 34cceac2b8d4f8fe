package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/muhammadafham46/Business-Nexus/internal/model"
	"github.com/muhammadafham46/Business-Nexus/internal/repository"
)

// Store implements repository.Store on SQLite.
type Store struct {
	db *sql.DB
}

var _ repository.Store = (*Store)(nil)

// New opens the database at path and ensures the schema exists.
func New(ctx context.Context, path string) (*Store, error) {
	db, err := Open(path)
	if err != nil {
		return nil, err
	}
	if err := EnsureSchema(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// NewWithDB wraps an already opened and migrated connection.
func NewWithDB(db *sql.DB) *Store {
	return &Store{db: db}
}

// DB exposes the underlying *sql.DB connection.
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Close() error {
	return s.db.Close()
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func toNanos(t time.Time) int64 {
	return t.UTC().UnixNano()
}

func fromNanos(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

func stamp(t *time.Time) {
	if t.IsZero() {
		*t = time.Now().UTC()
	}
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// ---------------------------------------------------------------------------
// Users
// ---------------------------------------------------------------------------

const userColumns = `id, email, password_hash, first_name, last_name, role, avatar, bio, company,
	title, location, website, linkedin, industries, investment_range, funding_need, portfolio_size, created_at`

func (s *Store) CreateUser(ctx context.Context, user *model.User) error {
	stamp(&user.CreatedAt)
	user.Industries = repository.NormalizeIndustries(user.Industries)

	industries, err := json.Marshal(user.Industries)
	if err != nil {
		return fmt.Errorf("failed to encode industries: %w", err)
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (email, password_hash, first_name, last_name, role, avatar, bio, company,
			title, location, website, linkedin, industries, investment_range, funding_need, portfolio_size, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		user.Email,
		user.PasswordHash,
		user.FirstName,
		user.LastName,
		string(user.Role),
		model.NullIfEmpty(user.Avatar),
		model.NullIfEmpty(user.Bio),
		model.NullIfEmpty(user.Company),
		model.NullIfEmpty(user.Title),
		model.NullIfEmpty(user.Location),
		model.NullIfEmpty(user.Website),
		model.NullIfEmpty(user.LinkedIn),
		string(industries),
		model.NullIfEmpty(user.InvestmentRange),
		model.NullIfEmpty(user.FundingNeed),
		user.PortfolioSize,
		toNanos(user.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrEmailExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	user.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read user id: %w", err)
	}
	return nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (*model.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}
	return user, nil
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return user, nil
}

func (s *Store) UpdateUser(ctx context.Context, id int64, upd model.UserUpdate) (*model.User, error) {
	if upd.IsEmpty() {
		return s.GetUser(ctx, id)
	}

	var sets []string
	var args []any
	set := func(column string, value any) {
		sets = append(sets, column+" = ?")
		args = append(args, value)
	}

	if upd.FirstName != nil {
		set("first_name", *upd.FirstName)
	}
	if upd.LastName != nil {
		set("last_name", *upd.LastName)
	}
	optional := []struct {
		column string
		value  *string
	}{
		{"avatar", upd.Avatar},
		{"bio", upd.Bio},
		{"company", upd.Company},
		{"title", upd.Title},
		{"location", upd.Location},
		{"website", upd.Website},
		{"linkedin", upd.LinkedIn},
		{"investment_range", upd.InvestmentRange},
		{"funding_need", upd.FundingNeed},
	}
	for _, f := range optional {
		if f.value != nil {
			set(f.column, model.NullIfEmpty(f.value))
		}
	}
	if upd.Industries != nil {
		encoded, err := json.Marshal(repository.NormalizeIndustries(*upd.Industries))
		if err != nil {
			return nil, fmt.Errorf("failed to encode industries: %w", err)
		}
		set("industries", string(encoded))
	}
	if upd.PortfolioSize != nil {
		set("portfolio_size", *upd.PortfolioSize)
	} else if upd.ClearPortfolioSize {
		set("portfolio_size", nil)
	}

	args = append(args, id)
	res, err := s.db.ExecContext(ctx, `UPDATE users SET `+strings.Join(sets, ", ")+` WHERE id = ?`, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, repository.ErrUserNotFound
	}

	return s.GetUser(ctx, id)
}

func (s *Store) ListUsers(ctx context.Context) ([]*model.User, error) {
	return s.queryUsers(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
}

func (s *Store) ListUsersByRole(ctx context.Context, role model.Role) ([]*model.User, error) {
	return s.queryUsers(ctx, `SELECT `+userColumns+` FROM users WHERE role = ? ORDER BY id`, string(role))
}

func (s *Store) ListUsersByIDs(ctx context.Context, ids []int64) ([]*model.User, error) {
	if len(ids) == 0 {
		return []*model.User{}, nil
	}

	placeholders := make([]string, len(ids))
	args := make([]any, len(ids))
	for i, id := range ids {
		placeholders[i] = "?"
		args[i] = id
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id IN (` + strings.Join(placeholders, ", ") + `) ORDER BY id`
	return s.queryUsers(ctx, query, args...)
}

func (s *Store) queryUsers(ctx context.Context, query string, args ...any) ([]*model.User, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []*model.User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating users: %w", err)
	}
	return users, nil
}

func scanUser(row scanner) (*model.User, error) {
	var user model.User
	var role, industries string
	var createdAt int64

	if err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.FirstName,
		&user.LastName,
		&role,
		&user.Avatar,
		&user.Bio,
		&user.Company,
		&user.Title,
		&user.Location,
		&user.Website,
		&user.LinkedIn,
		&industries,
		&user.InvestmentRange,
		&user.FundingNeed,
		&user.PortfolioSize,
		&createdAt,
	); err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(industries), &user.Industries); err != nil {
		return nil, fmt.Errorf("failed to decode industries: %w", err)
	}
	user.Industries = repository.NormalizeIndustries(user.Industries)
	user.Role = model.Role(role)
	user.CreatedAt = fromNanos(createdAt)
	return &user, nil
}

// ---------------------------------------------------------------------------
// Collaboration requests
// ---------------------------------------------------------------------------

const requestColumns = `id, from_user_id, to_user_id, status, message, created_at`

func (s *Store) CreateCollaborationRequest(ctx context.Context, req *model.CollaborationRequest) error {
	if req.Status == "" {
		req.Status = model.RequestPending
	}
	stamp(&req.CreatedAt)

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO collaboration_requests (from_user_id, to_user_id, status, message, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		req.FromUserID, req.ToUserID, string(req.Status), req.Message, toNanos(req.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrRequestExists
		}
		return fmt.Errorf("failed to create collaboration request: %w", err)
	}

	req.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read collaboration request id: %w", err)
	}
	return nil
}

func (s *Store) GetCollaborationRequest(ctx context.Context, id int64) (*model.CollaborationRequest, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+requestColumns+` FROM collaboration_requests WHERE id = ?`, id)
	req, err := scanRequest(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrRequestNotFound
		}
		return nil, fmt.Errorf("failed to get collaboration request: %w", err)
	}
	return req, nil
}

func (s *Store) ListCollaborationRequests(ctx context.Context, filter model.CollaborationRequestFilter) ([]*model.CollaborationRequest, error) {
	query := `SELECT ` + requestColumns + ` FROM collaboration_requests WHERE `
	var args []any

	switch filter.Direction {
	case model.DirectionIncoming:
		query += `to_user_id = ?`
		args = append(args, filter.UserID)
	case model.DirectionOutgoing:
		query += `from_user_id = ?`
		args = append(args, filter.UserID)
	default:
		query += `(from_user_id = ? OR to_user_id = ?)`
		args = append(args, filter.UserID, filter.UserID)
	}

	if filter.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(filter.Status))
	}
	query += ` ORDER BY created_at DESC, id DESC`

	return s.queryRequests(ctx, query, args...)
}

func (s *Store) ListCollaborationRequestsBetween(ctx context.Context, userA, userB int64) ([]*model.CollaborationRequest, error) {
	query := `
		SELECT ` + requestColumns + `
		FROM collaboration_requests
		WHERE (from_user_id = ? AND to_user_id = ?) OR (from_user_id = ? AND to_user_id = ?)
		ORDER BY created_at DESC, id DESC`
	return s.queryRequests(ctx, query, userA, userB, userB, userA)
}

func (s *Store) UpdateCollaborationRequestStatus(ctx context.Context, id int64, status model.RequestStatus) (*model.CollaborationRequest, error) {
	res, err := s.db.ExecContext(ctx, `UPDATE collaboration_requests SET status = ? WHERE id = ?`, string(status), id)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, repository.ErrRequestExists
		}
		return nil, fmt.Errorf("failed to update collaboration request: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, repository.ErrRequestNotFound
	}
	return s.GetCollaborationRequest(ctx, id)
}

func (s *Store) queryRequests(ctx context.Context, query string, args ...any) ([]*model.CollaborationRequest, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
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

func scanRequest(row scanner) (*model.CollaborationRequest, error) {
	var req model.CollaborationRequest
	var status string
	var createdAt int64

	if err := row.Scan(&req.ID, &req.FromUserID, &req.ToUserID, &status, &req.Message, &createdAt); err != nil {
		return nil, err
	}
	req.Status = model.RequestStatus(status)
	req.CreatedAt = fromNanos(createdAt)
	return &req, nil
}

// ---------------------------------------------------------------------------
// Messages
// ---------------------------------------------------------------------------

func (s *Store) CreateMessage(ctx context.Context, msg *model.Message) error {
	stamp(&msg.CreatedAt)

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO messages (from_user_id, to_user_id, content, created_at) VALUES (?, ?, ?, ?)`,
		msg.FromUserID, msg.ToUserID, msg.Content, toNanos(msg.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to create message: %w", err)
	}

	msg.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read message id: %w", err)
	}
	return nil
}

func (s *Store) GetMessage(ctx context.Context, id int64) (*model.Message, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, from_user_id, to_user_id, content, created_at FROM messages WHERE id = ?`, id)
	msg, err := scanMessage(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrMessageNotFound
		}
		return nil, fmt.Errorf("failed to get message: %w", err)
	}
	return msg, nil
}

func (s *Store) ListMessagesBetween(ctx context.Context, userA, userB int64) ([]*model.Message, error) {
	key := model.NewPairKey(userA, userB)

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, from_user_id, to_user_id, content, created_at
		FROM messages
		WHERE min(from_user_id, to_user_id) = ? AND max(from_user_id, to_user_id) = ?
		ORDER BY created_at ASC, id ASC`,
		key.Low, key.High,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	defer rows.Close()

	messages := []*model.Message{}
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan message: %w", err)
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating messages: %w", err)
	}
	return messages, nil
}

func scanMessage(row scanner) (*model.Message, error) {
	var msg model.Message
	var createdAt int64
	if err := row.Scan(&msg.ID, &msg.FromUserID, &msg.ToUserID, &msg.Content, &createdAt); err != nil {
		return nil, err
	}
	msg.CreatedAt = fromNanos(createdAt)
	return &msg, nil
}

// ---------------------------------------------------------------------------
// Connections
// ---------------------------------------------------------------------------

func (s *Store) CreateConnection(ctx context.Context, conn *model.Connection) error {
	stamp(&conn.CreatedAt)

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO connections (user_id_1, user_id_2, created_at) VALUES (?, ?, ?)`,
		conn.UserID1, conn.UserID2, toNanos(conn.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return repository.ErrConnectionExists
		}
		return fmt.Errorf("failed to create connection: %w", err)
	}

	conn.ID, err = res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read connection id: %w", err)
	}
	return nil
}

func (s *Store) GetConnection(ctx context.Context, id int64) (*model.Connection, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id, user_id_1, user_id_2, created_at FROM connections WHERE id = ?`, id)
	conn, err := scanConnection(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrConnectionNotFound
		}
		return nil, fmt.Errorf("failed to get connection: %w", err)
	}
	return conn, nil
}

func (s *Store) ListConnectionsForUser(ctx context.Context, userID int64) ([]*model.Connection, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id_1, user_id_2, created_at
		FROM connections
		WHERE user_id_1 = ? OR user_id_2 = ?
		ORDER BY id`,
		userID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list connections: %w", err)
	}
	defer rows.Close()

	connections := []*model.Connection{}
	for rows.Next() {
		conn, err := scanConnection(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan connection: %w", err)
		}
		connections = append(connections, conn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating connections: %w", err)
	}
	return connections, nil
}

func (s *Store) AreConnected(ctx context.Context, userA, userB int64) (bool, error) {
	key := model.NewPairKey(userA, userB)

	var exists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM connections
			WHERE min(user_id_1, user_id_2) = ? AND max(user_id_1, user_id_2) = ?
		)`,
		key.Low, key.High,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check connection: %w", err)
	}
	return exists, nil
}

func scanConnection(row scanner) (*model.Connection, error) {
	var conn model.Connection
	var createdAt int64
	if err := row.Scan(&conn.ID, &conn.UserID1, &conn.UserID2, &createdAt); err != nil {
		return nil, err
	}
	conn.CreatedAt = fromNanos(createdAt)
	return &conn, nil
}
