package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/lib/pq"

	"github.com/muhammadafham46/Business-Nexus/internal/model"
)

const userColumns = `id, email, password_hash, first_name, last_name, role, avatar, bio, company,
	title, location, website, linkedin, industries, investment_range, funding_need, portfolio_size, created_at`

// CreateUser inserts a new user into the database.
func (r *Repository) CreateUser(ctx context.Context, user *model.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	user.Industries = NormalizeIndustries(user.Industries)

	query := `
		INSERT INTO users (email, password_hash, first_name, last_name, role, avatar, bio, company,
			title, location, website, linkedin, industries, investment_range, funding_need, portfolio_size, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING id, created_at
	`

	err := r.pool.QueryRow(ctx, query,
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
		pq.Array(user.Industries),
		model.NullIfEmpty(user.InvestmentRange),
		model.NullIfEmpty(user.FundingNeed),
		user.PortfolioSize,
		user.CreatedAt,
	).Scan(&user.ID, &user.CreatedAt)

	if err != nil {
		if constraint, ok := uniqueViolation(err); ok && constraint == constraintUsersEmail {
			return ErrEmailExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

// GetUser retrieves a user by ID.
func (r *Repository) GetUser(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := r.scanUser(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by ID: %w", err)
	}

	return user, nil
}

// GetUserByEmail retrieves a user by their email address.
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`

	user, err := r.scanUser(r.pool.QueryRow(ctx, query, email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}

	return user, nil
}

// UpdateUser applies a partial profile update.
func (r *Repository) UpdateUser(ctx context.Context, id int64, upd model.UserUpdate) (*model.User, error) {
	if upd.IsEmpty() {
		return r.GetUser(ctx, id)
	}

	args := []any{id}
	var sets []string
	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
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
		set("industries", pq.Array(NormalizeIndustries(*upd.Industries)))
	}
	if upd.PortfolioSize != nil {
		set("portfolio_size", *upd.PortfolioSize)
	} else if upd.ClearPortfolioSize {
		set("portfolio_size", nil)
	}

	query := `UPDATE users SET ` + strings.Join(sets, ", ") + ` WHERE id = $1 RETURNING ` + userColumns

	user, err := r.scanUser(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

// ListUsers returns every user ordered by ID.
func (r *Repository) ListUsers(ctx context.Context) ([]*model.User, error) {
	return r.queryUsers(ctx, `SELECT `+userColumns+` FROM users ORDER BY id`)
}

// ListUsersByRole returns users with the given role ordered by ID.
func (r *Repository) ListUsersByRole(ctx context.Context, role model.Role) ([]*model.User, error) {
	return r.queryUsers(ctx, `SELECT `+userColumns+` FROM users WHERE role = $1 ORDER BY id`, string(role))
}

// ListUsersByIDs returns the users among ids ordered by ID.
func (r *Repository) ListUsersByIDs(ctx context.Context, ids []int64) ([]*model.User, error) {
	if len(ids) == 0 {
		return []*model.User{}, nil
	}
	return r.queryUsers(ctx, `SELECT `+userColumns+` FROM users WHERE id = ANY($1) ORDER BY id`, ids)
}

func (r *Repository) queryUsers(ctx context.Context, query string, args ...any) ([]*model.User, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	users := []*model.User{}
	for rows.Next() {
		user, err := r.scanUser(rows)
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

// scanUser scans a single user row; works for both pgx.Row and pgx.Rows.
func (r *Repository) scanUser(row pgx.Row) (*model.User, error) {
	var user model.User
	var role string
	var industries []string

	err := row.Scan(
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
		pq.Array(&industries),
		&user.InvestmentRange,
		&user.FundingNeed,
		&user.PortfolioSize,
		&user.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	user.Role = model.Role(role)
	user.Industries = NormalizeIndustries(industries)
	return &user, nil
}
