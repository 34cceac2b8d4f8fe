package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/muhammadafham46/Business-Nexus/internal/auth"
	"github.com/muhammadafham46/Business-Nexus/internal/events"
	"github.com/muhammadafham46/Business-Nexus/internal/metrics"
	"github.com/muhammadafham46/Business-Nexus/internal/model"
	"github.com/muhammadafham46/Business-Nexus/internal/repository"
	"github.com/muhammadafham46/Business-Nexus/internal/session"
)

// AuthService handles registration, login and sessions.
type AuthService struct {
	store    repository.UserStore
	sessions *session.Manager
	hasher   *auth.Hasher
	cache    UserCache
	events   events.Publisher
	metrics  metrics.Recorder
	logger   *slog.Logger
}

// NewAuthService creates a new AuthService.
func NewAuthService(deps Deps, sessions *session.Manager) *AuthService {
	deps = deps.withDefaults()
	return &AuthService{
		store:    deps.Store,
		sessions: sessions,
		hasher:   deps.Hasher,
		cache:    deps.Cache,
		events:   deps.Events,
		metrics:  deps.Metrics,
		logger:   deps.Logger.With("component", "service.auth"),
	}
}

// RegisterInput defines input for creating an account.
type RegisterInput struct {
	Email           string
	Password        string
	ConfirmPassword string
	FirstName       string
	LastName        string
	Role            string
	Profile         model.UserUpdate // optional fields; names and role are ignored here
}

// AuthResult is a signed-in user plus the plaintext session token.
type AuthResult struct {
	User    *model.User
	Token   string
	Session *model.Session
}

// Register creates a user and starts a session for it.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*AuthResult, error) {
	email := NormalizeEmail(input.Email)
	if err := ValidateEmail(email); err != nil {
		return nil, err
	}
	if err := ValidatePassword(input.Password); err != nil {
		return nil, err
	}
	if input.Password != input.ConfirmPassword {
		return nil, ErrPasswordMismatch
	}
	if err := validateName("firstName", input.FirstName); err != nil {
		return nil, err
	}
	if err := validateName("lastName", input.LastName); err != nil {
		return nil, err
	}
	role, err := ValidateRole(input.Role)
	if err != nil {
		return nil, err
	}

	profile := input.Profile
	profile.FirstName = nil
	profile.LastName = nil
	if err := ValidateProfile(profile); err != nil {
		return nil, err
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Role:         role,
		Industries:   []string{},
	}
	profile.Apply(user)

	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repository.ErrEmailExists) {
			return nil, ErrEmailExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// The id may have been looked up before it existed
	if s.cache != nil {
		_ = s.cache.DeleteUser(ctx, user.ID)
	}

	s.metrics.IncUserRegistered()
	s.events.Emit(events.New(events.TypeUserRegistered, user.ID, 0, map[string]string{
		"role": string(user.Role),
	}))
	s.logger.Info("user registered", "user_id", user.ID, "role", user.Role)

	return s.startSession(ctx, user)
}

// Login verifies credentials and starts a session.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	email = NormalizeEmail(email)
	if email == "" || password == "" {
		s.metrics.IncLogin(false)
		return nil, ErrInvalidCredentials
	}

	user, err := s.store.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			// Same cost as a real verify so unknown emails are not observable
			s.hasher.VerifyDummy(password)
			s.metrics.IncLogin(false)
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to load user: %w", err)
	}

	ok, err := s.hasher.Verify(password, user.PasswordHash)
	if err != nil {
		s.logger.Error("stored password hash unreadable", "user_id", user.ID, "error", err)
		s.metrics.IncLogin(false)
		return nil, ErrInvalidCredentials
	}
	if !ok {
		s.metrics.IncLogin(false)
		return nil, ErrInvalidCredentials
	}

	s.metrics.IncLogin(true)
	return s.startSession(ctx, user)
}

// Logout ends the session behind token.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	return s.sessions.End(ctx, token)
}

// Authenticate resolves a session token to its session.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*model.Session, error) {
	return s.sessions.Resolve(ctx, token)
}

// SessionTTL returns the lifetime of new sessions.
func (s *AuthService) SessionTTL() time.Duration {
	return s.sessions.TTL()
}

func (s *AuthService) startSession(ctx context.Context, user *model.User) (*AuthResult, error) {
	token, sess, err := s.sessions.Start(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Debug("session started",
		"user_id", user.ID,
		"session_id", sess.ID,
	)

	return &AuthResult{User: user, Token: token, Session: sess}, nil
}
