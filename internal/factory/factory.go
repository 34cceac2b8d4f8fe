// Package factory builds the storage backends selected by configuration.
package factory

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/muhammadafham46/Business-Nexus/internal/cache"
	"github.com/muhammadafham46/Business-Nexus/internal/config"
	"github.com/muhammadafham46/Business-Nexus/internal/repository"
	"github.com/muhammadafham46/Business-Nexus/internal/repository/memory"
	"github.com/muhammadafham46/Business-Nexus/internal/repository/sqlite"
	"github.com/muhammadafham46/Business-Nexus/internal/session"
)

// NewStore opens the Store named by cfg.StorageDriver. Postgres is migrated
// to the latest schema before it is returned; SQLite creates its schema on
// open.
func NewStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (repository.Store, error) {
	switch cfg.StorageDriver {
	case config.DriverMemory:
		logger.Warn("using in-memory store; data is lost on restart")
		return memory.New(), nil

	case config.DriverSQLite:
		store, err := sqlite.New(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite store: %w", err)
		}
		logger.Info("opened sqlite store", "path", cfg.SQLitePath)
		return store, nil

	case config.DriverPostgres:
		repo, err := repository.New(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		applied, err := repo.Migrate(ctx)
		if err != nil {
			repo.Close()
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		logger.Info("connected to postgres", "migrations_applied", len(applied))
		return repo, nil

	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
	}
}

// NewSessionStore keeps sessions in Redis when c is non-nil and in process
// memory otherwise.
func NewSessionStore(c *cache.Cache) session.Store {
	if c == nil {
		return session.NewMemoryStore()
	}
	return cache.NewSessionStore(c)
}
