package factory

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/muhammadafham46/Business-Nexus/internal/config"
	"github.com/muhammadafham46/Business-Nexus/internal/repository/memory"
	"github.com/muhammadafham46/Business-Nexus/internal/repository/sqlite"
	"github.com/muhammadafham46/Business-Nexus/internal/session"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewStore(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		t.Parallel()
		store, err := NewStore(ctx, &config.Config{StorageDriver: config.DriverMemory}, discardLogger())
		if err != nil {
			t.Fatalf("NewStore failed: %v", err)
		}
		if _, ok := store.(*memory.Store); !ok {
			t.Errorf("expected *memory.Store, got %T", store)
		}
	})

	t.Run("sqlite", func(t *testing.T) {
		t.Parallel()
		cfg := &config.Config{
			StorageDriver: config.DriverSQLite,
			SQLitePath:    filepath.Join(t.TempDir(), "nexus.db"),
		}
		store, err := NewStore(ctx, cfg, discardLogger())
		if err != nil {
			t.Fatalf("NewStore failed: %v", err)
		}
		defer store.Close()
		if _, ok := store.(*sqlite.Store); !ok {
			t.Errorf("expected *sqlite.Store, got %T", store)
		}
		if err := store.Ping(ctx); err != nil {
			t.Errorf("Ping failed: %v", err)
		}
	})

	t.Run("unknown", func(t *testing.T) {
		t.Parallel()
		if _, err := NewStore(ctx, &config.Config{StorageDriver: "mongo"}, discardLogger()); err == nil {
			t.Error("expected error for unknown driver")
		}
	})
}

func TestNewSessionStore_FallsBackToMemory(t *testing.T) {
	t.Parallel()

	store := NewSessionStore(nil)
	if _, ok := store.(*session.MemoryStore); !ok {
		t.Errorf("expected *session.MemoryStore, got %T", store)
	}
}
