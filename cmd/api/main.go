// Package main is the entrypoint for the Business Nexus API server.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/muhammadafham46/Business-Nexus/internal/activity"
	"github.com/muhammadafham46/Business-Nexus/internal/auth"
	"github.com/muhammadafham46/Business-Nexus/internal/cache"
	"github.com/muhammadafham46/Business-Nexus/internal/config"
	"github.com/muhammadafham46/Business-Nexus/internal/events"
	"github.com/muhammadafham46/Business-Nexus/internal/factory"
	"github.com/muhammadafham46/Business-Nexus/internal/handler"
	"github.com/muhammadafham46/Business-Nexus/internal/metrics"
	"github.com/muhammadafham46/Business-Nexus/internal/repository"
	"github.com/muhammadafham46/Business-Nexus/internal/seed"
	"github.com/muhammadafham46/Business-Nexus/internal/server"
	"github.com/muhammadafham46/Business-Nexus/internal/service"
	"github.com/muhammadafham46/Business-Nexus/internal/session"
)

func main() {
	ctx := context.Background()

	config.LoadDotEnv()
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	// Initialize store
	store, err := factory.NewStore(ctx, cfg, logger)
	if err != nil {
		logger.Error(
			"failed to open store",
			slog.String("driver", cfg.StorageDriver),
			slog.String("error", sanitizeError(err, cfg.DatabaseURL)),
			slog.String("database_url", redactURL(cfg.DatabaseURL)),
		)
		os.Exit(1)
	}

	// Initialize cache (optional)
	var cacheClient *cache.Cache
	if cfg.RedisURL != "" {
		cacheClient, err = cache.New(ctx, cfg.RedisURL)
		if err != nil {
			logger.Error(
				"failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			_ = store.Close()
			os.Exit(1)
		}
		logger.Info("connected to Redis")
	} else {
		logger.Warn("REDIS_URL not set; sessions and activity feeds kept in memory, rate limiting disabled")
	}

	// Metrics
	var recorder metrics.Recorder = metrics.NewNoop()
	var prom *metrics.PrometheusRecorder
	if cfg.MetricsEnabled {
		prom = metrics.NewPrometheus()
		recorder = prom
	}

	// Activity events and feeds
	var publisher events.Publisher
	var feed activity.Feed
	var redisPublisher *events.RedisPublisher
	var worker *activity.Worker
	if cacheClient != nil {
		redisPublisher = events.NewRedisPublisher(cacheClient.Client(), logger)
		redisFeed := activity.NewRedisFeed(cacheClient.Client())
		publisher, feed = redisPublisher, redisFeed
		if cfg.ActivityWorkerEnabled {
			worker = activity.NewWorker(cacheClient.Client(), redisFeed, logger, activity.NewConsumerID(), recorder)
		}
	} else {
		memFeed := activity.NewMemoryFeed(logger)
		publisher, feed = memFeed, memFeed
	}

	// Initialize services
	deps := service.Deps{
		Store:   store,
		Hasher:  auth.NewHasher(auth.DefaultParams),
		Events:  publisher,
		Feed:    feed,
		Metrics: recorder,
		Logger:  logger,
	}
	if cacheClient != nil {
		deps.Cache = cacheClient
	}
	sessions := session.NewManager(factory.NewSessionStore(cacheClient), cfg.SessionTTL)
	svcs := service.New(deps, sessions)

	if cfg.SeedOnStart {
		seedStore(ctx, store, deps.Hasher, logger)
	}

	// Setup router
	routerDeps := handler.Deps{
		Config:   cfg,
		Logger:   logger,
		Services: svcs,
		Store:    store,
		Metrics:  recorder,
	}
	if cacheClient != nil {
		routerDeps.Cache = cacheClient
		routerDeps.Limiter = cacheClient
	}
	if prom != nil {
		routerDeps.MetricsHandler = prom.Handler()
	}
	r := handler.NewRouter(routerDeps)

	// Create and run server
	srv := server.New(r, server.Options{
		Port:            cfg.AppPort,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	// Shutdown runs LIFO: the feed worker stops, events drain, then Redis, then the store
	srv.OnShutdown("store", func(context.Context) error { return store.Close() })
	if cacheClient != nil {
		srv.OnShutdown("redis", func(context.Context) error { return cacheClient.Close() })
	}
	if redisPublisher != nil {
		srv.OnShutdown("events", func(ctx context.Context) error {
			done := make(chan struct{})
			go func() {
				redisPublisher.Wait()
				close(done)
			}()
			select {
			case <-done:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}

	if worker != nil {
		workerCtx, stopWorker := context.WithCancel(ctx)
		defer stopWorker()
		go func() {
			if err := worker.Run(workerCtx); err != nil {
				logger.Error("activity worker stopped", "error", err)
			}
		}()
		srv.OnShutdown("activity-worker", worker.Shutdown)
	}

	logger.Info("starting server",
		"port", cfg.AppPort,
		"env", cfg.AppEnv,
		"storage", cfg.StorageDriver,
		"metrics", cfg.MetricsEnabled,
		"activity_worker", worker != nil,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// seedStore loads the sample accounts. An already seeded store is not an error.
func seedStore(ctx context.Context, store repository.Store, hasher *auth.Hasher, logger *slog.Logger) {
	res, err := seed.Run(ctx, store, hasher)
	switch {
	case errors.Is(err, seed.ErrAlreadySeeded):
		logger.Info("seed skipped; sample data already present")
	case err != nil:
		logger.Error("seed failed", "error", err)
	default:
		logger.Info("seeded sample data",
			"users", len(res.Users),
			"requests", len(res.Requests),
			"messages", len(res.Messages),
		)
	}
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	level := parseLogLevel(cfg.LogLevel)

	opts := &slog.HandlerOptions{
		Level: level,
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h).With("service", "business-nexus")
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

var passwordPattern = regexp.MustCompile(`(?i)password=[^\s]+`)

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		username := parsed.User.Username()
		if username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return passwordPattern.ReplaceAllString(msg, "password=redacted")
}
