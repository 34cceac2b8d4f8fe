package handler

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/muhammadafham46/Business-Nexus/internal/config"
	"github.com/muhammadafham46/Business-Nexus/internal/metrics"
	"github.com/muhammadafham46/Business-Nexus/internal/middleware"
	"github.com/muhammadafham46/Business-Nexus/internal/service"
)

// Deps are the collaborators NewRouter wires together. Limiter, Cache and
// MetricsHandler are optional; leave them nil (not a typed nil) to disable.
type Deps struct {
	Config         *config.Config
	Logger         *slog.Logger
	Services       *service.Services
	Store          HealthChecker
	Cache          HealthChecker
	Limiter        middleware.RateLimiter
	Metrics        metrics.Recorder
	MetricsHandler http.Handler
}

// NewRouter configures the chi router with all routes and middleware.
func NewRouter(d Deps) *chi.Mux {
	cfg := d.Config
	logger := d.Logger
	recorder := d.Metrics
	if recorder == nil {
		recorder = metrics.NewNoop()
	}

	r := chi.NewRouter()

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = cfg.GetCORSAllowedOrigins()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.Security(middleware.SecurityConfig{IsDevelopment: cfg.IsDevelopment()}))
	r.Use(middleware.CORS(corsCfg))
	r.Use(middleware.MaxBodySize(cfg.MaxRequestBodySize))
	r.Use(middleware.Metrics(recorder))
	r.Use(middleware.Session(middleware.SessionConfig{
		Logger:     logger,
		Resolver:   d.Services.Auth,
		CookieName: cfg.SessionCookieName,
	}))

	// Health endpoints (no auth required)
	health := NewHealthHandler(d.Store, d.Cache)
	r.Get("/healthz", health.Healthz)
	r.Get("/readyz", health.Readyz)

	if d.MetricsHandler != nil {
		r.Method(http.MethodGet, "/metrics", d.MetricsHandler)
	}

	authHandler := NewAuthHandler(d.Services.Auth, d.Services.Users, CookieConfig{
		Name:   cfg.SessionCookieName,
		Secure: cfg.SecureCookies(),
	}, logger)
	userHandler := NewUserHandler(d.Services.Users, logger)
	collabHandler := NewCollaborationHandler(d.Services.Collaboration, d.Services.Users, logger)
	messageHandler := NewMessageHandler(d.Services.Messages, d.Services.Users, logger)
	connHandler := NewConnectionHandler(d.Services.Connections, d.Services.Users, logger)
	activityHandler := NewActivityHandler(d.Services.Activity, d.Services.Users, logger)

	authLimit := middleware.RateLimitIP(middleware.RateLimitConfig{
		Logger:    logger,
		Limiter:   d.Limiter,
		Scope:     "auth",
		PerMinute: cfg.AuthRateLimitPerMinute,
		Burst:     cfg.AuthRateLimitBurst,
	})
	apiLimit := middleware.RateLimitUser(middleware.RateLimitConfig{
		Logger:    logger,
		Limiter:   d.Limiter,
		PerMinute: cfg.APIRateLimitPerMinute,
		Burst:     cfg.APIRateLimitBurst,
	})

	r.Route("/api", func(r chi.Router) {
		// Public auth routes, limited per client IP
		r.Group(func(r chi.Router) {
			r.Use(authLimit)
			r.Post("/auth/register", authHandler.Register)
			r.Post("/auth/login", authHandler.Login)
		})

		// Everything else needs a session
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireSession)
			r.Use(apiLimit)

			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/auth/me", authHandler.Me)

			r.Route("/users", func(r chi.Router) {
				r.Get("/", userHandler.List)
				r.Get("/{id}", userHandler.Get)
				r.With(middleware.RequireSelf("id")).Put("/{id}", userHandler.Update)
				r.With(middleware.RequireSelf("id")).Patch("/{id}", userHandler.Update)
			})

			r.Route("/collaboration-requests", func(r chi.Router) {
				r.Get("/", collabHandler.List)
				r.Post("/", collabHandler.Create)
				r.Get("/with/{otherUserId}", collabHandler.Between)
				r.Put("/{id}", collabHandler.UpdateStatus)
			})

			r.Get("/messages/{otherUserId}", messageHandler.Conversation)
			r.Post("/messages", messageHandler.Send)

			r.Route("/connections", func(r chi.Router) {
				r.Get("/", connHandler.List)
				r.Post("/", connHandler.Create)
				r.Get("/check/{otherUserId}", connHandler.Check)
			})

			r.Get("/activity", activityHandler.List)
		})
	})

	// 404 and 405 handlers
	r.NotFound(NotFound)
	r.MethodNotAllowed(MethodNotAllowed)

	return r
}
