package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/muhammadafham46/Business-Nexus/internal/auth"
	"github.com/muhammadafham46/Business-Nexus/internal/cache"
)

// RateLimiter checks token buckets. *cache.Cache satisfies it.
type RateLimiter interface {
	CheckUserRateLimit(ctx context.Context, userID int64, ratePerMinute, burst int) (*cache.RateLimitResult, error)
	CheckIPRateLimit(ctx context.Context, scope, ip string, ratePerMinute, burst int) (*cache.RateLimitResult, error)
}

// RateLimitConfig configures one limited route group. A nil Limiter
// disables limiting.
type RateLimitConfig struct {
	Logger    *slog.Logger
	Limiter   RateLimiter
	Scope     string // IP bucket namespace, e.g. "auth"
	PerMinute int
	Burst     int
}

// bucketFunc picks the bucket for r and checks it. ok=false skips limiting.
type bucketFunc func(r *http.Request) (res *cache.RateLimitResult, who slog.Attr, ok bool, err error)

// RateLimitUser limits each signed-in member. Must run after Session;
// anonymous requests pass through.
func RateLimitUser(cfg RateLimitConfig) func(http.Handler) http.Handler {
	return cfg.middleware("user", func(r *http.Request) (*cache.RateLimitResult, slog.Attr, bool, error) {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			return nil, slog.Attr{}, false, nil
		}
		res, err := cfg.Limiter.CheckUserRateLimit(r.Context(), userID, cfg.PerMinute, cfg.Burst)
		return res, slog.Int64("user_id", userID), true, err
	})
}

// RateLimitIP limits each client address within cfg.Scope. The login and
// registration routes use it.
func RateLimitIP(cfg RateLimitConfig) func(http.Handler) http.Handler {
	return cfg.middleware(cfg.Scope, func(r *http.Request) (*cache.RateLimitResult, slog.Attr, bool, error) {
		ip := getClientIP(r)
		res, err := cfg.Limiter.CheckIPRateLimit(r.Context(), cfg.Scope, ip, cfg.PerMinute, cfg.Burst)
		return res, slog.String("ip", ip), true, err
	})
}

func (cfg RateLimitConfig) middleware(kind string, check bucketFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if cfg.Limiter == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res, who, ok, err := check(r)
			if !ok {
				next.ServeHTTP(w, r)
				return
			}
			if err != nil {
				// Redis trouble must not lock members out.
				cfg.Logger.Error("rate limit check failed",
					slog.String("type", kind),
					who,
					slog.String("error", err.Error()),
				)
				next.ServeHTTP(w, r)
				return
			}

			setRateLimitHeaders(w, cfg.PerMinute, res.Remaining, res.ResetAt)
			if res.Allowed {
				next.ServeHTTP(w, r)
				return
			}

			cfg.Logger.Warn("rate limit exceeded",
				slog.String("type", kind),
				who,
				slog.String("endpoint", r.Method+" "+r.URL.Path),
				slog.Int64("retry_after_seconds", int64(res.RetryAfter.Seconds())),
				slog.String("request_id", GetRequestID(r.Context())),
			)
			writeRateLimitError(w, res.RetryAfter)
		})
	}
}

func setRateLimitHeaders(w http.ResponseWriter, limit int, remaining int64, resetAt time.Time) {
	if limit <= 0 {
		return
	}
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(limit))
	h.Set("X-RateLimit-Remaining", strconv.FormatInt(remaining, 10))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(resetAt.Unix(), 10))
}

func writeRateLimitError(w http.ResponseWriter, retryAfter time.Duration) {
	secs := max(int(retryAfter.Seconds()), 1)
	w.Header().Set("Retry-After", strconv.Itoa(secs))
	writeError(w, http.StatusTooManyRequests, "RATE_LIMITED",
		fmt.Sprintf("Rate limit exceeded. Retry after %d seconds.", secs))
}

// getClientIP prefers the first X-Forwarded-For hop, then X-Real-IP, then
// the socket peer.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(first)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
