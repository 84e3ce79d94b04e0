// AngelaMos | 2026
// ratelimit.go

package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	redis_rate "github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// RateLimitConfig drives the anonymous limiter mounted on the router.
// FailOpen lets traffic through when redis is unreachable; the
// in-process fallback still applies a per-key ceiling.
type RateLimitConfig struct {
	Limit    redis_rate.Limit
	KeyFunc  func(*http.Request) string
	FailOpen bool
}

type RateLimiter struct {
	limiter  *redis_rate.Limiter
	fallback *processLimiter
	config   RateLimitConfig
}

func NewRateLimiter(rdb *redis.Client, cfg RateLimitConfig) *RateLimiter {
	if cfg.KeyFunc == nil {
		cfg.KeyFunc = KeyByIP
	}

	return &RateLimiter{
		limiter:  redis_rate.NewLimiter(rdb),
		fallback: newProcessLimiter(),
		config:   cfg,
	}
}

func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := rl.config.KeyFunc(r)

		res, err := rl.allow(r.Context(), key)
		if err != nil {
			if rl.config.FailOpen {
				slog.Warn("rate limiter unavailable, failing open",
					"error", err,
					"key", key,
				)
				next.ServeHTTP(w, r)
				return
			}
			http.Error(w, "Service Unavailable", http.StatusServiceUnavailable)
			return
		}

		writeRateHeaders(w, res, rl.config.Limit)

		if res.Allowed == 0 {
			writeRateExceeded(w, res)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func (rl *RateLimiter) allow(
	ctx context.Context,
	key string,
) (*redis_rate.Result, error) {
	res, err := rl.limiter.Allow(ctx, key, rl.config.Limit)
	if err != nil {
		return rl.fallback.allow(key, rl.config.Limit)
	}
	return res, nil
}

// KeyByIP keys anonymous traffic by client address, trusting the
// rightmost proxy hop first.
func KeyByIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		hops := strings.Split(xff, ",")
		return "ratelimit:ip:" + strings.TrimSpace(hops[len(hops)-1])
	}

	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return "ratelimit:ip:" + xri
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}
	return "ratelimit:ip:" + host
}

type RoleLimit struct {
	RequestsPerMinute int
	BurstSize         int
}

// DefaultRoleLimits gives staff and admins more headroom than members;
// back-office dashboards poll harder than the member app.
var DefaultRoleLimits = map[string]RoleLimit{
	"member": {RequestsPerMinute: 120, BurstSize: 20},
	"staff":  {RequestsPerMinute: 600, BurstSize: 100},
	"admin":  {RequestsPerMinute: 1200, BurstSize: 200},
}

// RoleRateLimiter keys authenticated traffic by user id with a budget
// chosen by role. It must run after the authenticator; an unknown role
// gets the member budget.
func RoleRateLimiter(
	rdb *redis.Client,
	limits map[string]RoleLimit,
) func(http.Handler) http.Handler {
	limiter := redis_rate.NewLimiter(rdb)
	fallback := newProcessLimiter()

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role := GetUserRole(r.Context())
			budget, ok := limits[role]
			if !ok {
				budget = limits["member"]
			}

			limit := PerMinute(budget.RequestsPerMinute, budget.BurstSize)
			key := "ratelimit:user:" + GetUserID(r.Context())

			res, err := limiter.Allow(r.Context(), key, limit)
			if err != nil {
				//nolint:errcheck // the in-process fallback cannot fail
				res, _ = fallback.allow(key, limit)
			}

			writeRateHeaders(w, res, limit)

			if res.Allowed == 0 {
				writeRateExceeded(w, res)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func PerMinute(requests, burst int) redis_rate.Limit {
	return redis_rate.Limit{
		Rate:   requests,
		Burst:  burst,
		Period: time.Minute,
	}
}

func writeRateHeaders(
	w http.ResponseWriter,
	res *redis_rate.Result,
	limit redis_rate.Limit,
) {
	h := w.Header()
	h.Set("X-RateLimit-Limit", strconv.Itoa(limit.Rate))
	h.Set("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
	h.Set("X-RateLimit-Reset", strconv.FormatInt(
		time.Now().Add(res.ResetAfter).Unix(), 10))

	window := int(limit.Period.Seconds())
	h.Set("RateLimit-Policy", fmt.Sprintf(`%d;w=%d`, limit.Rate, window))
	h.Set("RateLimit", fmt.Sprintf(
		`%d;t=%d`, res.Remaining, int(res.ResetAfter.Seconds())))
}

func writeRateExceeded(w http.ResponseWriter, res *redis_rate.Result) {
	retryAfter := max(int(res.RetryAfter.Seconds()), 1)

	w.Header().Set("Retry-After", strconv.Itoa(retryAfter))
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusTooManyRequests)

	//nolint:errcheck // best-effort response write
	_ = json.NewEncoder(w).Encode(map[string]string{
		"error": fmt.Sprintf(
			"Rate limit exceeded. Retry after %d seconds.",
			retryAfter,
		),
	})
}

// processLimiter is the degraded mode used while redis is down: plain
// token buckets in memory, per process, reaped after idleness.
type processLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket
}

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

const (
	reapInterval = 5 * time.Minute
	bucketIdle   = 10 * time.Minute
)

func newProcessLimiter() *processLimiter {
	l := &processLimiter{buckets: make(map[string]*bucket)}
	go l.reap()
	return l
}

func (l *processLimiter) reap() {
	ticker := time.NewTicker(reapInterval)
	defer ticker.Stop()

	for range ticker.C {
		cutoff := time.Now().Add(-bucketIdle)

		l.mu.Lock()
		for key, b := range l.buckets {
			if b.lastSeen.Before(cutoff) {
				delete(l.buckets, key)
			}
		}
		l.mu.Unlock()
	}
}

func (l *processLimiter) allow(
	key string,
	limit redis_rate.Limit,
) (*redis_rate.Result, error) {
	perSecond := float64(limit.Rate) / limit.Period.Seconds()

	l.mu.Lock()
	b, ok := l.buckets[key]
	if !ok {
		b = &bucket{
			limiter: rate.NewLimiter(rate.Limit(perSecond), limit.Burst),
		}
		l.buckets[key] = b
	}
	b.lastSeen = time.Now()
	allowed := b.limiter.Allow()
	remaining := max(int(b.limiter.Tokens()), 0)
	l.mu.Unlock()

	refill := time.Duration(float64(time.Second) / perSecond)

	res := &redis_rate.Result{
		Limit:      limit,
		Remaining:  remaining,
		RetryAfter: -1,
		ResetAfter: refill,
	}
	if allowed {
		res.Allowed = 1
	} else {
		res.RetryAfter = refill
	}

	return res, nil
}
