package middleware

import (
	"context"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"orderdesk-backend/config"
	"orderdesk-backend/pkg/utils"

	"golang.org/x/time/rate"
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter throttles each caller separately. A request carrying a valid
// token is charged to its admin, anything else to the client address, so
// several operators behind one proxy do not share a quota.
type RateLimiter struct {
	mu      sync.Mutex
	buckets map[string]*bucket

	limit     rate.Limit
	burst     int
	sweep     time.Duration
	idleAfter time.Duration

	cancel context.CancelFunc
	done   chan struct{}
}

// NewRateLimiter starts a sweeper that forgets callers idle for idleAfter.
// It stops when ctx ends or Shutdown is called.
func NewRateLimiter(ctx context.Context, limit rate.Limit, burst int, sweep, idleAfter time.Duration) *RateLimiter {
	ctx, cancel := context.WithCancel(ctx)
	rl := &RateLimiter{
		buckets:   make(map[string]*bucket),
		limit:     limit,
		burst:     burst,
		sweep:     sweep,
		idleAfter: idleAfter,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
	go rl.sweepLoop(ctx)
	return rl
}

// NewRateLimiterFromConfig uses RATE_LIMIT_RPS and RATE_LIMIT_BURST.
func NewRateLimiterFromConfig(ctx context.Context, cfg *config.Config) *RateLimiter {
	return NewRateLimiter(ctx, rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst, time.Minute, 10*time.Minute)
}

func (rl *RateLimiter) Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			res := rl.limiterFor(callerKey(r)).Reserve()
			if delay := res.Delay(); delay > 0 {
				res.Cancel()
				w.Header().Set("Retry-After", retryAfter(delay))
				utils.WriteError(w, http.StatusTooManyRequests, "Too Many Requests")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// callerKey prefers the subject of a validly signed token. A missing, expired
// or forged token falls back to the client address. AuthMiddleware parses
// the token again for admin routes.
func callerKey(r *http.Request) string {
	if claims, err := utils.ExtractClaims(r); err == nil && claims.UserID != "" {
		return "admin:" + claims.UserID
	}
	return "ip:" + getClientIP(r)
}

func retryAfter(d time.Duration) string {
	if d > time.Hour {
		d = time.Hour
	}
	return strconv.Itoa(int(math.Ceil(d.Seconds())))
}

func (rl *RateLimiter) limiterFor(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	b, ok := rl.buckets[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.buckets[key] = b
	}
	b.lastSeen = time.Now()
	return b.limiter
}

func (rl *RateLimiter) sweepLoop(ctx context.Context) {
	defer close(rl.done)
	ticker := time.NewTicker(rl.sweep)
	defer ticker.Stop()

	for {
		select {
		case now := <-ticker.C:
			rl.forgetIdle(now)
		case <-ctx.Done():
			return
		}
	}
}

func (rl *RateLimiter) forgetIdle(now time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	for key, b := range rl.buckets {
		if now.Sub(b.lastSeen) > rl.idleAfter {
			delete(rl.buckets, key)
		}
	}
}

// Shutdown stops the sweeper and waits for it to exit.
func (rl *RateLimiter) Shutdown() {
	rl.cancel()
	<-rl.done
}

// tracked reports how many callers currently hold a bucket.
func (rl *RateLimiter) tracked() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.buckets)
}
