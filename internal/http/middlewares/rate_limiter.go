package middlewares

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/cache"
	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/observability"
	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/ratelimit"
	"github.com/gin-gonic/gin"
)

type RateLimiterOptions struct {
	Namespace string
	Window    time.Duration
	// Ban is the number of rejected requests within a window after which the
	// key is blocked for a window. Zero disables banning.
	Ban int
}

type RateLimiter struct {
	limiter ratelimit.Limiter
	opts    RateLimiterOptions
	log     *slog.Logger
	prom    *observability.Prom

	strikes *cache.Cache
	bans    *cache.Cache

	mu         sync.Mutex
	sweepEvery time.Duration
	lastSweep  time.Time
	now        func() time.Time
}

func NewRateLimiter(limiter ratelimit.Limiter, opts RateLimiterOptions, log *slog.Logger, prom *observability.Prom) *RateLimiter {
	sweepEvery := opts.Window
	if sweepEvery <= 0 {
		sweepEvery = 5 * time.Second
	}

	return &RateLimiter{
		limiter:    limiter,
		opts:       opts,
		log:        log,
		prom:       prom,
		strikes:    cache.New(opts.Window),
		bans:       cache.New(opts.Window),
		sweepEvery: sweepEvery,
		lastSweep:  time.Now(),
		now:        time.Now,
	}
}

// Sweep drops expired strikes and bans and reports how many were removed.
func (rl *RateLimiter) Sweep() int {
	return rl.strikes.Sweep() + rl.bans.Sweep()
}

// maybeSweep runs Sweep at most once per window so keys that never return
// do not pile up.
func (rl *RateLimiter) maybeSweep() {
	now := rl.now()

	rl.mu.Lock()
	if now.Sub(rl.lastSweep) < rl.sweepEvery {
		rl.mu.Unlock()
		return
	}
	rl.lastSweep = now
	rl.mu.Unlock()

	if n := rl.Sweep(); n > 0 {
		rl.log.Debug("rate limit state swept", "removed", n, "strikes", rl.strikes.Len(), "bans", rl.bans.Len())
	}
}

// RateLimiterMiddleware enforces the limit for a derived key. When the
// backing store fails the request is let through.
func (rl *RateLimiter) RateLimiterMiddleware(keyFn func(*gin.Context) string) gin.HandlerFunc {
	return func(c *gin.Context) {
		rl.maybeSweep()

		key := keyFn(c)

		if key == "" {
			// fallback to IP if key cannot be derived
			key = clientIP(c)
		}
		key = rl.opts.Namespace + key

		if ttl, banned := rl.bans.TTL(key); banned {
			rl.prom.RateLimit("banned")
			c.Header("Retry-After", retryAfterSeconds(ttl))
			abort(c, http.StatusForbidden, "access_blocked", "Access blocked. Too many requests.")
			return
		}

		res, err := rl.limiter.Allow(c.Request.Context(), key)
		if err != nil {
			rl.prom.RateLimit("skipped")
			rl.log.ErrorContext(c.Request.Context(), "rate limit store unavailable, allowing request", "err", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(res.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))

		if res.Allowed {
			c.Next()
			return
		}

		if rl.opts.Ban > 0 && rl.strikes.Incr(key) >= rl.opts.Ban {
			rl.strikes.Delete(key)
			rl.bans.Set(key, true)
			rl.prom.RateLimit("banned")
			rl.log.ErrorContext(c.Request.Context(), "rate limit ban applied", "key", key, "route", c.FullPath())

			c.Header("Retry-After", retryAfterSeconds(rl.opts.Window))
			abort(c, http.StatusForbidden, "access_blocked", "Access blocked. Too many requests.")
			return
		}

		rl.prom.RateLimit("limited")
		rl.log.WarnContext(c.Request.Context(), "rate limit exceeded",
			"key", key,
			"route", c.FullPath(),
			"retry_after", res.RetryAfter.String(),
		)

		c.Header("Retry-After", retryAfterSeconds(res.RetryAfter))
		abort(c, http.StatusTooManyRequests, "rate_limited", "Too many requests. Please try again shortly.")
	}
}

// for unauthenticated endpoints: rate limit by IP
func KeyByIP(c *gin.Context) string {
	return clientIP(c)
}

func clientIP(c *gin.Context) string {
	// gin's ClientIP respects X-Forwarded-For / X-Real-IP when proxies are trusted
	ip := c.ClientIP()

	host, _, err := net.SplitHostPort(ip)

	if err == nil && host != "" {
		return host
	}

	return ip
}

func retryAfterSeconds(d time.Duration) string {
	secs := int(math.Ceil(d.Seconds()))
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
