package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const cleanupEvery = 5 * time.Minute

// Memory is a per-key token bucket refilling Max tokens per Window with a
// burst of Max. State is process local.
type Memory struct {
	cfg      Config
	limit    rate.Limit
	limiters sync.Map // map[string]*rate.Limiter

	mu          sync.Mutex
	lastCleanup time.Time

	now func() time.Time
}

func NewMemory(cfg Config) *Memory {
	return &Memory{
		cfg:         cfg,
		limit:       rate.Limit(float64(cfg.Max) / cfg.Window.Seconds()),
		lastCleanup: time.Now(),
		now:         time.Now,
	}
}

func (m *Memory) Allow(_ context.Context, key string) (Result, error) {
	now := m.now()
	l := m.limiter(key, now)

	res := Result{Limit: m.cfg.Max}

	if l.AllowN(now, 1) {
		res.Allowed = true
		res.Remaining = int(l.TokensAt(now))
		return res, nil
	}

	// when the next token lands, without consuming it
	r := l.ReserveN(now, 1)
	delay := r.DelayFrom(now)
	r.CancelAt(now)

	res.RetryAfter = max(delay, time.Second)
	return res, nil
}

func (m *Memory) limiter(key string, now time.Time) *rate.Limiter {
	if l, ok := m.limiters.Load(key); ok {
		return l.(*rate.Limiter)
	}

	l := rate.NewLimiter(m.limit, m.cfg.Max)
	actual, _ := m.limiters.LoadOrStore(key, l)

	m.maybeCleanup(now)

	return actual.(*rate.Limiter)
}

// maybeCleanup drops buckets that have refilled completely, i.e. idle keys.
func (m *Memory) maybeCleanup(now time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if now.Sub(m.lastCleanup) < cleanupEvery {
		return
	}
	m.lastCleanup = now

	m.limiters.Range(func(key, value any) bool {
		if value.(*rate.Limiter).TokensAt(now) >= float64(m.cfg.Max) {
			m.limiters.Delete(key)
		}
		return true
	})
}
