package housekeeping

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/observability"
)

// Purger deletes refresh token rows that can no longer be used.
type Purger interface {
	PurgeStale(ctx context.Context, now time.Time) (int64, error)
}

type Config struct {
	Interval time.Duration
	// Timeout bounds a single purge.
	Timeout time.Duration
}

type Runner struct {
	cfg    Config
	purger Purger
	log    *slog.Logger
	prom   *observability.Prom

	ready atomic.Bool
	now   func() time.Time
}

func New(cfg Config, purger Purger, log *slog.Logger, prom *observability.Prom) *Runner {
	if cfg.Interval <= 0 {
		cfg.Interval = time.Hour
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}

	return &Runner{
		cfg:    cfg,
		purger: purger,
		log:    log,
		prom:   prom,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// Run purges once immediately and then on every tick until ctx is done.
func (r *Runner) Run(ctx context.Context) error {
	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	r.ready.Store(true)
	defer r.ready.Store(false)

	r.log.Info("housekeeping started", "interval", r.cfg.Interval.String())
	_, _ = r.RunOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			r.log.Info("housekeeping received shutdown signal")
			return nil

		case <-ticker.C:
			_, _ = r.RunOnce(ctx)
		}
	}
}

// RunOnce performs a single purge and reports how many rows went away.
func (r *Runner) RunOnce(ctx context.Context) (int64, error) {
	cctx, cancel := context.WithTimeout(ctx, r.cfg.Timeout)
	defer cancel()

	n, err := r.purger.PurgeStale(cctx, r.now())
	if err != nil {
		// next tick retries
		r.log.ErrorContext(ctx, "purge refresh tokens failed", "err", err)
		return 0, err
	}

	r.prom.Purged(n)
	if n > 0 {
		r.log.InfoContext(ctx, "purged refresh tokens", "count", n)
	}

	return n, nil
}

// Ready reports whether the loop is running.
func (r *Runner) Ready() bool {
	return r.ready.Load()
}
