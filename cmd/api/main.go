package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/auth"
	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/config"
	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/housekeeping"
	httpx "github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/http"
	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/observability"
	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/ratelimit"
	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/redisclient"
	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/repo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

func main() {
	// Load the config set up
	cfg := config.Load()

	log, closeLog, err := observability.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = closeLog() }()

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	ctx, stopBackground := context.WithCancel(context.Background())
	defer stopBackground()

	shutdownTracer, err := observability.InitTracer(ctx, cfg.AppName, cfg.AppVersion, cfg.OTelEndpoint)
	if err != nil {
		log.Error("tracer init failed", "err", err)
		os.Exit(1)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	prom := observability.NewProm(reg)

	store, err := repo.Open(ctx, cfg, prom, log)
	if err != nil {
		log.Error("database init failed", "err", err)
		os.Exit(1)
	}
	defer store.Close()

	tokens, err := auth.NewManager(auth.Config{
		AccessSecret:     cfg.JWTSecret,
		AccessExpiresIn:  cfg.JWTExpiresIn,
		RefreshSecret:    cfg.RefreshSecret,
		RefreshExpiresIn: cfg.RefreshExpiresIn,
	})
	if err != nil {
		log.Error("token manager init failed", "err", err)
		os.Exit(1)
	}

	limiter, closeLimiter := newLimiter(ctx, cfg, log)
	defer closeLimiter()

	// in-process purge of dead refresh tokens
	hk := housekeeping.New(housekeeping.Config{Interval: cfg.HousekeepingInterval}, store.RefreshTokens, log, prom)
	go func() {
		if err := hk.Run(ctx); err != nil {
			log.Error("housekeeping stopped", "err", err)
		}
	}()

	router := httpx.NewRouter(httpx.Deps{
		Config:        cfg,
		Log:           log,
		Users:         store.Users,
		RefreshTokens: store.RefreshTokens,
		Tokens:        tokens,
		Limiter:       limiter,
		Prom:          prom,
		Gatherer:      reg,
		Ping:          store.Ping,
	})

	// server set up
	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info("server starting", "addr", srv.Addr, "env", cfg.Env, "db", cfg.DBDriver)
		err := srv.ListenAndServe()

		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server failed", "err", err)
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop
	log.Info("server shutting down")

	stopBackground()

	shutdownCh := make(chan struct{})

	go func() {
		defer close(shutdownCh)

		ctx, cancel := config.WithTimeout(10 * time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error("graceful shutdown failed", "err", err)
		}

		if err := shutdownTracer(ctx); err != nil {
			log.Error("tracer shutdown failed", "err", err)
		}
	}()

	select {
	case <-shutdownCh:
		log.Info("shutdown complete")

	case <-time.After(12 * time.Second):
		log.Error("shutdown timed out")
	}
}

// newLimiter returns nil when rate limiting is off. A redis store that cannot
// be reached at startup falls back to the in-memory limiter.
func newLimiter(ctx context.Context, cfg config.Config, log *slog.Logger) (ratelimit.Limiter, func()) {
	noop := func() {}

	if !cfg.RateLimit.Enabled {
		log.Info("rate limiting disabled")
		return nil, noop
	}

	rlCfg := ratelimit.Config{Max: cfg.RateLimit.Max, Window: cfg.RateLimit.Window}

	if cfg.RateLimit.Store != "redis" {
		return ratelimit.NewMemory(rlCfg), noop
	}

	rdb := redisclient.New(redisclient.Config{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx); err != nil {
		log.Error("redis unavailable, using in-memory rate limiter", "addr", cfg.Redis.Addr, "err", err)
		_ = rdb.Close()
		return ratelimit.NewMemory(rlCfg), noop
	}

	log.Info("rate limiting backed by redis", "addr", cfg.Redis.Addr)

	return ratelimit.NewRedis(rdb.Raw(), rlCfg), func() { _ = rdb.Close() }
}
