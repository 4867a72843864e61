package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/config"
	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/housekeeping"
	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/observability"
	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/repo"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()

	log, closeLog, err := observability.NewLogger(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = closeLog() }()

	if cfg.Env != "dev" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
	)

	defer stop()

	store, err := repo.Open(ctx, cfg, nil, log)
	if err != nil {
		log.Error("database init failed", "err", err)
		os.Exit(1)
	}

	defer store.Close()

	r := housekeeping.New(housekeeping.Config{Interval: cfg.HousekeepingInterval}, store.RefreshTokens, log, nil)

	// health endpoints on the next port up from the API
	health := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Host, cfg.Port+1),
		Handler:           r.HealthHandler(store.Ping),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		if err := health.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("health server failed", "err", err)
		}
	}()

	if err := r.Run(ctx); err != nil {
		log.Error("housekeeper stopped with error", "err", err)
	}

	shutdownCtx, cancel := config.WithTimeout(5 * time.Second)
	defer cancel()
	_ = health.Shutdown(shutdownCtx)

	log.Info("housekeeper shutdown complete")
}
