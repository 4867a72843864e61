package repo

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/config"
	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/db"
	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/domain/user"
	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/observability"
	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/repo/gormstore"
	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/repo/postgres"
)

// Store bundles the repositories of the configured driver with the
// connection that backs them.
type Store struct {
	Users         user.Store
	RefreshTokens user.RefreshTokenStore

	Ping  func(context.Context) error
	Close func()
}

func Open(ctx context.Context, cfg config.Config, prom *observability.Prom, log *slog.Logger) (*Store, error) {
	switch cfg.DBDriver {
	case "sqlite":
		return openSQLite(ctx, cfg, prom, log)
	case "postgres":
		return openPostgres(ctx, cfg, prom, log)
	default:
		return nil, fmt.Errorf("unsupported db driver %q", cfg.DBDriver)
	}
}

func openPostgres(ctx context.Context, cfg config.Config, prom *observability.Prom, log *slog.Logger) (*Store, error) {
	pool, err := db.NewPool(ctx, cfg.DBURL)
	if err != nil {
		return nil, fmt.Errorf("connect postgres: %w", err)
	}

	if err := db.Migrate(ctx, pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("migrate postgres: %w", err)
	}

	log.Info("database ready", "driver", "postgres")

	return &Store{
		Users:         postgres.NewUsersRepo(pool, prom),
		RefreshTokens: postgres.NewRefreshTokensRepo(pool, prom),
		Ping:          pool.Ping,
		Close:         pool.Close,
	}, nil
}

func openSQLite(ctx context.Context, cfg config.Config, prom *observability.Prom, log *slog.Logger) (*Store, error) {
	gdb, err := db.OpenSQLite(cfg.SQLitePath, cfg.Env == "dev")
	if err != nil {
		return nil, err
	}

	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}

	if err := gormstore.AutoMigrate(gdb.WithContext(ctx)); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}

	log.Info("database ready", "driver", "sqlite", "path", cfg.SQLitePath)

	return &Store{
		Users:         gormstore.NewUsersRepo(gdb, prom),
		RefreshTokens: gormstore.NewRefreshTokensRepo(gdb, prom),
		Ping:          sqlDB.PingContext,
		Close: func() {
			if err := sqlDB.Close(); err != nil {
				log.Error("close sqlite", "err", err)
			}
		},
	}, nil
}
