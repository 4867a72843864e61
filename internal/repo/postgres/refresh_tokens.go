package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/domain/user"
	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/observability"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

type RefreshTokensRepo struct {
	pool *pgxpool.Pool
	prom *observability.Prom
}

func NewRefreshTokensRepo(pool *pgxpool.Pool, prom *observability.Prom) *RefreshTokensRepo {
	return &RefreshTokensRepo{pool: pool, prom: prom}
}

func (r *RefreshTokensRepo) Create(ctx context.Context, t user.RefreshToken) error {
	err := r.prom.ObserveDB("refresh_tokens.create", func() error {
		_, err := r.pool.Exec(ctx,
			`INSERT INTO refresh_tokens (id, token, user_id, expires_at, revoked_at, created_at)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			t.ID, t.Token, t.UserID, t.ExpiresAt, t.RevokedAt, t.CreatedAt,
		)
		return err
	})

	if err != nil {
		return fmt.Errorf("insert refresh token: %w", err)
	}
	return nil
}

func (r *RefreshTokensRepo) FindActive(ctx context.Context, token string, now time.Time) (user.RefreshToken, error) {
	var row user.RefreshToken

	err := r.prom.ObserveDB("refresh_tokens.find_active", func() error {
		return r.pool.QueryRow(ctx, `
			SELECT id, token, user_id, expires_at, revoked_at, created_at
			FROM refresh_tokens
			WHERE token = $1 AND revoked_at IS NULL AND expires_at > $2
		`, token, now).Scan(
			&row.ID,
			&row.Token,
			&row.UserID,
			&row.ExpiresAt,
			&row.RevokedAt,
			&row.CreatedAt,
		)
	})

	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return user.RefreshToken{}, user.ErrRefreshTokenNotFound
		}

		return user.RefreshToken{}, err
	}

	return row, nil
}

// Rotate only succeeds while the row still holds oldToken, so of two
// concurrent refreshes with the same token exactly one wins.
func (r *RefreshTokensRepo) Rotate(ctx context.Context, id, oldToken, newToken string, expiresAt time.Time) error {
	var tag pgconn.CommandTag

	err := r.prom.ObserveDB("refresh_tokens.rotate", func() error {
		var err error
		tag, err = r.pool.Exec(ctx, `
			UPDATE refresh_tokens
			SET token = $3, expires_at = $4, revoked_at = NULL
			WHERE id = $1 AND token = $2 AND revoked_at IS NULL
		`, id, oldToken, newToken, expiresAt)
		return err
	})

	if err != nil {
		return fmt.Errorf("rotate refresh token: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return user.ErrRefreshTokenNotFound
	}
	return nil
}

func (r *RefreshTokensRepo) RevokeByToken(ctx context.Context, token string, at time.Time) error {
	return r.prom.ObserveDB("refresh_tokens.revoke", func() error {
		_, err := r.pool.Exec(ctx, `
			UPDATE refresh_tokens
			SET revoked_at = $2
			WHERE token = $1 AND revoked_at IS NULL
		`, token, at)
		return err
	})
}

func (r *RefreshTokensRepo) RevokeAllForUser(ctx context.Context, userID string, at time.Time) error {
	return r.prom.ObserveDB("refresh_tokens.revoke_all", func() error {
		_, err := r.pool.Exec(ctx, `
			UPDATE refresh_tokens
			SET revoked_at = $2
			WHERE user_id = $1 AND revoked_at IS NULL
		`, userID, at)
		return err
	})
}

func (r *RefreshTokensRepo) PurgeStale(ctx context.Context, now time.Time) (int64, error) {
	var tag pgconn.CommandTag

	err := r.prom.ObserveDB("refresh_tokens.purge", func() error {
		var err error
		tag, err = r.pool.Exec(ctx, `
			DELETE FROM refresh_tokens
			WHERE expires_at <= $1 OR revoked_at IS NOT NULL
		`, now)
		return err
	})

	if err != nil {
		return 0, fmt.Errorf("purge refresh tokens: %w", err)
	}
	return tag.RowsAffected(), nil
}
