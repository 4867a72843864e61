package gormstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/domain/user"
	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/observability"
	"gorm.io/gorm"
)

type RefreshTokensRepo struct {
	db   *gorm.DB
	prom *observability.Prom
}

func NewRefreshTokensRepo(db *gorm.DB, prom *observability.Prom) *RefreshTokensRepo {
	return &RefreshTokensRepo{db: db, prom: prom}
}

func (r *RefreshTokensRepo) Create(ctx context.Context, t user.RefreshToken) error {
	m := refreshTokenModel{
		ID:        t.ID,
		Token:     t.Token,
		UserID:    t.UserID,
		ExpiresAt: t.ExpiresAt.UTC(),
		RevokedAt: t.RevokedAt,
		CreatedAt: t.CreatedAt.UTC(),
	}

	err := r.prom.ObserveDB("refresh_tokens.create", func() error {
		return r.db.WithContext(ctx).Create(&m).Error
	})
	if err != nil {
		return fmt.Errorf("insert refresh token: %w", err)
	}
	return nil
}

func (r *RefreshTokensRepo) FindActive(ctx context.Context, token string, now time.Time) (user.RefreshToken, error) {
	var m refreshTokenModel

	err := r.prom.ObserveDB("refresh_tokens.find_active", func() error {
		return r.db.WithContext(ctx).
			Where("token = ? AND revoked_at IS NULL", token).
			Take(&m).Error
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.RefreshToken{}, user.ErrRefreshTokenNotFound
		}
		return user.RefreshToken{}, err
	}

	row := m.toDomain()
	// expiry is checked here rather than in SQL; sqlite compares timestamps as text
	if !row.Usable(now) {
		return user.RefreshToken{}, user.ErrRefreshTokenNotFound
	}
	return row, nil
}

func (r *RefreshTokensRepo) Rotate(ctx context.Context, id, oldToken, newToken string, expiresAt time.Time) error {
	var res *gorm.DB

	err := r.prom.ObserveDB("refresh_tokens.rotate", func() error {
		res = r.db.WithContext(ctx).
			Model(&refreshTokenModel{}).
			Where("id = ? AND token = ? AND revoked_at IS NULL", id, oldToken).
			Updates(map[string]any{
				"token":      newToken,
				"expires_at": expiresAt.UTC(),
				"revoked_at": nil,
			})
		return res.Error
	})

	if err != nil {
		return fmt.Errorf("rotate refresh token: %w", err)
	}
	if res.RowsAffected == 0 {
		return user.ErrRefreshTokenNotFound
	}
	return nil
}

func (r *RefreshTokensRepo) RevokeByToken(ctx context.Context, token string, at time.Time) error {
	return r.prom.ObserveDB("refresh_tokens.revoke", func() error {
		return r.db.WithContext(ctx).
			Model(&refreshTokenModel{}).
			Where("token = ? AND revoked_at IS NULL", token).
			Update("revoked_at", at.UTC()).Error
	})
}

func (r *RefreshTokensRepo) RevokeAllForUser(ctx context.Context, userID string, at time.Time) error {
	return r.prom.ObserveDB("refresh_tokens.revoke_all", func() error {
		return r.db.WithContext(ctx).
			Model(&refreshTokenModel{}).
			Where("user_id = ? AND revoked_at IS NULL", userID).
			Update("revoked_at", at.UTC()).Error
	})
}

func (r *RefreshTokensRepo) PurgeStale(ctx context.Context, now time.Time) (int64, error) {
	var res *gorm.DB

	err := r.prom.ObserveDB("refresh_tokens.purge", func() error {
		res = r.db.WithContext(ctx).
			Where("expires_at <= ? OR revoked_at IS NOT NULL", now.UTC()).
			Delete(&refreshTokenModel{})
		return res.Error
	})

	if err != nil {
		return 0, fmt.Errorf("purge refresh tokens: %w", err)
	}
	return res.RowsAffected, nil
}
