package gormstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/domain/user"
	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/observability"
	"gorm.io/gorm"
)

type UsersRepo struct {
	db   *gorm.DB
	prom *observability.Prom
}

func NewUsersRepo(db *gorm.DB, prom *observability.Prom) *UsersRepo {
	return &UsersRepo{db: db, prom: prom}
}

func (r *UsersRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	m := fromUser(u)

	err := r.prom.ObserveDB("users.create", func() error {
		return r.db.WithContext(ctx).Create(&m).Error
	})

	if err != nil {
		if isUniqueViolation(err) {
			return user.User{}, user.ErrEmailTaken
		}
		return user.User{}, fmt.Errorf("insert user: %w", err)
	}
	return m.toDomain(), nil
}

func (r *UsersRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var n int64

	err := r.prom.ObserveDB("users.exists_by_email", func() error {
		return r.db.WithContext(ctx).Model(&userModel{}).Where("email = ?", email).Count(&n).Error
	})

	return n > 0, err
}

func (r *UsersRepo) GetActiveByEmail(ctx context.Context, email string) (user.User, error) {
	var m userModel

	err := r.prom.ObserveDB("users.get_active_by_email", func() error {
		return r.db.WithContext(ctx).
			Where("email = ? AND deleted_at IS NULL", email).
			Take(&m).Error
	})

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return user.User{}, user.ErrNotFound
		}
		return user.User{}, err
	}
	return m.toDomain(), nil
}

func (r *UsersRepo) Update(ctx context.Context, id string, p user.Patch) (user.User, error) {
	var m userModel

	err := r.prom.ObserveDB("users.update", func() error {
		return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			if err := tx.Where("id = ? AND deleted_at IS NULL", id).Take(&m).Error; err != nil {
				return err
			}

			updates := map[string]any{"updated_at": time.Now().UTC()}
			if p.Name != nil {
				updates["name"] = *p.Name
			}
			if p.Email != nil {
				updates["email"] = *p.Email
			}
			if p.PasswordHash != nil {
				updates["password_hash"] = *p.PasswordHash
			}

			if err := tx.Model(&userModel{}).Where("id = ?", id).Updates(updates).Error; err != nil {
				return err
			}

			return tx.Where("id = ?", id).Take(&m).Error
		})
	})

	if err != nil {
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			return user.User{}, user.ErrNotFound
		case isUniqueViolation(err):
			return user.User{}, user.ErrEmailTaken
		}
		return user.User{}, fmt.Errorf("update user: %w", err)
	}

	return m.toDomain(), nil
}

func (r *UsersRepo) SoftDelete(ctx context.Context, id string, at time.Time) error {
	var res *gorm.DB

	err := r.prom.ObserveDB("users.soft_delete", func() error {
		res = r.db.WithContext(ctx).
			Model(&userModel{}).
			Where("id = ? AND deleted_at IS NULL", id).
			Updates(map[string]any{"deleted_at": at.UTC(), "updated_at": at.UTC()})
		return res.Error
	})

	if err != nil {
		return fmt.Errorf("soft delete user: %w", err)
	}
	if res.RowsAffected == 0 {
		return user.ErrNotFound
	}
	return nil
}

// modernc errors are not translated by the gorm sqlite dialector, so the
// message is matched as well.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
