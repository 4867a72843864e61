package user

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound             = errors.New("user not found")
	ErrEmailTaken           = errors.New("email already registered")
	ErrRefreshTokenNotFound = errors.New("refresh token not found")
)

type User struct {
	ID           string     `json:"id"`
	Name         string     `json:"name"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"-"` // never expose hash in JSON
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
	DeletedAt    *time.Time `json:"-"`
}

func (u User) Active() bool {
	return u.DeletedAt == nil
}

// RefreshToken is a persisted refresh credential. It is usable while it is
// neither revoked nor expired.
type RefreshToken struct {
	ID        string
	Token     string
	UserID    string
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

func (t RefreshToken) Usable(now time.Time) bool {
	return t.RevokedAt == nil && t.ExpiresAt.After(now)
}

// Patch carries the fields of a partial update. Nil means unchanged.
type Patch struct {
	Name         *string
	Email        *string
	PasswordHash *string
}

func (p Patch) Empty() bool {
	return p.Name == nil && p.Email == nil && p.PasswordHash == nil
}

type Store interface {
	Create(ctx context.Context, u User) (User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	// GetActiveByEmail ignores soft-deleted users.
	GetActiveByEmail(ctx context.Context, email string) (User, error)
	Update(ctx context.Context, id string, p Patch) (User, error)
	SoftDelete(ctx context.Context, id string, at time.Time) error
}

type RefreshTokenStore interface {
	Create(ctx context.Context, t RefreshToken) error
	// FindActive returns the row holding token if it is unrevoked and unexpired at now.
	FindActive(ctx context.Context, token string, now time.Time) (RefreshToken, error)
	// Rotate swaps the token value of row id in place, provided it still holds oldToken.
	Rotate(ctx context.Context, id, oldToken, newToken string, expiresAt time.Time) error
	RevokeByToken(ctx context.Context, token string, at time.Time) error
	RevokeAllForUser(ctx context.Context, userID string, at time.Time) error
	// PurgeStale deletes rows that are expired or revoked at now.
	PurgeStale(ctx context.Context, now time.Time) (int64, error)
}
