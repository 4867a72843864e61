package gormstore

import (
	"time"

	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/domain/user"
	"gorm.io/gorm"
)

type userModel struct {
	ID           string `gorm:"primaryKey;type:text"`
	Name         string `gorm:"not null"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
	DeletedAt    *time.Time
}

func (userModel) TableName() string { return "users" }

type refreshTokenModel struct {
	ID        string    `gorm:"primaryKey;type:text"`
	Token     string    `gorm:"uniqueIndex;not null"`
	UserID    string    `gorm:"index;not null"`
	ExpiresAt time.Time `gorm:"index;not null"`
	RevokedAt *time.Time
	CreatedAt time.Time
}

func (refreshTokenModel) TableName() string { return "refresh_tokens" }

// AutoMigrate creates or updates the tables.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(&userModel{}, &refreshTokenModel{})
}

func (m userModel) toDomain() user.User {
	return user.User{
		ID:           m.ID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
		DeletedAt:    m.DeletedAt,
	}
}

func fromUser(u user.User) userModel {
	return userModel{
		ID:           u.ID,
		Name:         u.Name,
		Email:        u.Email,
		PasswordHash: u.PasswordHash,
		CreatedAt:    u.CreatedAt.UTC(),
		UpdatedAt:    u.UpdatedAt.UTC(),
		DeletedAt:    u.DeletedAt,
	}
}

func (m refreshTokenModel) toDomain() user.RefreshToken {
	return user.RefreshToken{
		ID:        m.ID,
		Token:     m.Token,
		UserID:    m.UserID,
		ExpiresAt: m.ExpiresAt,
		RevokedAt: m.RevokedAt,
		CreatedAt: m.CreatedAt,
	}
}
