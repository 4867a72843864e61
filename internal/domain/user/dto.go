package user

import "time"

type RegisterRequest struct {
	Name     string `json:"name" binding:"required,min=4,max=100"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=6,max=72"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required,min=10"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required,min=10"`
}

// UpdateRequest applies only the fields that are present.
type UpdateRequest struct {
	Name     *string `json:"name" binding:"omitempty,min=1,max=100"`
	Email    *string `json:"email" binding:"omitempty,email,max=255"`
	Password *string `json:"password" binding:"omitempty,min=6,max=72"`
}

type RegisteredUser struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	CreatedAt string `json:"createdAt"`
}

type UpdatedUser struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	UpdatedAt string `json:"updatedAt"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

const timeLayout = "2006-01-02T15:04:05.000Z07:00"

func FormatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func (u User) Registered() RegisteredUser {
	return RegisteredUser{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: FormatTime(u.CreatedAt)}
}

func (u User) Updated() UpdatedUser {
	return UpdatedUser{ID: u.ID, Name: u.Name, Email: u.Email, UpdatedAt: FormatTime(u.UpdatedAt)}
}
