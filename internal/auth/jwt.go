package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	ErrInvalidToken  = errors.New("invalid token")
	ErrMissingSecret = errors.New("jwt secret is empty")
)

type Config struct {
	AccessSecret     string
	AccessExpiresIn  string
	RefreshSecret    string
	RefreshExpiresIn string
}

// Payload is what gets signed into both token kinds.
type Payload struct {
	ID    string
	Name  string
	Email string
}

type Claims struct {
	UserID string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	jwt.RegisteredClaims
}

// Payload drops the temporal claims so the values can be re-signed.
func (c *Claims) Payload() Payload {
	return Payload{ID: c.UserID, Name: c.Name, Email: c.Email}
}

func (c *Claims) Principal() Principal {
	return Principal{UserID: c.UserID, Name: c.Name, Email: c.Email}
}

type Manager struct {
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration

	now func() time.Time
}

func NewManager(cfg Config) (*Manager, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, ErrMissingSecret
	}

	return &Manager{
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     ExpiresInDuration(cfg.AccessExpiresIn),
		refreshTTL:    ExpiresInDuration(cfg.RefreshExpiresIn),
		now:           time.Now,
	}, nil
}

func (m *Manager) SignAccessToken(p Payload) (string, error) {
	return m.sign(p, m.accessSecret, m.accessTTL)
}

func (m *Manager) SignRefreshToken(p Payload) (string, error) {
	return m.sign(p, m.refreshSecret, m.refreshTTL)
}

func (m *Manager) VerifyAccessToken(tokenStr string) (*Claims, error) {
	return m.verify(tokenStr, m.accessSecret)
}

func (m *Manager) VerifyRefreshToken(tokenStr string) (*Claims, error) {
	return m.verify(tokenStr, m.refreshSecret)
}

// RefreshExpiry is the exp claim of a refresh token, used when persisting it.
func (m *Manager) RefreshExpiry(claims *Claims) time.Time {
	if claims == nil || claims.ExpiresAt == nil {
		return m.now().UTC().Add(m.refreshTTL)
	}
	return claims.ExpiresAt.Time.UTC()
}

func (m *Manager) sign(p Payload, secret []byte, ttl time.Duration) (string, error) {
	now := m.now().UTC()

	claims := Claims{
		UserID: p.ID,
		Name:   p.Name,
		Email:  p.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			// jti keeps two tokens signed within the same second distinct
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

func (m *Manager) verify(tokenStr string, secret []byte) (*Claims, error) {
	token, err := jwt.ParseWithClaims(
		tokenStr,
		&Claims{},
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return secret, nil
		},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidToken
	}

	return claims, nil
}
