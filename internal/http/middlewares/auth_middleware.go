package middlewares

import (
	"net/http"
	"strings"

	"github.com/Stivan-Lucas/Omni-Chat-Real-Time/internal/auth"
	"github.com/gin-gonic/gin"
)

// Keep this small interface so tests can fake it easily.
type TokenVerifier interface {
	VerifyAccessToken(token string) (*auth.Claims, error)
}

// AuthenticatedHandler receives the verified caller explicitly.
type AuthenticatedHandler func(c *gin.Context, p auth.Principal)

type AuthMiddleware struct {
	jwt TokenVerifier
}

func NewAuthMiddleware(jwt TokenVerifier) *AuthMiddleware {
	return &AuthMiddleware{jwt: jwt}
}

// Authenticated verifies the bearer access token and calls next with the
// resulting principal. Any failure ends the request with 401.
func (m *AuthMiddleware) Authenticated(next AuthenticatedHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, ok := m.authenticate(c)
		if !ok {
			return
		}
		next(c, p)
	}
}

func (m *AuthMiddleware) authenticate(c *gin.Context) (auth.Principal, bool) {
	raw, ok := bearerToken(c.GetHeader("Authorization"))
	if !ok {
		abort(c, http.StatusUnauthorized, "unauthorized", "Missing or invalid Authorization header")
		return auth.Principal{}, false
	}

	claims, err := m.jwt.VerifyAccessToken(raw)
	if err != nil {
		abort(c, http.StatusUnauthorized, "unauthorized", "Invalid or expired access token")
		return auth.Principal{}, false
	}

	return claims.Principal(), true
}

func bearerToken(header string) (string, bool) {
	scheme, raw, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}

	raw = strings.TrimSpace(raw)
	return raw, raw != ""
}
