package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/red-heart/auth-service/internal/domain"
	"github.com/red-heart/auth-service/internal/session"
	apperrors "github.com/red-heart/auth-service/pkg/util"
)

const principalKey = "auth_principal"

// Principal represents the authenticated caller.
type Principal struct {
	Email string
	Role  domain.Role
}

// Middleware validates bearer tokens and loads principals. Beyond the
// self-contained signature and expiry checks, the token's session entry
// must still exist in the tracker; a missing entry means the token was
// revoked or its store-side TTL lapsed.
type Middleware struct {
	tokens   *TokenManager
	sessions *session.Tracker
}

// NewMiddleware constructs middleware.
func NewMiddleware(tokens *TokenManager, sessions *session.Tracker) *Middleware {
	return &Middleware{tokens: tokens, sessions: sessions}
}

// Handle enforces authentication for protected routes.
func (m *Middleware) Handle(c *fiber.Ctx) error {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return apperrors.NewUnauthorized("missing authorization header")
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return apperrors.NewUnauthorized("invalid authorization header")
	}

	claims, err := m.tokens.ParseToken(parts[1])
	if err != nil {
		return apperrors.NewUnauthorized("invalid token")
	}

	alive, err := m.sessions.Alive(c.Context(), claims.ID)
	if err != nil {
		return apperrors.MapError(err)
	}
	if !alive {
		return apperrors.NewUnauthorized("session expired")
	}

	c.Locals(principalKey, &Principal{Email: claims.Email(), Role: claims.Role})
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated entity.
func PrincipalFromContext(c *fiber.Ctx) (*Principal, bool) {
	val := c.Locals(principalKey)
	if val == nil {
		return nil, false
	}
	principal, ok := val.(*Principal)
	return principal, ok
}
