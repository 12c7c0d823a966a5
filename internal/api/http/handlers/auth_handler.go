package handlers

import (
	"errors"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/red-heart/auth-service/internal/api/dto"
	"github.com/red-heart/auth-service/internal/auth"
	"github.com/red-heart/auth-service/internal/domain"
	"github.com/red-heart/auth-service/internal/service"
	apperrors "github.com/red-heart/auth-service/pkg/util"
)

// AuthHandler exposes sign-in and registration endpoints for a role partition.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// SignIn handles sign-in for the given role partition.
func (h *AuthHandler) SignIn(role domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req dto.SignInRequest
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
		if req.Email == "" || req.Password == "" {
			return apperrors.NewValidationError("email and password required", nil)
		}

		token, exp, err := h.auth.SignIn(c.Context(), role, req.Email, req.Password)
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredentials) {
				return apperrors.NewUnauthorized("Invalid email or password")
			}
			return apperrors.MapError(err)
		}

		return c.JSON(dto.TokenResponse{
			AccessToken: token,
			TokenType:   "bearer",
			ExpiresAt:   exp,
		})
	}
}

// Register handles registration for the given role partition.
func (h *AuthHandler) Register(role domain.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req dto.RegisterRequest
		if err := c.BodyParser(&req); err != nil {
			return apperrors.NewValidationError("invalid payload", nil)
		}
		if req.Email == "" || req.Password == "" {
			return apperrors.NewValidationError("email and password required", nil)
		}

		token, exp, err := h.auth.Register(c.Context(), role, req.Email, req.Password)
		if err != nil {
			if errors.Is(err, service.ErrEmailTaken) {
				return apperrors.NewEmailTaken()
			}
			return apperrors.MapError(err)
		}

		return c.Status(http.StatusOK).JSON(dto.TokenResponse{
			AccessToken: token,
			TokenType:   "bearer",
			ExpiresAt:   exp,
		})
	}
}

// Me handles GET /auth/me for authenticated callers.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	return c.JSON(fiber.Map{
		"email": principal.Email,
		"role":  principal.Role,
	})
}
