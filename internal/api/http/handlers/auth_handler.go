package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/consumer-platform/internal/api/dto"
	"github.com/spec-kit/consumer-platform/internal/auth"
	"github.com/spec-kit/consumer-platform/internal/service"
	apperrors "github.com/spec-kit/consumer-platform/pkg/util"
)

// AuthHandler exposes registration, login and logout.
type AuthHandler struct {
	auth    *service.AuthService
	cookies *auth.SessionCookies
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService, cookies *auth.SessionCookies) *AuthHandler {
	return &AuthHandler{auth: authService, cookies: cookies}
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	user, token, exp, err := h.auth.Register(c.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		return err
	}

	h.cookies.Set(c, token, exp)
	return c.Status(http.StatusCreated).JSON(fiber.Map{
		"message": "User registered successfully",
		"user":    dto.NewUserResponse(user),
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	user, token, exp, err := h.auth.Login(c.Context(), service.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	h.cookies.Set(c, token, exp)
	return c.JSON(fiber.Map{
		"message": "Login successful",
		"user":    dto.NewUserResponse(user),
	})
}

// Logout handles POST /api/auth/logout. It succeeds with or without a valid
// session: clearing the cookie is all the server can do for stateless tokens.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if token := c.Cookies(auth.SessionCookieName); token != "" {
		if claims := h.auth.TokenManager().Verify(token); claims != nil {
			h.auth.Logout(c.Context(), claims.SubjectID())
		}
	}

	h.cookies.Clear(c)
	return c.JSON(fiber.Map{
		"message": "Logout successful",
	})
}
