package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/consumer-platform/internal/api/dto"
	"github.com/spec-kit/consumer-platform/internal/auth"
	"github.com/spec-kit/consumer-platform/internal/service"
	apperrors "github.com/spec-kit/consumer-platform/pkg/util"
)

// ProfileHandler serves the authenticated profile endpoint.
type ProfileHandler struct {
	profiles *service.ProfileService
}

// NewProfileHandler constructs handler.
func NewProfileHandler(profiles *service.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// Get handles GET /api/auth/profile.
func (h *ProfileHandler) Get(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	profile, err := h.profiles.GetProfile(c.Context(), claims.SubjectID())
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Profile retrieved",
		"user":    dto.NewProfileResponse(profile),
	})
}
