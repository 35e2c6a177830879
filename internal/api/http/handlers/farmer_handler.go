package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/consumer-platform/internal/api/dto"
	"github.com/spec-kit/consumer-platform/internal/auth"
	"github.com/spec-kit/consumer-platform/internal/service"
	apperrors "github.com/spec-kit/consumer-platform/pkg/util"
)

// FarmerHandler serves farmer-only profile management. Routes using it sit
// behind AuthMiddleware plus RequireRole(FARMER).
type FarmerHandler struct {
	profiles *service.ProfileService
}

// NewFarmerHandler constructs handler.
func NewFarmerHandler(profiles *service.ProfileService) *FarmerHandler {
	return &FarmerHandler{profiles: profiles}
}

// UpsertProfile handles PUT /api/farmer/profile.
func (h *FarmerHandler) UpsertProfile(c *fiber.Ctx) error {
	claims, ok := auth.ClaimsFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}

	var req dto.FarmerProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if err := dto.Validate(req); err != nil {
		return err
	}

	profile, err := h.profiles.UpsertFarmerProfile(c.Context(), claims.SubjectID(), service.FarmerProfileInput{
		FarmName: req.FarmName,
		Address:  req.Address,
		City:     req.City,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"message": "Farmer profile saved",
		"profile": dto.FarmerProfileResponse{
			ID:       profile.ID,
			FarmName: profile.FarmName,
			Address:  profile.Address,
			City:     profile.City,
		},
	})
}
