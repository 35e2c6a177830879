package dto

import (
	"time"

	"github.com/spec-kit/consumer-platform/internal/domain"
)

// RegisterRequest payload for new accounts.
type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	FullName string `json:"fullName" validate:"required"`
	Role     string `json:"role" validate:"omitempty,oneof=CONSUMER FARMER ADMIN"`
}

// LoginRequest payload for login.
type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// FarmerProfileRequest payload for the farmer profile upsert.
type FarmerProfileRequest struct {
	FarmName string `json:"farmName" validate:"required"`
	Address  string `json:"address"`
	City     string `json:"city"`
}

// UserResponse is the public view of an account. It never carries the
// password hash.
type UserResponse struct {
	ID       string      `json:"id"`
	Email    string      `json:"email"`
	FullName string      `json:"fullName"`
	Role     domain.Role `json:"role"`
}

// NewUserResponse maps a domain user.
func NewUserResponse(user *domain.User) UserResponse {
	return UserResponse{
		ID:       user.ID,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     user.Role,
	}
}

// FarmerProfileResponse is the nested farm view inside a profile.
type FarmerProfileResponse struct {
	ID       string `json:"id"`
	FarmName string `json:"farmName"`
	Address  string `json:"address"`
	City     string `json:"city"`
}

// ProfileResponse is the role-aware profile view.
type ProfileResponse struct {
	ID            string                 `json:"id"`
	Email         string                 `json:"email"`
	FullName      string                 `json:"fullName"`
	Role          domain.Role            `json:"role"`
	CreatedAt     time.Time              `json:"createdAt"`
	FarmerProfile *FarmerProfileResponse `json:"farmerProfile,omitempty"`
}

// NewProfileResponse maps a domain profile.
func NewProfileResponse(profile *domain.Profile) ProfileResponse {
	resp := ProfileResponse{
		ID:        profile.ID,
		Email:     profile.Email,
		FullName:  profile.FullName,
		Role:      profile.Role,
		CreatedAt: profile.CreatedAt,
	}
	if fp := profile.FarmerProfile; fp != nil {
		resp.FarmerProfile = &FarmerProfileResponse{
			ID:       fp.ID,
			FarmName: fp.FarmName,
			Address:  fp.Address,
			City:     fp.City,
		}
	}
	return resp
}
