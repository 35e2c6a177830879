package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/consumer-platform/internal/domain"
	"github.com/spec-kit/consumer-platform/internal/repository"
	apperrors "github.com/spec-kit/consumer-platform/pkg/util"
)

// ProfileCache is the read-through cache consulted before the user store.
// Implementations must treat failures as misses.
type ProfileCache interface {
	Get(ctx context.Context, userID string) *domain.Profile
	Set(ctx context.Context, profile *domain.Profile)
	Invalidate(ctx context.Context, userID string)
}

// FarmerProfileInput carries a farmer profile upsert.
type FarmerProfileInput struct {
	FarmName string
	Address  string
	City     string
}

// ProfileService serves role-aware profile reads and farmer profile writes.
type ProfileService struct {
	users repository.UserRepository
	cache ProfileCache
}

// NewProfileService builds the service. cache may be nil.
func NewProfileService(users repository.UserRepository, cache ProfileCache) *ProfileService {
	return &ProfileService{users: users, cache: cache}
}

// GetProfile loads the profile for the given user id, preferring the cache.
func (s *ProfileService) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	if s.cache != nil {
		if profile := s.cache.Get(ctx, userID); profile != nil {
			return profile, nil
		}
	}

	profile, err := s.users.GetProfileByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user")
		}
		return nil, err
	}

	if s.cache != nil {
		s.cache.Set(ctx, profile)
	}
	return profile, nil
}

// UpsertFarmerProfile creates or updates the caller's farm details and drops
// the now-stale cached profile.
func (s *ProfileService) UpsertFarmerProfile(ctx context.Context, userID string, in FarmerProfileInput) (*domain.FarmerProfile, error) {
	if in.FarmName == "" {
		return nil, apperrors.NewValidationError("farmName is required", nil)
	}

	profile := &domain.FarmerProfile{
		UserID:   userID,
		FarmName: in.FarmName,
		Address:  in.Address,
		City:     in.City,
	}
	if err := s.users.UpsertFarmerProfile(ctx, profile); err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx, userID)
	}
	return profile, nil
}
