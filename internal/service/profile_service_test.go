package service

import (
	"context"
	"testing"
	"time"

	"github.com/spec-kit/consumer-platform/internal/domain"
)

type mockProfileCache struct {
	getFn        func(ctx context.Context, userID string) *domain.Profile
	setFn        func(ctx context.Context, profile *domain.Profile)
	invalidateFn func(ctx context.Context, userID string)
}

func (m *mockProfileCache) Get(ctx context.Context, userID string) *domain.Profile {
	if m.getFn != nil {
		return m.getFn(ctx, userID)
	}
	return nil
}

func (m *mockProfileCache) Set(ctx context.Context, profile *domain.Profile) {
	if m.setFn != nil {
		m.setFn(ctx, profile)
	}
}

func (m *mockProfileCache) Invalidate(ctx context.Context, userID string) {
	if m.invalidateFn != nil {
		m.invalidateFn(ctx, userID)
	}
}

func TestGetProfile_CacheHitSkipsStore(t *testing.T) {
	cached := &domain.Profile{ID: "u1", Email: "a@x.com", Role: domain.RoleConsumer}
	storeCalled := false

	svc := NewProfileService(&mockUserRepo{
		getProfileFn: func(_ context.Context, _ string) (*domain.Profile, error) {
			storeCalled = true
			return nil, nil
		},
	}, &mockProfileCache{
		getFn: func(_ context.Context, userID string) *domain.Profile {
			if userID == "u1" {
				return cached
			}
			return nil
		},
	})

	profile, err := svc.GetProfile(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if profile != cached {
		t.Error("expected the cached profile")
	}
	if storeCalled {
		t.Error("store must not be consulted on a cache hit")
	}
}

func TestGetProfile_CacheMissFillsCache(t *testing.T) {
	stored := &domain.Profile{ID: "u1", Email: "a@x.com", Role: domain.RoleFarmer, CreatedAt: time.Now()}
	var setWith *domain.Profile

	svc := NewProfileService(&mockUserRepo{
		getProfileFn: func(_ context.Context, id string) (*domain.Profile, error) {
			if id != "u1" {
				t.Errorf("store queried for %q, want u1", id)
			}
			return stored, nil
		},
	}, &mockProfileCache{
		setFn: func(_ context.Context, profile *domain.Profile) {
			setWith = profile
		},
	})

	profile, err := svc.GetProfile(context.Background(), "u1")
	if err != nil {
		t.Fatalf("GetProfile: %v", err)
	}
	if profile != stored {
		t.Error("expected the stored profile")
	}
	if setWith != stored {
		t.Error("cache must be filled after a miss")
	}
}

func TestGetProfile_UnknownUser(t *testing.T) {
	svc := NewProfileService(&mockUserRepo{}, nil)

	_, err := svc.GetProfile(context.Background(), "gone")
	if de := domainErr(t, err); de.HTTPStatus != 404 {
		t.Errorf("status = %d, want 404", de.HTTPStatus)
	}
}

func TestUpsertFarmerProfile_RequiresFarmName(t *testing.T) {
	svc := NewProfileService(&mockUserRepo{}, nil)

	_, err := svc.UpsertFarmerProfile(context.Background(), "u1", FarmerProfileInput{})
	if de := domainErr(t, err); de.HTTPStatus != 400 {
		t.Errorf("status = %d, want 400", de.HTTPStatus)
	}
}

func TestUpsertFarmerProfile_InvalidatesCache(t *testing.T) {
	invalidated := ""

	svc := NewProfileService(&mockUserRepo{}, &mockProfileCache{
		invalidateFn: func(_ context.Context, userID string) {
			invalidated = userID
		},
	})

	profile, err := svc.UpsertFarmerProfile(context.Background(), "u1", FarmerProfileInput{
		FarmName: "Green Acres",
		City:     "Springfield",
	})
	if err != nil {
		t.Fatalf("UpsertFarmerProfile: %v", err)
	}
	if profile.UserID != "u1" || profile.FarmName != "Green Acres" {
		t.Errorf("unexpected profile %+v", profile)
	}
	if invalidated != "u1" {
		t.Errorf("cache invalidated for %q, want u1", invalidated)
	}
}
