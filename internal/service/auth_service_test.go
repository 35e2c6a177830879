package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/spec-kit/consumer-platform/internal/auth"
	"github.com/spec-kit/consumer-platform/internal/domain"
	"github.com/spec-kit/consumer-platform/internal/events"
	apperrors "github.com/spec-kit/consumer-platform/pkg/util"
)

type mockUserRepo struct {
	createFn       func(ctx context.Context, user *domain.User) error
	getByIDFn      func(ctx context.Context, id string) (*domain.User, error)
	getByEmailFn   func(ctx context.Context, email string) (*domain.User, error)
	getProfileFn   func(ctx context.Context, id string) (*domain.Profile, error)
	upsertFarmerFn func(ctx context.Context, profile *domain.FarmerProfile) error
}

func (m *mockUserRepo) Create(ctx context.Context, user *domain.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	user.ID = "generated-id"
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	return nil
}

func (m *mockUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, pgx.ErrNoRows
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, pgx.ErrNoRows
}

func (m *mockUserRepo) GetProfileByID(ctx context.Context, id string) (*domain.Profile, error) {
	if m.getProfileFn != nil {
		return m.getProfileFn(ctx, id)
	}
	return nil, pgx.ErrNoRows
}

func (m *mockUserRepo) UpsertFarmerProfile(ctx context.Context, profile *domain.FarmerProfile) error {
	if m.upsertFarmerFn != nil {
		return m.upsertFarmerFn(ctx, profile)
	}
	profile.ID = "farm-id"
	return nil
}

func newTestAuthService(t *testing.T, repo *mockUserRepo) (*AuthService, events.Dispatcher) {
	t.Helper()
	tokens, err := auth.NewTokenManager("service-test-secret", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenManager: %v", err)
	}
	dispatcher := events.NewInMemoryDispatcher()
	return NewAuthService(repo, tokens, dispatcher, bcrypt.MinCost), dispatcher
}

func domainErr(t *testing.T, err error) *apperrors.DomainError {
	t.Helper()
	var de *apperrors.DomainError
	if !errors.As(err, &de) {
		t.Fatalf("expected DomainError, got %T: %v", err, err)
	}
	return de
}

func TestRegister_DefaultsToConsumerRole(t *testing.T) {
	svc, dispatcher := newTestAuthService(t, &mockUserRepo{})

	var published []events.Event
	dispatcher.Subscribe(events.EventUserRegistered, func(_ context.Context, e events.Event) error {
		published = append(published, e)
		return nil
	})

	user, token, exp, err := svc.Register(context.Background(), RegisterInput{
		Email:    "a@x.com",
		Password: "p1",
		FullName: "A",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Role != domain.RoleConsumer {
		t.Errorf("role = %q, want CONSUMER", user.Role)
	}
	if user.PasswordHash == "p1" || user.PasswordHash == "" {
		t.Error("stored credential must be a hash, never the plaintext")
	}
	if !auth.ComparePassword(user.PasswordHash, "p1") {
		t.Error("stored hash must verify against the original password")
	}
	if exp.Before(time.Now()) {
		t.Error("token expiry must be in the future")
	}

	claims := svc.TokenManager().Verify(token)
	if claims == nil {
		t.Fatal("issued token must verify")
	}
	if claims.SubjectID() != user.ID || claims.Role != domain.RoleConsumer {
		t.Errorf("claims = {%s %s}, want {%s CONSUMER}", claims.SubjectID(), claims.Role, user.ID)
	}

	if len(published) != 1 || published[0].UserID != user.ID {
		t.Errorf("expected one user_registered event for %s, got %v", user.ID, published)
	}
}

func TestRegister_ExplicitRoleKept(t *testing.T) {
	svc, _ := newTestAuthService(t, &mockUserRepo{})

	user, _, _, err := svc.Register(context.Background(), RegisterInput{
		Email:    "farmer@x.com",
		Password: "p1",
		FullName: "F",
		Role:     "FARMER",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Role != domain.RoleFarmer {
		t.Errorf("role = %q, want FARMER", user.Role)
	}
}

func TestRegister_UnknownRoleRejected(t *testing.T) {
	svc, _ := newTestAuthService(t, &mockUserRepo{})

	_, _, _, err := svc.Register(context.Background(), RegisterInput{
		Email:    "a@x.com",
		Password: "p1",
		FullName: "A",
		Role:     "SUPERUSER",
	})
	if de := domainErr(t, err); de.HTTPStatus != 400 {
		t.Errorf("status = %d, want 400", de.HTTPStatus)
	}
}

func TestRegister_MissingFields(t *testing.T) {
	svc, _ := newTestAuthService(t, &mockUserRepo{})

	for _, in := range []RegisterInput{
		{Password: "p1", FullName: "A"},
		{Email: "a@x.com", FullName: "A"},
		{Email: "a@x.com", Password: "p1"},
	} {
		_, _, _, err := svc.Register(context.Background(), in)
		if de := domainErr(t, err); de.HTTPStatus != 400 {
			t.Errorf("input %+v: status = %d, want 400", in, de.HTTPStatus)
		}
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	svc, _ := newTestAuthService(t, &mockUserRepo{
		getByEmailFn: func(_ context.Context, email string) (*domain.User, error) {
			return &domain.User{ID: "existing", Email: email}, nil
		},
	})

	_, _, _, err := svc.Register(context.Background(), RegisterInput{
		Email:    "taken@x.com",
		Password: "whatever",
		FullName: "B",
	})
	if de := domainErr(t, err); de.HTTPStatus != 409 {
		t.Errorf("status = %d, want 409", de.HTTPStatus)
	}
}

func TestRegister_CreateRaceMapsToConflict(t *testing.T) {
	// pre-check misses, then the store's unique index fires
	svc, _ := newTestAuthService(t, &mockUserRepo{
		createFn: func(_ context.Context, _ *domain.User) error {
			return &pgconn.PgError{Code: "23505", ConstraintName: "users_email_key"}
		},
	})

	_, _, _, err := svc.Register(context.Background(), RegisterInput{
		Email:    "raced@x.com",
		Password: "p1",
		FullName: "R",
	})
	if de := domainErr(t, err); de.HTTPStatus != 409 {
		t.Errorf("status = %d, want 409", de.HTTPStatus)
	}
}

func TestRegister_StoreFailurePassesThrough(t *testing.T) {
	storeErr := errors.New("connection refused")
	svc, _ := newTestAuthService(t, &mockUserRepo{
		getByEmailFn: func(_ context.Context, _ string) (*domain.User, error) {
			return nil, storeErr
		},
	})

	_, _, _, err := svc.Register(context.Background(), RegisterInput{
		Email:    "a@x.com",
		Password: "p1",
		FullName: "A",
	})
	if !errors.Is(err, storeErr) {
		t.Errorf("expected store error to pass through, got %v", err)
	}
}

func TestLogin_UnknownEmailAndWrongPasswordAreIndistinguishable(t *testing.T) {
	hash, err := auth.HashPassword("right-password", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	svc, _ := newTestAuthService(t, &mockUserRepo{
		getByEmailFn: func(_ context.Context, email string) (*domain.User, error) {
			if email == "known@x.com" {
				return &domain.User{ID: "u1", Email: email, PasswordHash: hash, Role: domain.RoleConsumer}, nil
			}
			return nil, pgx.ErrNoRows
		},
	})

	_, _, _, unknownErr := svc.Login(context.Background(), LoginInput{Email: "nobody@x.com", Password: "p"})
	_, _, _, wrongErr := svc.Login(context.Background(), LoginInput{Email: "known@x.com", Password: "wrong"})

	unknown := domainErr(t, unknownErr)
	wrong := domainErr(t, wrongErr)
	if unknown.HTTPStatus != 401 || wrong.HTTPStatus != 401 {
		t.Errorf("statuses = %d/%d, want 401/401", unknown.HTTPStatus, wrong.HTTPStatus)
	}
	if unknown.Code != wrong.Code || unknown.Message != wrong.Message {
		t.Errorf("error responses differ: %+v vs %+v", unknown, wrong)
	}
}

func TestLogin_Success(t *testing.T) {
	hash, err := auth.HashPassword("p1", bcrypt.MinCost)
	if err != nil {
		t.Fatalf("HashPassword: %v", err)
	}

	svc, dispatcher := newTestAuthService(t, &mockUserRepo{
		getByEmailFn: func(_ context.Context, email string) (*domain.User, error) {
			return &domain.User{ID: "u1", Email: email, PasswordHash: hash, Role: domain.RoleFarmer}, nil
		},
	})

	var published []events.Event
	dispatcher.Subscribe(events.EventUserLoggedIn, func(_ context.Context, e events.Event) error {
		published = append(published, e)
		return nil
	})

	user, token, _, err := svc.Login(context.Background(), LoginInput{Email: "a@x.com", Password: "p1"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	claims := svc.TokenManager().Verify(token)
	if claims == nil {
		t.Fatal("issued token must verify")
	}
	if claims.SubjectID() != user.ID || claims.Role != domain.RoleFarmer {
		t.Errorf("claims = {%s %s}, want {u1 FARMER}", claims.SubjectID(), claims.Role)
	}
	if len(published) != 1 {
		t.Errorf("expected one user_logged_in event, got %d", len(published))
	}
}

func TestLogout_PublishesAuditEvent(t *testing.T) {
	svc, dispatcher := newTestAuthService(t, &mockUserRepo{})

	var published []events.Event
	dispatcher.Subscribe(events.EventUserLoggedOut, func(_ context.Context, e events.Event) error {
		published = append(published, e)
		return nil
	})

	svc.Logout(context.Background(), "u1")
	svc.Logout(context.Background(), "")

	if len(published) != 1 || published[0].UserID != "u1" {
		t.Errorf("expected one logout event for u1, got %v", published)
	}
}
