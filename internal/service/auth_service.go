package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/consumer-platform/internal/auth"
	"github.com/spec-kit/consumer-platform/internal/domain"
	"github.com/spec-kit/consumer-platform/internal/events"
	"github.com/spec-kit/consumer-platform/internal/repository"
	apperrors "github.com/spec-kit/consumer-platform/pkg/util"
)

// RegisterInput carries a registration request.
type RegisterInput struct {
	Email    string
	Password string
	FullName string
	Role     string
}

// LoginInput carries a login request.
type LoginInput struct {
	Email    string
	Password string
}

// AuthService coordinates registration and login flows. It holds no state
// between calls; the user store is its only side-effect channel.
type AuthService struct {
	users      repository.UserRepository
	tokens     *auth.TokenManager
	dispatcher events.Dispatcher
	bcryptCost int
}

// NewAuthService builds the service.
func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager, dispatcher events.Dispatcher, bcryptCost int) *AuthService {
	return &AuthService{
		users:      users,
		tokens:     tokens,
		dispatcher: dispatcher,
		bcryptCost: bcryptCost,
	}
}

// Register creates a new account and issues its first session token.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*domain.User, string, time.Time, error) {
	if in.Email == "" || in.Password == "" || in.FullName == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("email, password and fullName are required", nil)
	}

	role, ok := domain.ParseRole(in.Role)
	if !ok {
		return nil, "", time.Time{}, apperrors.NewValidationError("unknown role", map[string]any{"role": in.Role})
	}

	if _, err := s.users.GetByEmail(ctx, in.Email); err == nil {
		return nil, "", time.Time{}, apperrors.NewConflict("User already exists", nil)
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, "", time.Time{}, err
	}

	hash, err := auth.HashPassword(in.Password, s.bcryptCost)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	user := &domain.User{
		Email:        in.Email,
		PasswordHash: hash,
		FullName:     in.FullName,
		Role:         role,
	}
	if err := s.users.Create(ctx, user); err != nil {
		// the store's unique index is the real arbiter: a concurrent
		// registration between the pre-check and the insert lands here
		if apperrors.IsUniqueViolation(err) {
			return nil, "", time.Time{}, apperrors.NewConflict("User already exists", nil)
		}
		return nil, "", time.Time{}, err
	}

	token, exp, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	s.publish(ctx, events.EventUserRegistered, user.ID, events.UserRegisteredPayload{Email: user.Email, Role: user.Role})
	return user, token, exp, nil
}

// Login authenticates an account. Unknown email and wrong password resolve
// to the same error so callers cannot probe which emails are registered.
func (s *AuthService) Login(ctx context.Context, in LoginInput) (*domain.User, string, time.Time, error) {
	if in.Email == "" || in.Password == "" {
		return nil, "", time.Time{}, apperrors.NewValidationError("email and password are required", nil)
	}

	user, err := s.users.GetByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
		}
		return nil, "", time.Time{}, err
	}

	if !auth.ComparePassword(user.PasswordHash, in.Password) {
		return nil, "", time.Time{}, apperrors.NewInvalidCredentials()
	}

	token, exp, err := s.tokens.Issue(user.ID, user.Role)
	if err != nil {
		return nil, "", time.Time{}, err
	}

	s.publish(ctx, events.EventUserLoggedIn, user.ID, events.UserLoggedInPayload{Email: user.Email})
	return user, token, exp, nil
}

// Logout is stateless: tokens stay valid until expiry and the handler clears
// the client cookie. Only the audit trail records the event.
func (s *AuthService) Logout(ctx context.Context, userID string) {
	if userID != "" {
		s.publish(ctx, events.EventUserLoggedOut, userID, nil)
	}
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokens
}

func (s *AuthService) publish(ctx context.Context, eventType events.EventType, userID string, payload interface{}) {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Publish(ctx, events.Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		UserID:    userID,
		Timestamp: time.Now(),
		Payload:   payload,
	})
}
