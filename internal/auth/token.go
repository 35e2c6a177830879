package auth

import (
	"errors"
	"time"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/consumer-platform/internal/domain"
)

// ErrNoSigningKey is returned when a TokenManager is constructed without a
// secret. This is a startup-time configuration failure.
var ErrNoSigningKey = errors.New("token manager requires a signing key")

// TokenManager issues and validates session JWTs. Tokens are self-contained:
// once signed they stay valid until their embedded expiry, with no
// server-side revocation.
type TokenManager struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenManager builds a manager for the given secret and token lifetime.
func NewTokenManager(secret string, ttl time.Duration) (*TokenManager, error) {
	if secret == "" {
		return nil, ErrNoSigningKey
	}
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &TokenManager{secret: []byte(secret), ttl: ttl}, nil
}

// TTL returns the lifetime embedded in issued tokens.
func (tm *TokenManager) TTL() time.Duration {
	return tm.ttl
}

// Claims is the identity payload carried by a session token.
type Claims struct {
	Role domain.Role `json:"role"`
	jwt.RegisteredClaims
}

// SubjectID returns the user id the token was issued for.
func (c *Claims) SubjectID() string {
	return c.Subject
}

// Issue builds and signs a token for the subject.
func (tm *TokenManager) Issue(subjectID string, role domain.Role) (string, time.Time, error) {
	now := time.Now()
	expiresAt := now.Add(tm.ttl)
	claims := &Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(tm.secret)
	if err != nil {
		return "", time.Time{}, err
	}
	return tokenString, expiresAt, nil
}

// Verify checks signature and expiry. It returns nil on every failure —
// expired, tampered, malformed, wrong key — so callers cannot distinguish
// them and neither can anyone probing the API.
func (tm *TokenManager) Verify(tokenStr string) *Claims {
	parsed, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return tm.secret, nil
	})
	if err != nil {
		return nil
	}

	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid || claims.Subject == "" {
		return nil
	}
	return claims
}
