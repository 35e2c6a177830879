package auth

import (
	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/spec-kit/consumer-platform/pkg/util"
)

// HashPassword hashes a plaintext password with the configured cost. Empty
// plaintext is rejected before it reaches bcrypt.
func HashPassword(password string, cost int) (string, error) {
	if password == "" {
		return "", apperrors.NewValidationError("password must not be empty", nil)
	}
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a password against its hashed value. Mismatch and
// malformed hash both report false; the caller cannot tell them apart.
func ComparePassword(hashed, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
