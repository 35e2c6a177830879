package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/consumer-platform/internal/domain"
	apperrors "github.com/spec-kit/consumer-platform/pkg/util"
)

const claimsKey = "auth_claims"

// AuthMiddleware authenticates requests from the session cookie and attaches
// the verified identity to the request. It never lets a failure escape as
// anything other than a 401.
type AuthMiddleware struct {
	tokens *TokenManager
}

// NewAuthMiddleware constructs middleware.
func NewAuthMiddleware(tokens *TokenManager) *AuthMiddleware {
	return &AuthMiddleware{tokens: tokens}
}

// Handle enforces authentication for protected routes.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	token := c.Cookies(SessionCookieName)
	if token == "" {
		return apperrors.NewUnauthorized("access denied, no token provided")
	}

	claims := m.tokens.Verify(token)
	if claims == nil {
		return apperrors.NewUnauthorized("invalid or expired token")
	}

	c.Locals(claimsKey, claims)
	return c.Next()
}

// ClaimsFromContext retrieves the authenticated identity, if any.
func ClaimsFromContext(c *fiber.Ctx) (*Claims, bool) {
	val := c.Locals(claimsKey)
	if val == nil {
		return nil, false
	}
	claims, ok := val.(*Claims)
	return claims, ok
}

// RequireRole authorizes the already-authenticated caller against an
// allow-list. It must be stacked downstream of AuthMiddleware.Handle; with
// no identity attached it rejects rather than assumes.
func RequireRole(allowed ...domain.Role) fiber.Handler {
	allowedSet := make(map[domain.Role]struct{}, len(allowed))
	for _, role := range allowed {
		allowedSet[role] = struct{}{}
	}

	return func(c *fiber.Ctx) error {
		claims, ok := ClaimsFromContext(c)
		if !ok {
			return apperrors.NewForbidden("you do not have permission to perform this action")
		}
		if len(allowedSet) == 0 {
			return c.Next()
		}
		if _, exists := allowedSet[claims.Role]; !exists {
			return apperrors.NewForbidden("you do not have permission to perform this action")
		}
		return c.Next()
	}
}
