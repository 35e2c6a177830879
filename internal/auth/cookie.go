package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// SessionCookieName is the cookie carrying the session token.
const SessionCookieName = "token"

// SessionCookies writes and clears the session cookie. The max-age always
// equals the token TTL so cookie and token expire together.
type SessionCookies struct {
	ttl    time.Duration
	secure bool
}

// NewSessionCookies configures cookie writing. secure should be true in
// production deployments behind TLS.
func NewSessionCookies(ttl time.Duration, secure bool) *SessionCookies {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &SessionCookies{ttl: ttl, secure: secure}
}

// Set attaches the session token to the response.
func (sc *SessionCookies) Set(c *fiber.Ctx, token string, expiresAt time.Time) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    token,
		Expires:  expiresAt,
		MaxAge:   int(sc.ttl.Seconds()),
		HTTPOnly: true,
		Secure:   sc.secure,
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/",
	})
}

// Clear expires the session cookie on the client.
func (sc *SessionCookies) Clear(c *fiber.Ctx) {
	c.Cookie(&fiber.Cookie{
		Name:     SessionCookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour),
		MaxAge:   -1,
		HTTPOnly: true,
		Secure:   sc.secure,
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/",
	})
}
