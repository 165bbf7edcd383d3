package auth

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// CookieName is the session cookie carrying the signed token.
const CookieName = "jwt"

// SetSessionCookie writes the session cookie. Secure + SameSite=Strict in
// production, Lax otherwise so local clients on plain HTTP still work.
func SetSessionCookie(c *fiber.Ctx, token string, ttl time.Duration, production bool) {
	sameSite := "Lax"
	if production {
		sameSite = "Strict"
	}

	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    token,
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		Secure:   production,
		SameSite: sameSite,
	})
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(c *fiber.Ctx, production bool) {
	sameSite := "Lax"
	if production {
		sameSite = "Strict"
	}

	c.Cookie(&fiber.Cookie{
		Name:     CookieName,
		Value:    "",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   production,
		SameSite: sameSite,
	})
}
