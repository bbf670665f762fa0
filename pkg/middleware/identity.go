package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/Chisowa/Farm-Link-Zambia/pkg/auth"
)

const identityKey = "identity"

// Identity resolves the caller once per request and stores it on the echo
// context for handlers further down.
func Identity(f *auth.ContextFactory) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.Set(identityKey, f.Create(c))
			return next(c)
		}
	}
}

// IdentityFrom returns what Identity stored, or Anonymous.
func IdentityFrom(c echo.Context) auth.Context {
	if ac, ok := c.Get(identityKey).(auth.Context); ok {
		return ac
	}
	return auth.Anonymous()
}
