package middleware

// identity.go holds the small helpers shared by the rate-limit and
// cache middleware for naming the current session in Redis keys.

import "github.com/labstack/echo/v4"

// sessionKey returns the session email set by JWTAuth, or "guest" for
// unauthenticated requests (the public catalog routes).
func sessionKey(c echo.Context) string {
	if email, ok := c.Get(CtxEmail).(string); ok && email != "" {
		return email
	}
	return "guest"
}
