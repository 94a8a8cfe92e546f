// Package middleware provides reusable request processing: bearer-token
// authentication, the catalog response cache and rate limiting.
package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/staysafe/stay-safe-api/internal/utils"
)

// UserIDKey is the context key under which JWTAuth stores the
// authenticated user id.
const UserIDKey = "user_id"

// JWTAuth returns middleware that validates a Bearer session token and
// injects the subject user id into the request context. The secret is
// passed in at startup; the middleware never reaches into other services.
func JWTAuth(secret string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get("Authorization")
			if !strings.HasPrefix(auth, "Bearer ") {
				return Fail(c, http.StatusUnauthorized, "authentication required")
			}
			raw := strings.TrimPrefix(auth, "Bearer ")

			userID, err := utils.VerifySessionToken(secret, raw)
			if err != nil {
				return Fail(c, http.StatusUnauthorized, "invalid or expired token")
			}
			c.Set(UserIDKey, userID)
			return next(c)
		}
	}
}

// UserID reads the authenticated user id set by JWTAuth. Empty when the
// route was not gated.
func UserID(c echo.Context) string {
	if v, ok := c.Get(UserIDKey).(string); ok {
		return v
	}
	return ""
}
