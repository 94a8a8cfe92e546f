package middleware

import (
	"time"

	"github.com/labstack/echo/v4"
)

// Fail writes the error envelope used across the API:
//
//	{ "success": false, "error": {"message": ...}, "meta": {"timestamp": ...} }
//
// Middleware and the top-level error handler short-circuit through this
// instead of each rebuilding the shape.
func Fail(c echo.Context, status int, message string) error {
	return c.JSON(status, echo.Map{
		"success": false,
		"error":   echo.Map{"message": message},
		"meta":    echo.Map{"timestamp": time.Now().UTC().Format(time.RFC3339)},
	})
}
