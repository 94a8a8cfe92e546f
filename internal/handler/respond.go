// Package handler exposes the HTTP surface. Every response, success or
// failure, is wrapped in the same envelope:
//
//	{ "success": bool, "data": ... | "error": {...}, "meta": {"timestamp": ...} }
package handler

import (
	"time"

	"github.com/labstack/echo/v4"
)

type meta struct {
	Timestamp string `json:"timestamp"`
}

type errorBody struct {
	Message string       `json:"message"`
	Details []FieldError `json:"details,omitempty"`
}

type envelope struct {
	Success bool       `json:"success"`
	Data    any        `json:"data,omitempty"`
	Error   *errorBody `json:"error,omitempty"`
	Meta    meta       `json:"meta"`
}

// FieldError names one violated field in a validation failure. A 400 lists
// every violation, not just the first.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func now() meta { return meta{Timestamp: time.Now().UTC().Format(time.RFC3339)} }

// respond writes a success envelope.
func respond(c echo.Context, status int, data any) error {
	return c.JSON(status, envelope{Success: true, Data: data, Meta: now()})
}

// fail writes an error envelope with a single message.
func fail(c echo.Context, status int, message string) error {
	return c.JSON(status, envelope{Success: false, Error: &errorBody{Message: message}, Meta: now()})
}

// failFields writes a validation-error envelope listing every violation.
func failFields(c echo.Context, status int, message string, details []FieldError) error {
	return c.JSON(status, envelope{Success: false, Error: &errorBody{Message: message, Details: details}, Meta: now()})
}
