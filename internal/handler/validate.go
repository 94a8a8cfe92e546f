package handler

import (
	"errors"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

// Validator adapts go-playground/validator to echo's Validator interface.
// Register it once on the echo instance at startup.
type Validator struct {
	validate *validator.Validate
}

// NewValidator builds the shared validator with the custom rules the API
// relies on.
func NewValidator() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Passwords need at least one uppercase letter, one lowercase letter
	// and one digit on top of the min-length tag.
	_ = v.RegisterValidation("password", func(fl validator.FieldLevel) bool {
		var upper, lower, digit bool
		for _, r := range fl.Field().String() {
			switch {
			case unicode.IsUpper(r):
				upper = true
			case unicode.IsLower(r):
				lower = true
			case unicode.IsDigit(r):
				digit = true
			}
		}
		return upper && lower && digit
	})
	return &Validator{validate: v}
}

// Validate implements echo.Validator.
func (cv *Validator) Validate(i any) error {
	return cv.validate.Struct(i)
}

// bindAndValidate decodes the request body into req and validates it. On
// failure it writes the 400 envelope itself (listing every violated field)
// and returns false.
func bindAndValidate(c echo.Context, req any) bool {
	if err := c.Bind(req); err != nil {
		_ = fail(c, 400, "invalid request body")
		return false
	}
	if err := c.Validate(req); err != nil {
		_ = failFields(c, 400, "validation failed", fieldErrors(err))
		return false
	}
	return true
}

// fieldErrors flattens a validator error into per-field detail entries.
func fieldErrors(err error) []FieldError {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []FieldError{{Field: "body", Message: err.Error()}}
	}
	out := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		out = append(out, FieldError{
			Field:   strings.ToLower(fe.Field()[:1]) + fe.Field()[1:],
			Message: violationMessage(fe),
		})
	}
	return out
}

func violationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "is too short or too small (min " + fe.Param() + ")"
	case "max":
		return "is too long or too large (max " + fe.Param() + ")"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "password":
		return "must contain at least one uppercase letter, one lowercase letter, and one number"
	case "eq":
		return "must equal " + fe.Param()
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}
