package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidator_PasswordRule(t *testing.T) {
	v := NewValidator()
	type form struct {
		Password string `validate:"required,min=8,password"`
	}

	t.Run("accepts compliant password", func(t *testing.T) {
		assert.NoError(t, v.Validate(form{Password: "Str0ngPass"}))
	})

	cases := map[string]string{
		"no uppercase": "weakpass1",
		"no lowercase": "WEAKPASS1",
		"no digit":     "WeakPassword",
	}
	for name, pw := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, v.Validate(form{Password: pw}))
		})
	}
}

func TestFieldErrors_ListsEveryViolation(t *testing.T) {
	v := NewValidator()
	type form struct {
		Username string `validate:"required,min=3,max=50"`
		Age      int    `validate:"required,min=13,max=120"`
		Theme    string `validate:"omitempty,oneof=light dark system"`
	}

	err := v.Validate(form{Username: "ab", Age: 9, Theme: "neon"})
	require.Error(t, err)

	details := fieldErrors(err)
	require.Len(t, details, 3)

	byField := map[string]string{}
	for _, d := range details {
		byField[d.Field] = d.Message
	}
	// field names are lower-camel to match the JSON wire form
	assert.Equal(t, "is too short or too small (min 3)", byField["username"])
	assert.Equal(t, "is too short or too small (min 13)", byField["age"])
	assert.Equal(t, "must be one of: light dark system", byField["theme"])
}

func TestFieldErrors_NonValidatorError(t *testing.T) {
	details := fieldErrors(assert.AnError)
	require.Len(t, details, 1)
	assert.Equal(t, "body", details[0].Field)
}
