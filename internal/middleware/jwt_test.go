package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/staysafe/stay-safe-api/internal/utils"
)

const testSecret = "middleware-test-secret"

func runGated(t *testing.T, authHeader string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	e := echo.New()
	var seenUserID string
	handler := JWTAuth(testSecret)(func(c echo.Context) error {
		seenUserID = UserID(c)
		return c.NoContent(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	require.NoError(t, handler(e.NewContext(req, rec)))
	return rec, seenUserID
}

func TestJWTAuth(t *testing.T) {
	t.Run("valid token passes and exposes user id", func(t *testing.T) {
		tok, err := utils.NewSessionToken(testSecret, "u-42", 1)
		require.NoError(t, err)

		rec, userID := runGated(t, "Bearer "+tok.Token)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "u-42", userID)
	})

	t.Run("missing header", func(t *testing.T) {
		rec, _ := runGated(t, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "authentication required")
	})

	t.Run("non-bearer scheme", func(t *testing.T) {
		rec, _ := runGated(t, "Basic dXNlcjpwYXNz")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("tampered token", func(t *testing.T) {
		tok, err := utils.NewSessionToken("some-other-secret", "u-42", 1)
		require.NoError(t, err)

		rec, _ := runGated(t, "Bearer "+tok.Token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid or expired token")
	})
}

func TestUserID_UngatedRoute(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), httptest.NewRecorder())
	assert.Empty(t, UserID(c))
}
