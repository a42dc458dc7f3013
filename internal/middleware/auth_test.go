package middleware

import (
	"net/http/httptest"
	"testing"
	"time"

	"flock/internal/config"

	"github.com/gofiber/fiber/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-key"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func validClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"sub":      "42",
		"username": "alice",
		"exp":      time.Now().Add(time.Hour).Unix(),
	}
}

func newAuthTestApp(handler fiber.Handler) *fiber.App {
	InitMiddleware(&config.Config{JWTSecret: testSecret})
	app := fiber.New()
	app.Get("/protected", handler, func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"userID":   c.Locals("userID"),
			"username": c.Locals("username"),
		})
	})
	return app
}

func TestParseToken(t *testing.T) {
	InitMiddleware(&config.Config{JWTSecret: testSecret})

	t.Run("valid token", func(t *testing.T) {
		userID, username, err := parseToken(signToken(t, testSecret, validClaims()))
		require.NoError(t, err)
		assert.Equal(t, uint(42), userID)
		assert.Equal(t, "alice", username)
	})

	t.Run("wrong secret", func(t *testing.T) {
		_, _, err := parseToken(signToken(t, "other-secret", validClaims()))
		assert.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		claims := validClaims()
		claims["exp"] = time.Now().Add(-time.Hour).Unix()
		_, _, err := parseToken(signToken(t, testSecret, claims))
		assert.Error(t, err)
	})

	t.Run("missing subject", func(t *testing.T) {
		claims := validClaims()
		delete(claims, "sub")
		_, _, err := parseToken(signToken(t, testSecret, claims))
		assert.Error(t, err)
	})

	t.Run("non-numeric subject", func(t *testing.T) {
		claims := validClaims()
		claims["sub"] = "alice"
		_, _, err := parseToken(signToken(t, testSecret, claims))
		assert.Error(t, err)
	})
}

func TestAuthRequired(t *testing.T) {
	app := newAuthTestApp(AuthRequired)

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/protected", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Token abc")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("valid bearer token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, validClaims()))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("garbage token", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer not.a.token")
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}

func TestWebSocketAuthRequired(t *testing.T) {
	app := newAuthTestApp(WebSocketAuthRequired)

	t.Run("token via query string", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/protected?token="+signToken(t, testSecret, validClaims()), nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("falls back to header", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/protected", nil)
		req.Header.Set("Authorization", "Bearer "+signToken(t, testSecret, validClaims()))
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})

	t.Run("no token anywhere", func(t *testing.T) {
		req := httptest.NewRequest("GET", "/protected", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})
}
