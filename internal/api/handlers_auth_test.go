package api

import (
	"net/http"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterFirstUserBecomesAdmin(t *testing.T) {
	env := newTestEnv(t)

	adminToken := env.register(t, "Admin@Example.com")
	status, profile := env.do(t, testRequest{method: http.MethodGet, path: "/api/profile", token: adminToken})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "admin", profile["role"])
	assert.Equal(t, "admin@example.com", profile["email"])

	memberToken := env.register(t, "member@example.com")
	status, profile = env.do(t, testRequest{method: http.MethodGet, path: "/api/profile", token: memberToken})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "member", profile["role"])
}

func TestRegisterRejectsDuplicateAndWeakPasswords(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "user@example.com")

	status, payload := env.do(t, testRequest{
		method: http.MethodPost,
		path:   "/api/auth/register",
		body:   fiber.Map{"email": "USER@example.com", "password": "StrongPass1"},
	})
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "email_taken", payload["error"])

	status, payload = env.do(t, testRequest{
		method: http.MethodPost,
		path:   "/api/auth/register",
		body:   fiber.Map{"email": "other@example.com", "password": "weak"},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "weak_password", payload["error"])
}

func TestLoginFailuresAreRateLimited(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "user@example.com")

	for attempt := 0; attempt < loginAttemptLimit; attempt++ {
		status, payload := env.do(t, testRequest{
			method: http.MethodPost,
			path:   "/api/auth/login",
			body:   fiber.Map{"email": "user@example.com", "password": "WrongPass1"},
		})
		require.Equal(t, http.StatusUnauthorized, status)
		require.Equal(t, "credentials_invalid", payload["error"])
	}

	status, payload := env.do(t, testRequest{
		method: http.MethodPost,
		path:   "/api/auth/login",
		body:   fiber.Map{"email": "user@example.com", "password": "StrongPass1"},
	})
	assert.Equal(t, http.StatusTooManyRequests, status)
	assert.Equal(t, "too_many_login_attempts", payload["error"])
	assert.NotEmpty(t, payload["message"])
}

func TestLoginReturnsUsableToken(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "user@example.com")

	status, payload := env.do(t, testRequest{
		method: http.MethodPost,
		path:   "/api/auth/login",
		body:   fiber.Map{"email": " user@example.com ", "password": "StrongPass1"},
	})
	require.Equal(t, http.StatusOK, status)
	token, _ := payload["token"].(string)
	require.NotEmpty(t, token)

	status, _ = env.do(t, testRequest{method: http.MethodGet, path: "/api/fasting/status", token: token})
	assert.Equal(t, http.StatusOK, status)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	env := newTestEnv(t)

	status, payload := env.do(t, testRequest{method: http.MethodGet, path: "/api/fasting/status"})
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "unauthorized", payload["error"])

	status, _ = env.do(t, testRequest{method: http.MethodGet, path: "/api/fasting/status", token: "not-a-jwt"})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestUpdateProfileValidatesFields(t *testing.T) {
	env := newTestEnv(t)
	token := env.register(t, "user@example.com")

	status, payload := env.do(t, testRequest{
		method: http.MethodPut,
		path:   "/api/profile",
		token:  token,
		body:   fiber.Map{"difficulty": "legendary"},
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "invalid_profile", payload["error"])

	status, payload = env.do(t, testRequest{
		method: http.MethodPut,
		path:   "/api/profile",
		token:  token,
		body:   fiber.Map{"difficulty": "Intermediate", "timezone": "Europe/Berlin", "programStartDate": "2026-03-01"},
	})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "intermediate", payload["difficulty"])
	assert.Equal(t, "Europe/Berlin", payload["timezone"])
	assert.Equal(t, "2026-03-01", payload["programStartDate"])
}

func TestErrorMessagesFollowRequestLanguage(t *testing.T) {
	env := newTestEnv(t)

	_, payload := env.do(t, testRequest{
		method:  http.MethodGet,
		path:    "/api/profile",
		headers: map[string]string{"Accept-Language": "ru-RU,ru;q=0.9"},
	})
	assert.Equal(t, "Войдите в аккаунт.", payload["message"])
}
