package api_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterEndpoint(t *testing.T) {
	env := newTestEnv(t)

	token, userID := env.register(t, "new@example.com")
	assert.NotEmpty(t, token)
	assert.NotEmpty(t, userID)

	// Same email again conflicts.
	w := env.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email":    "new@example.com",
		"password": "hunter2hunter2",
	})
	assert.Equal(t, http.StatusConflict, w.Code)

	// Malformed email is a client error.
	w = env.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email":    "not-an-email",
		"password": "hunter2hunter2",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginEndpoint(t *testing.T) {
	env := newTestEnv(t)
	_, userID := env.register(t, "a@example.com")

	w := env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    "a@example.com",
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	decodeBody(t, w, &resp)
	assert.NotEmpty(t, resp.Token)
	assert.Equal(t, userID, resp.User.ID)

	w = env.do(t, http.MethodPost, "/api/v1/auth/login", "", map[string]any{
		"email":    "a@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestLogoutEndpointRevokesSession(t *testing.T) {
	env := newTestEnv(t)
	token, _ := env.register(t, "a@example.com")

	// The token works before logout.
	w := env.do(t, http.MethodGet, "/api/v1/profile", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = env.do(t, http.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// And is dead after.
	w = env.do(t, http.MethodGet, "/api/v1/profile", token, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	// Logging out without a token is a no-op, not an error.
	w = env.do(t, http.MethodPost, "/api/v1/auth/logout", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestUserResponseOmitsPasswordHash(t *testing.T) {
	env := newTestEnv(t)

	w := env.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email":    "a@example.com",
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		User map[string]any `json:"user"`
	}
	decodeBody(t, w, &resp)
	assert.NotContains(t, resp.User, "passwordHash")
	assert.NotContains(t, resp.User, "password")
}
