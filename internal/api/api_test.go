package api_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/forkful/forkful-backend/internal/api"
	"github.com/forkful/forkful-backend/internal/router"
	"github.com/forkful/forkful-backend/internal/service"
	"github.com/forkful/forkful-backend/internal/session"
	"github.com/forkful/forkful-backend/internal/storage"
	"github.com/forkful/forkful-backend/internal/store"
)

// testEnv wires the full router onto in-memory backends so handler tests
// exercise the real middleware chain.
type testEnv struct {
	router *gin.Engine
	docs   *store.MemoryStore
	blobs  *storage.MemoryStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	logger := zerolog.Nop()
	docs := store.NewMemory()
	blobs := storage.NewMemory()
	sessions := session.FromContext{}

	auth := service.NewAuthService(docs, service.NewMemoryTokenRegistry(), "handler-test-secret", logger)
	recipes := service.NewRecipeService(docs, sessions, logger)
	images := service.NewImageService(blobs, logger)
	profiles := service.NewProfileService(docs, sessions, logger)

	engine := router.SetupRouter(router.Handlers{
		Auth:      api.NewAuthHandler(auth),
		Recipes:   api.NewRecipeHandler(recipes, images),
		Profile:   api.NewProfileHandler(profiles),
		Images:    api.NewImageHandler(images),
		Validator: auth,
	})

	return &testEnv{router: engine, docs: docs, blobs: blobs}
}

// do sends a JSON request through the router. An empty token leaves the
// request unauthenticated.
func (e *testEnv) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

// register creates a user through the API and returns its session token and
// user id.
func (e *testEnv) register(t *testing.T, email string) (token, userID string) {
	t.Helper()

	w := e.do(t, http.MethodPost, "/api/v1/auth/register", "", map[string]any{
		"email":       email,
		"password":    "hunter2hunter2",
		"displayName": "Tester",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Token string `json:"token"`
		User  struct {
			ID string `json:"id"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	require.NotEmpty(t, resp.User.ID)
	return resp.Token, resp.User.ID
}

// createRecipe posts a minimal valid draft and returns the new recipe id.
func (e *testEnv) createRecipe(t *testing.T, token, title string) string {
	t.Helper()

	w := e.do(t, http.MethodPost, "/api/v1/recipes", token, map[string]any{
		"title":        title,
		"description":  "A test dish",
		"category":     "Dinner",
		"ingredients":  []string{"salt"},
		"instructions": []string{"cook"},
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp struct {
		Recipe struct {
			ID string `json:"id"`
		} `json:"recipe"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Recipe.ID)
	return resp.Recipe.ID
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}

func recipePath(id string) string {
	return fmt.Sprintf("/api/v1/recipes/%s", id)
}
