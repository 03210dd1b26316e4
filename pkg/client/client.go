// Package client is a small Go client for the forkful API, used by tools
// and tests. It mirrors what the mobile app does over HTTP, including the
// optimistic favorite toggle.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

// Recipe is the wire form served by the API.
type Recipe struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Ingredients  []string  `json:"ingredients"`
	Instructions []string  `json:"instructions"`
	ImageURL     string    `json:"imageUrl"`
	Category     string    `json:"category,omitempty"`
	AuthorID     string    `json:"authorId"`
	Favorites    []string  `json:"favorites"`
	IsFavorite   bool      `json:"isFavorite"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// RecipeDraft is the creation payload.
type RecipeDraft struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	ImageURL     string   `json:"imageUrl,omitempty"`
	Category     string   `json:"category,omitempty"`
}

// User is the profile wire form.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	PhotoURL    string `json:"photoUrl"`
}

// Client talks to one API server, optionally as a signed-in user.
type Client struct {
	baseURL string
	http    *http.Client
	token   string
}

// New creates a client for the given base URL, e.g. "http://localhost:8080".
func New(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// SetToken attaches a session token to subsequent requests.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Login signs in and stores the session token on the client.
func (c *Client) Login(ctx context.Context, email, password string) (User, error) {
	var resp struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/login", body, &resp); err != nil {
		return User{}, err
	}
	c.token = resp.Token
	return resp.User, nil
}

// Register creates an account and stores the session token on the client.
func (c *Client) Register(ctx context.Context, email, password, displayName string) (User, error) {
	var resp struct {
		Token string `json:"token"`
		User  User   `json:"user"`
	}
	body := map[string]string{"email": email, "password": password, "displayName": displayName}
	if err := c.do(ctx, http.MethodPost, "/api/v1/auth/register", body, &resp); err != nil {
		return User{}, err
	}
	c.token = resp.Token
	return resp.User, nil
}

// ListRecipes fetches recipes, optionally searching or filtering by
// category. Pass empty strings for neither.
func (c *Client) ListRecipes(ctx context.Context, keyword, category string) ([]Recipe, error) {
	params := url.Values{}
	if keyword != "" {
		params.Set("q", keyword)
	}
	if category != "" {
		params.Set("category", category)
	}
	path := "/api/v1/recipes"
	if len(params) > 0 {
		path += "?" + params.Encode()
	}

	var resp struct {
		Recipes []Recipe `json:"recipes"`
	}
	if err := c.do(ctx, http.MethodGet, path, nil, &resp); err != nil {
		return nil, err
	}
	return resp.Recipes, nil
}

// GetRecipe fetches one recipe.
func (c *Client) GetRecipe(ctx context.Context, id string) (Recipe, error) {
	var recipe Recipe
	if err := c.do(ctx, http.MethodGet, "/api/v1/recipes/"+id, nil, &recipe); err != nil {
		return Recipe{}, err
	}
	return recipe, nil
}

// CreateRecipe submits a draft and returns the stored recipe.
func (c *Client) CreateRecipe(ctx context.Context, draft RecipeDraft) (Recipe, error) {
	var resp struct {
		Recipe Recipe `json:"recipe"`
	}
	if err := c.do(ctx, http.MethodPost, "/api/v1/recipes", draft, &resp); err != nil {
		return Recipe{}, err
	}
	return resp.Recipe, nil
}

// DeleteRecipe removes a recipe the caller owns.
func (c *Client) DeleteRecipe(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/v1/recipes/"+id, nil, nil)
}

// ToggleFavorite tells the server the state currently shown and receives
// the new one.
func (c *Client) ToggleFavorite(ctx context.Context, recipeID string, currentlyFavorite bool) (bool, error) {
	var resp struct {
		Favorite bool `json:"favorite"`
	}
	body := map[string]bool{"favorite": currentlyFavorite}
	err := c.do(ctx, http.MethodPost, "/api/v1/recipes/"+recipeID+"/favorite", body, &resp)
	if err != nil {
		return currentlyFavorite, err
	}
	return resp.Favorite, nil
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reqBody *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	} else {
		reqBody = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Error string `json:"error"`
		}
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		return &APIError{Status: resp.StatusCode, Message: apiErr.Error}
	}

	if out != nil {
		return json.NewDecoder(resp.Body).Decode(out)
	}
	return nil
}
