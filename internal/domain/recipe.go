package domain

import (
	"encoding/json"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Collection names in the document store.
const (
	RecipeCollection = "recipes"
	UserCollection   = "users"
)

// CategoryAll is the sentinel category meaning "no filter".
const CategoryAll = "All"

// Recipe is a recipe document as stored and served.
type Recipe struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Ingredients  []string  `json:"ingredients"`
	Instructions []string  `json:"instructions"`
	ImageURL     string    `json:"imageUrl,omitempty"`
	Category     string    `json:"category,omitempty"`
	AuthorID     string    `json:"authorId"`
	Favorites    []string  `json:"favorites"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// FavoritedBy reports whether principalID is in the favorites set.
func (r Recipe) FavoritedBy(principalID string) bool {
	for _, id := range r.Favorites {
		if id == principalID {
			return true
		}
	}
	return false
}

// RecipeDraft is the pre-creation form of a recipe. It carries no ID and no
// AuthorID: the store assigns the former and the session dictates the latter.
type RecipeDraft struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	ImageURL     string   `json:"imageUrl"`
	Category     string   `json:"category"`
}

// Validate checks the draft before any remote call is made.
func (d RecipeDraft) Validate() error {
	err := validation.ValidateStruct(&d,
		validation.Field(&d.Title, validation.Required),
		validation.Field(&d.Description, validation.Required),
		validation.Field(&d.Ingredients, validation.Required, validation.Length(1, 0)),
		validation.Field(&d.Instructions, validation.Required, validation.Length(1, 0)),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}
	return nil
}

// RecipePatch is a partial update. Nil fields are left untouched; only
// supplied fields are overwritten. AuthorID and Favorites are deliberately
// absent: the former is immutable, the latter is owned by the favorite
// toggle path.
type RecipePatch struct {
	Title        *string   `json:"title,omitempty"`
	Description  *string   `json:"description,omitempty"`
	Ingredients  *[]string `json:"ingredients,omitempty"`
	Instructions *[]string `json:"instructions,omitempty"`
	ImageURL     *string   `json:"imageUrl,omitempty"`
	Category     *string   `json:"category,omitempty"`
}

// Fields returns the supplied fields as a document fragment.
func (p RecipePatch) Fields() map[string]any {
	m := map[string]any{}
	if p.Title != nil {
		m["title"] = *p.Title
	}
	if p.Description != nil {
		m["description"] = *p.Description
	}
	if p.Ingredients != nil {
		m["ingredients"] = *p.Ingredients
	}
	if p.Instructions != nil {
		m["instructions"] = *p.Instructions
	}
	if p.ImageURL != nil {
		m["imageUrl"] = *p.ImageURL
	}
	if p.Category != nil {
		m["category"] = *p.Category
	}
	return m
}

// Empty reports whether the patch supplies no fields at all.
func (p RecipePatch) Empty() bool {
	return len(p.Fields()) == 0
}

// Fields flattens the recipe into a document for the store. The id is not
// included; it is the document key, not part of the payload.
func (r Recipe) Fields() (map[string]any, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, err
	}
	delete(m, "id")
	return m, nil
}

// RecipeFromFields rebuilds a recipe from a stored document.
func RecipeFromFields(id string, fields map[string]any) (Recipe, error) {
	data, err := json.Marshal(fields)
	if err != nil {
		return Recipe{}, err
	}
	var r Recipe
	if err := json.Unmarshal(data, &r); err != nil {
		return Recipe{}, err
	}
	r.ID = id
	if r.Ingredients == nil {
		r.Ingredients = []string{}
	}
	if r.Instructions == nil {
		r.Instructions = []string{}
	}
	if r.Favorites == nil {
		r.Favorites = []string{}
	}
	return r, nil
}
