package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/forkful/forkful-backend/internal/domain"
	"github.com/forkful/forkful-backend/internal/service"
)

// RecipeHandler serves the recipe CRUD, search and favorite endpoints.
type RecipeHandler struct {
	recipes *service.RecipeService
	images  *service.ImageService
}

func NewRecipeHandler(recipes *service.RecipeService, images *service.ImageService) *RecipeHandler {
	return &RecipeHandler{recipes: recipes, images: images}
}

// recipeView is the wire form of a recipe: image URL resolved for render,
// favorite state precomputed for the requesting principal.
type recipeView struct {
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

func (h *RecipeHandler) view(c *gin.Context, r domain.Recipe) recipeView {
	ctx := c.Request.Context()
	return recipeView{
		ID:           r.ID,
		Title:        r.Title,
		Description:  r.Description,
		Ingredients:  r.Ingredients,
		Instructions: r.Instructions,
		ImageURL:     h.images.ResolveImageURL(ctx, r.ImageURL),
		Category:     r.Category,
		AuthorID:     r.AuthorID,
		Favorites:    r.Favorites,
		IsFavorite:   h.recipes.IsFavorite(ctx, r),
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

// ListRecipes handles GET /recipes. A q parameter searches, a category
// parameter filters, neither lists everything.
func (h *RecipeHandler) ListRecipes(c *gin.Context) {
	var (
		recipes []domain.Recipe
		err     error
	)
	ctx := c.Request.Context()

	switch {
	case c.Query("q") != "":
		recipes, err = h.recipes.SearchRecipes(ctx, c.Query("q"))
	case c.Query("category") != "":
		recipes, err = h.recipes.ListByCategory(ctx, c.Query("category"))
	default:
		recipes, err = h.recipes.ListRecipes(ctx)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	views := make([]recipeView, len(recipes))
	for i, r := range recipes {
		views[i] = h.view(c, r)
	}
	c.JSON(http.StatusOK, gin.H{"recipes": views})
}

// GetRecipe handles GET /recipes/:id.
func (h *RecipeHandler) GetRecipe(c *gin.Context) {
	recipe, err := h.recipes.GetRecipe(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.view(c, recipe))
}

// CreateRecipe handles POST /recipes.
func (h *RecipeHandler) CreateRecipe(c *gin.Context) {
	var draft domain.RecipeDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id, err := h.recipes.CreateRecipe(c.Request.Context(), draft)
	if err != nil {
		respondError(c, err)
		return
	}

	recipe, err := h.recipes.GetRecipe(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"recipe": h.view(c, recipe)})
}

// UpdateRecipe handles PUT /recipes/:id. Only fields present in the body
// are changed.
func (h *RecipeHandler) UpdateRecipe(c *gin.Context) {
	var patch domain.RecipePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := c.Param("id")
	if err := h.recipes.UpdateRecipe(c.Request.Context(), id, patch); err != nil {
		respondError(c, err)
		return
	}

	recipe, err := h.recipes.GetRecipe(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"recipe": h.view(c, recipe)})
}

// DeleteRecipe handles DELETE /recipes/:id.
func (h *RecipeHandler) DeleteRecipe(c *gin.Context) {
	id := c.Param("id")
	if err := h.recipes.DeleteRecipe(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Recipe deleted successfully", "id": id})
}

type toggleFavoriteRequest struct {
	// Favorite is the state the client currently shows, not the desired
	// one; the server flips it.
	Favorite bool `json:"favorite"`
}

// ToggleFavorite handles POST /recipes/:id/favorite and returns the new
// state.
func (h *RecipeHandler) ToggleFavorite(c *gin.Context) {
	var req toggleFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	newState, err := h.recipes.ToggleFavorite(c.Request.Context(), c.Param("id"), req.Favorite)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorite": newState})
}
