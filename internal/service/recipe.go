package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/forkful/forkful-backend/internal/domain"
	"github.com/forkful/forkful-backend/internal/session"
	"github.com/forkful/forkful-backend/internal/store"
)

// RecipeService handles recipe CRUD, search and the favorite toggle,
// enforcing the ownership rules on every mutation.
type RecipeService struct {
	store    store.DocumentStore
	sessions session.Provider
	logger   zerolog.Logger
}

// NewRecipeService creates a new RecipeService instance.
func NewRecipeService(docs store.DocumentStore, sessions session.Provider, logger zerolog.Logger) *RecipeService {
	return &RecipeService{
		store:    docs,
		sessions: sessions,
		logger:   logger.With().Str("service", "recipe").Logger(),
	}
}

// CreateRecipe validates the draft and stores it as a new recipe owned by
// the current principal. Any author the caller might have smuggled into the
// draft is irrelevant: AuthorID always comes from the session.
func (s *RecipeService) CreateRecipe(ctx context.Context, draft domain.RecipeDraft) (string, error) {
	if err := draft.Validate(); err != nil {
		return "", err
	}

	principalID, ok := s.sessions.CurrentPrincipalID(ctx)
	if !ok {
		return "", fmt.Errorf("create recipe: %w", domain.ErrUnauthenticated)
	}

	now := time.Now().UTC()
	recipe := domain.Recipe{
		Title:        draft.Title,
		Description:  draft.Description,
		Ingredients:  draft.Ingredients,
		Instructions: draft.Instructions,
		ImageURL:     draft.ImageURL,
		Category:     draft.Category,
		AuthorID:     principalID,
		Favorites:    []string{},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	fields, err := recipe.Fields()
	if err != nil {
		return "", fmt.Errorf("encode recipe: %w", err)
	}
	id, err := s.store.Insert(ctx, domain.RecipeCollection, fields)
	if err != nil {
		return "", err
	}

	s.logger.Info().Str("recipe_id", id).Str("author_id", principalID).Msg("recipe created")
	return id, nil
}

// ListRecipes returns every recipe in store-native order. This is the base
// for client-side filtering and does not scale past a small corpus.
func (s *RecipeService) ListRecipes(ctx context.Context) ([]domain.Recipe, error) {
	docs, err := s.store.GetAll(ctx, domain.RecipeCollection)
	if err != nil {
		return nil, err
	}
	return decodeRecipes(docs)
}

// ListByCategory returns recipes whose category matches exactly
// (case-sensitive). The "All" sentinel means no filter.
func (s *RecipeService) ListByCategory(ctx context.Context, category string) ([]domain.Recipe, error) {
	if category == domain.CategoryAll {
		return s.ListRecipes(ctx)
	}
	docs, err := s.store.QueryEquals(ctx, domain.RecipeCollection, "category", category)
	if err != nil {
		return nil, err
	}
	return decodeRecipes(docs)
}

// SearchRecipes does a case-insensitive substring match against title or
// description. There is no server-side text index: the whole collection is
// fetched and filtered here. An empty or whitespace-only keyword is
// equivalent to ListRecipes.
func (s *RecipeService) SearchRecipes(ctx context.Context, keyword string) ([]domain.Recipe, error) {
	keyword = strings.TrimSpace(keyword)
	all, err := s.ListRecipes(ctx)
	if err != nil {
		return nil, err
	}
	if keyword == "" {
		return all, nil
	}

	needle := strings.ToLower(keyword)
	matched := []domain.Recipe{}
	for _, r := range all {
		if strings.Contains(strings.ToLower(r.Title), needle) ||
			strings.Contains(strings.ToLower(r.Description), needle) {
			matched = append(matched, r)
		}
	}
	return matched, nil
}

// GetRecipe retrieves a recipe by id. A missing id is domain.ErrNotFound,
// never a panic.
func (s *RecipeService) GetRecipe(ctx context.Context, id string) (domain.Recipe, error) {
	doc, err := s.store.GetByID(ctx, domain.RecipeCollection, id)
	if err != nil {
		return domain.Recipe{}, err
	}
	return domain.RecipeFromFields(doc.ID, doc.Fields)
}

// UpdateRecipe merges the supplied patch fields into the stored recipe.
// The full record is re-read before the ownership check: one extra round
// trip buys certainty that the check ran against current data.
func (s *RecipeService) UpdateRecipe(ctx context.Context, id string, patch domain.RecipePatch) error {
	current, err := s.loadOwned(ctx, id)
	if err != nil {
		return err
	}
	if patch.Empty() {
		return nil
	}

	fields := patch.Fields()
	fields["updatedAt"] = time.Now().UTC().Format(time.RFC3339Nano)
	if err := s.store.Update(ctx, domain.RecipeCollection, id, fields); err != nil {
		return err
	}

	s.logger.Info().Str("recipe_id", id).Str("author_id", current.AuthorID).Msg("recipe updated")
	return nil
}

// DeleteRecipe permanently removes the recipe. Same load-check-ownership
// sequence as UpdateRecipe; no tombstone is kept.
func (s *RecipeService) DeleteRecipe(ctx context.Context, id string) error {
	if _, err := s.loadOwned(ctx, id); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, domain.RecipeCollection, id); err != nil {
		return err
	}

	s.logger.Info().Str("recipe_id", id).Msg("recipe deleted")
	return nil
}

// ToggleFavorite flips the current principal's membership in the recipe's
// favorites set and returns the new state. The store applies the membership
// change atomically, so concurrent toggles by other principals can never
// produce a lost update, and re-applying the same direction on retry is a
// no-op.
func (s *RecipeService) ToggleFavorite(ctx context.Context, recipeID string, currentlyFavorite bool) (bool, error) {
	principalID, ok := s.sessions.CurrentPrincipalID(ctx)
	if !ok {
		return currentlyFavorite, fmt.Errorf("toggle favorite: %w", domain.ErrUnauthenticated)
	}

	var err error
	if currentlyFavorite {
		err = s.store.RemoveFromSet(ctx, domain.RecipeCollection, recipeID, "favorites", principalID)
	} else {
		err = s.store.AddToSet(ctx, domain.RecipeCollection, recipeID, "favorites", principalID)
	}
	if err != nil {
		return currentlyFavorite, err
	}

	return !currentlyFavorite, nil
}

// IsFavorite reports whether the recipe is favorited by the current
// principal, substituting the guest pseudo-id when nobody is signed in.
// Display-only: guests always read false.
func (s *RecipeService) IsFavorite(ctx context.Context, recipe domain.Recipe) bool {
	return recipe.FavoritedBy(session.PrincipalOrGuest(ctx, s.sessions))
}

// loadOwned fetches the recipe and verifies the current principal authored
// it. Every mutating path goes through here.
func (s *RecipeService) loadOwned(ctx context.Context, id string) (domain.Recipe, error) {
	principalID, ok := s.sessions.CurrentPrincipalID(ctx)
	if !ok {
		return domain.Recipe{}, fmt.Errorf("recipe %s: %w", id, domain.ErrUnauthenticated)
	}

	recipe, err := s.GetRecipe(ctx, id)
	if err != nil {
		return domain.Recipe{}, err
	}
	if recipe.AuthorID != principalID {
		return domain.Recipe{}, fmt.Errorf("recipe %s: %w", id, domain.ErrForbidden)
	}
	return recipe, nil
}

func decodeRecipes(docs []store.Document) ([]domain.Recipe, error) {
	recipes := make([]domain.Recipe, 0, len(docs))
	for _, doc := range docs {
		r, err := domain.RecipeFromFields(doc.ID, doc.Fields)
		if err != nil {
			return nil, fmt.Errorf("decode recipe %s: %w", doc.ID, err)
		}
		recipes = append(recipes, r)
	}
	return recipes, nil
}
