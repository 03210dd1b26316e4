package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkful/forkful-backend/internal/domain"
)

// runDocumentStoreTests is the conformance suite shared by every
// DocumentStore implementation.
func runDocumentStoreTests(t *testing.T, newStore func(t *testing.T) DocumentStore) {
	ctx := context.Background()

	t.Run("insert and get by id", func(t *testing.T) {
		s := newStore(t)
		id, err := s.Insert(ctx, "recipes", map[string]any{"title": "Pho", "favorites": []string{}})
		require.NoError(t, err)
		require.NotEmpty(t, id)

		doc, err := s.GetByID(ctx, "recipes", id)
		require.NoError(t, err)
		assert.Equal(t, id, doc.ID)
		assert.Equal(t, "Pho", doc.Fields["title"])
	})

	t.Run("get missing id", func(t *testing.T) {
		s := newStore(t)
		_, err := s.GetByID(ctx, "recipes", "nope")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("collections are disjoint", func(t *testing.T) {
		s := newStore(t)
		id, err := s.Insert(ctx, "recipes", map[string]any{"title": "Pho"})
		require.NoError(t, err)

		_, err = s.GetByID(ctx, "users", id)
		assert.ErrorIs(t, err, domain.ErrNotFound)

		docs, err := s.GetAll(ctx, "users")
		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("get all", func(t *testing.T) {
		s := newStore(t)
		for _, title := range []string{"Pho", "Ramen", "Laksa"} {
			_, err := s.Insert(ctx, "recipes", map[string]any{"title": title})
			require.NoError(t, err)
		}
		docs, err := s.GetAll(ctx, "recipes")
		require.NoError(t, err)
		assert.Len(t, docs, 3)
	})

	t.Run("query equals", func(t *testing.T) {
		s := newStore(t)
		_, err := s.Insert(ctx, "recipes", map[string]any{"title": "Pho", "category": "Dinner"})
		require.NoError(t, err)
		_, err = s.Insert(ctx, "recipes", map[string]any{"title": "Pancakes", "category": "Breakfast"})
		require.NoError(t, err)

		docs, err := s.QueryEquals(ctx, "recipes", "category", "Dinner")
		require.NoError(t, err)
		require.Len(t, docs, 1)
		assert.Equal(t, "Pho", docs[0].Fields["title"])

		// Exact match only.
		docs, err = s.QueryEquals(ctx, "recipes", "category", "dinner")
		require.NoError(t, err)
		assert.Empty(t, docs)
	})

	t.Run("partial update merges", func(t *testing.T) {
		s := newStore(t)
		id, err := s.Insert(ctx, "recipes", map[string]any{"title": "Pho", "category": "Dinner"})
		require.NoError(t, err)

		require.NoError(t, s.Update(ctx, "recipes", id, map[string]any{"title": "Beef Pho"}))

		doc, err := s.GetByID(ctx, "recipes", id)
		require.NoError(t, err)
		assert.Equal(t, "Beef Pho", doc.Fields["title"])
		assert.Equal(t, "Dinner", doc.Fields["category"])
	})

	t.Run("update missing id", func(t *testing.T) {
		s := newStore(t)
		err := s.Update(ctx, "recipes", "nope", map[string]any{"title": "x"})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("delete", func(t *testing.T) {
		s := newStore(t)
		id, err := s.Insert(ctx, "recipes", map[string]any{"title": "Pho"})
		require.NoError(t, err)

		require.NoError(t, s.Delete(ctx, "recipes", id))

		_, err = s.GetByID(ctx, "recipes", id)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.ErrorIs(t, s.Delete(ctx, "recipes", id), domain.ErrNotFound)
	})

	t.Run("add to set is idempotent", func(t *testing.T) {
		s := newStore(t)
		id, err := s.Insert(ctx, "recipes", map[string]any{"favorites": []string{}})
		require.NoError(t, err)

		require.NoError(t, s.AddToSet(ctx, "recipes", id, "favorites", "u1"))
		require.NoError(t, s.AddToSet(ctx, "recipes", id, "favorites", "u1"))
		require.NoError(t, s.AddToSet(ctx, "recipes", id, "favorites", "u2"))

		doc, err := s.GetByID(ctx, "recipes", id)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"u1", "u2"}, StringSet(doc.Fields["favorites"]))
	})

	t.Run("remove from set is idempotent", func(t *testing.T) {
		s := newStore(t)
		id, err := s.Insert(ctx, "recipes", map[string]any{"favorites": []string{"u1", "u2"}})
		require.NoError(t, err)

		require.NoError(t, s.RemoveFromSet(ctx, "recipes", id, "favorites", "u1"))
		require.NoError(t, s.RemoveFromSet(ctx, "recipes", id, "favorites", "u1"))

		doc, err := s.GetByID(ctx, "recipes", id)
		require.NoError(t, err)
		assert.Equal(t, []string{"u2"}, StringSet(doc.Fields["favorites"]))
	})

	t.Run("set ops on missing field start empty", func(t *testing.T) {
		s := newStore(t)
		id, err := s.Insert(ctx, "recipes", map[string]any{"title": "Pho"})
		require.NoError(t, err)

		require.NoError(t, s.AddToSet(ctx, "recipes", id, "favorites", "u1"))

		doc, err := s.GetByID(ctx, "recipes", id)
		require.NoError(t, err)
		assert.Equal(t, []string{"u1"}, StringSet(doc.Fields["favorites"]))
	})

	t.Run("set ops on missing document", func(t *testing.T) {
		s := newStore(t)
		assert.ErrorIs(t, s.AddToSet(ctx, "recipes", "nope", "favorites", "u1"), domain.ErrNotFound)
		assert.ErrorIs(t, s.RemoveFromSet(ctx, "recipes", "nope", "favorites", "u1"), domain.ErrNotFound)
	})
}

func TestMemoryStore(t *testing.T) {
	runDocumentStoreTests(t, func(t *testing.T) DocumentStore {
		return NewMemory()
	})
}

func TestMemoryStoreFailureInjection(t *testing.T) {
	s := NewMemory()
	s.Fail = errors.New("down")
	ctx := context.Background()

	_, err := s.Insert(ctx, "recipes", map[string]any{})
	assert.ErrorIs(t, err, domain.ErrUnavailable)
	_, err = s.GetAll(ctx, "recipes")
	assert.ErrorIs(t, err, domain.ErrUnavailable)
	assert.ErrorIs(t, s.AddToSet(ctx, "recipes", "x", "favorites", "u1"), domain.ErrUnavailable)
}

func TestMemoryStoreIsolatesCallers(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	fields := map[string]any{"title": "Pho"}
	id, err := s.Insert(ctx, "recipes", fields)
	require.NoError(t, err)

	// Mutating the caller's map after insert must not leak into the store.
	fields["title"] = "Changed"
	doc, err := s.GetByID(ctx, "recipes", id)
	require.NoError(t, err)
	assert.Equal(t, "Pho", doc.Fields["title"])

	// Mutating a returned document must not leak either.
	doc.Fields["title"] = "Changed"
	again, err := s.GetByID(ctx, "recipes", id)
	require.NoError(t, err)
	assert.Equal(t, "Pho", again.Fields["title"])
}
