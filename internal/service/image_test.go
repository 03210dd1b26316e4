package service

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkful/forkful-backend/internal/domain"
	"github.com/forkful/forkful-backend/internal/session"
	"github.com/forkful/forkful-backend/internal/storage"
	"github.com/forkful/forkful-backend/internal/store"
)

func TestUploadRecipeImage(t *testing.T) {
	blobs := storage.NewMemory()
	svc := NewImageService(blobs, zerolog.Nop())

	url, err := svc.UploadRecipeImage(context.Background(), bytes.NewReader([]byte("jpegdata")), "photo.JPG")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "memblob://recipe-images/"))
	assert.True(t, strings.HasSuffix(url, ".jpg"))

	stored, ok := blobs.Object(strings.TrimPrefix(url, "memblob://"))
	require.True(t, ok)
	assert.Equal(t, []byte("jpegdata"), stored)
}

func TestUploadRecipeImageDistinctKeys(t *testing.T) {
	blobs := storage.NewMemory()
	svc := NewImageService(blobs, zerolog.Nop())
	ctx := context.Background()

	first, err := svc.UploadRecipeImage(ctx, bytes.NewReader([]byte("a")), "same.png")
	require.NoError(t, err)
	second, err := svc.UploadRecipeImage(ctx, bytes.NewReader([]byte("b")), "same.png")
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestUploadRecipeImageRejectsBadInput(t *testing.T) {
	svc := NewImageService(storage.NewMemory(), zerolog.Nop())
	ctx := context.Background()

	_, err := svc.UploadRecipeImage(ctx, bytes.NewReader(nil), "empty.jpg")
	assert.ErrorIs(t, err, domain.ErrUploadFailed)

	oversized := bytes.NewReader(make([]byte, maxImageSize+1))
	_, err = svc.UploadRecipeImage(ctx, oversized, "huge.jpg")
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
}

func TestUploadRecipeImageStoreOutage(t *testing.T) {
	blobs := storage.NewMemory()
	blobs.Fail = errors.New("bucket unreachable")
	svc := NewImageService(blobs, zerolog.Nop())

	_, err := svc.UploadRecipeImage(context.Background(), bytes.NewReader([]byte("x")), "photo.jpg")
	assert.ErrorIs(t, err, domain.ErrUploadFailed)
}

func TestResolveImageURL(t *testing.T) {
	blobs := storage.NewMemory()
	svc := NewImageService(blobs, zerolog.Nop())
	ctx := context.Background()

	url, err := svc.UploadRecipeImage(ctx, bytes.NewReader([]byte("x")), "photo.jpg")
	require.NoError(t, err)
	key := strings.TrimPrefix(url, "memblob://")

	// Empty value falls back to the placeholder.
	assert.Equal(t, PlaceholderImageURL, svc.ResolveImageURL(ctx, ""))

	// Absolute URLs pass through untouched.
	assert.Equal(t, "https://example.com/a.png", svc.ResolveImageURL(ctx, "https://example.com/a.png"))
	assert.Equal(t, "http://example.com/a.png", svc.ResolveImageURL(ctx, "http://example.com/a.png"))

	// Storage-relative paths resolve against the blob store.
	assert.Equal(t, url, svc.ResolveImageURL(ctx, key))

	// Resolution failures degrade to the placeholder, never an error.
	assert.Equal(t, PlaceholderImageURL, svc.ResolveImageURL(ctx, "recipe-images/gone.jpg"))

	blobs.Fail = errors.New("bucket unreachable")
	assert.Equal(t, PlaceholderImageURL, svc.ResolveImageURL(ctx, key))
}

// A failed upload leaves recipe creation fully usable: the recipe is saved
// without an image and renders the placeholder.
func TestRecipeCreationSurvivesUploadFailure(t *testing.T) {
	blobs := storage.NewMemory()
	blobs.Fail = errors.New("bucket unreachable")
	images := NewImageService(blobs, zerolog.Nop())
	recipes := NewRecipeService(store.NewMemory(), session.Static("u1"), zerolog.Nop())
	ctx := context.Background()

	_, err := images.UploadRecipeImage(ctx, bytes.NewReader([]byte("x")), "photo.jpg")
	require.ErrorIs(t, err, domain.ErrUploadFailed)

	id, err := recipes.CreateRecipe(ctx, testDraft())
	require.NoError(t, err)
	got, err := recipes.GetRecipe(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, got.ImageURL)
	assert.Equal(t, PlaceholderImageURL, images.ResolveImageURL(ctx, got.ImageURL))
}

func TestContentTypeForExt(t *testing.T) {
	assert.Equal(t, "image/png", contentTypeForExt(".png"))
	assert.Equal(t, "image/gif", contentTypeForExt(".gif"))
	assert.Equal(t, "image/webp", contentTypeForExt(".webp"))
	assert.Equal(t, "image/jpeg", contentTypeForExt(".jpg"))
	assert.Equal(t, "image/jpeg", contentTypeForExt(""))
}
