package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/forkful/forkful-backend/internal/domain"
	"github.com/forkful/forkful-backend/internal/storage"
)

// PlaceholderImageURL is rendered whenever an image URL cannot be resolved.
// A recipe must never show a broken image.
const PlaceholderImageURL = "https://i.ibb.co/0jZ3Q0T/recipe-placeholder.png"

// maxImageSize caps a single upload at 10 MiB.
const maxImageSize = 10 << 20

// ImageService turns locally captured image files into durable remote URLs
// and resolves stored paths back into fetchable URLs at render time.
type ImageService struct {
	blobs  storage.BlobStore
	logger zerolog.Logger
}

// NewImageService creates a new ImageService instance.
func NewImageService(blobs storage.BlobStore, logger zerolog.Logger) *ImageService {
	return &ImageService{
		blobs:  blobs,
		logger: logger.With().Str("service", "image").Logger(),
	}
}

// UploadRecipeImage reads the file and writes it to the blob store under a
// fresh key, returning the durable URL to embed in the recipe. Any failure
// is domain.ErrUploadFailed; the caller keeps its local preview and may
// retry.
func (s *ImageService) UploadRecipeImage(ctx context.Context, file io.Reader, filename string) (string, error) {
	data, err := io.ReadAll(io.LimitReader(file, maxImageSize+1))
	if err != nil {
		return "", fmt.Errorf("%w: read %s: %v", domain.ErrUploadFailed, filename, err)
	}
	if len(data) == 0 {
		return "", fmt.Errorf("%w: %s is empty", domain.ErrUploadFailed, filename)
	}
	if len(data) > maxImageSize {
		return "", fmt.Errorf("%w: %s exceeds %d bytes", domain.ErrUploadFailed, filename, maxImageSize)
	}

	ext := strings.ToLower(path.Ext(filename))
	if ext == "" {
		ext = ".jpg"
	}
	key := fmt.Sprintf("recipe-images/%s%s", uuid.NewString(), ext)

	url, err := s.blobs.Upload(ctx, data, key, contentTypeForExt(ext))
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("image upload failed")
		return "", fmt.Errorf("%w: %v", domain.ErrUploadFailed, err)
	}

	s.logger.Info().Str("key", key).Int("bytes", len(data)).Msg("image uploaded")
	return url, nil
}

// ResolveImageURL lazily turns whatever is stored in imageUrl into a
// fetchable URL. Absolute URLs pass through, storage-relative paths are
// resolved against the blob store, and any failure (or an empty value)
// falls back to the placeholder.
func (s *ImageService) ResolveImageURL(ctx context.Context, imageURL string) string {
	if imageURL == "" {
		return PlaceholderImageURL
	}
	if strings.HasPrefix(imageURL, "http://") || strings.HasPrefix(imageURL, "https://") {
		return imageURL
	}

	resolved, err := s.blobs.ResolveURL(ctx, imageURL)
	if err != nil {
		s.logger.Warn().Err(err).Str("path", imageURL).Msg("image resolution failed, using placeholder")
		return PlaceholderImageURL
	}
	return resolved
}

func contentTypeForExt(ext string) string {
	switch ext {
	case ".png":
		return "image/png"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "image/jpeg"
	}
}
