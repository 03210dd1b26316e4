package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/forkful/forkful-backend/internal/domain"
	"github.com/forkful/forkful-backend/internal/session"
	"github.com/forkful/forkful-backend/internal/store"
)

// ProfileService reads and merge-writes the current principal's user
// document.
type ProfileService struct {
	store    store.DocumentStore
	sessions session.Provider
	logger   zerolog.Logger
}

// NewProfileService creates a new ProfileService instance.
func NewProfileService(docs store.DocumentStore, sessions session.Provider, logger zerolog.Logger) *ProfileService {
	return &ProfileService{
		store:    docs,
		sessions: sessions,
		logger:   logger.With().Str("service", "profile").Logger(),
	}
}

// GetProfile returns the current principal's profile.
func (s *ProfileService) GetProfile(ctx context.Context) (domain.User, error) {
	principalID, ok := s.sessions.CurrentPrincipalID(ctx)
	if !ok {
		return domain.User{}, fmt.Errorf("get profile: %w", domain.ErrUnauthenticated)
	}

	doc, err := s.store.GetByID(ctx, domain.UserCollection, principalID)
	if err != nil {
		return domain.User{}, err
	}
	return domain.UserFromFields(doc.ID, doc.Fields)
}

// UpdateProfile merges the supplied fields into the user document. Omitted
// fields keep their stored values.
func (s *ProfileService) UpdateProfile(ctx context.Context, patch domain.UserPatch) (domain.User, error) {
	if err := patch.Validate(); err != nil {
		return domain.User{}, err
	}

	principalID, ok := s.sessions.CurrentPrincipalID(ctx)
	if !ok {
		return domain.User{}, fmt.Errorf("update profile: %w", domain.ErrUnauthenticated)
	}

	fields := patch.Fields()
	if len(fields) > 0 {
		fields["updatedAt"] = time.Now().UTC().Format(time.RFC3339Nano)
		if err := s.store.Update(ctx, domain.UserCollection, principalID, fields); err != nil {
			return domain.User{}, err
		}
		s.logger.Info().Str("user_id", principalID).Msg("profile updated")
	}

	return s.GetProfile(ctx)
}
