package service

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/forkful/forkful-backend/internal/domain"
	"github.com/forkful/forkful-backend/internal/session"
	"github.com/forkful/forkful-backend/internal/store"
)

func TestGetProfile(t *testing.T) {
	docs := store.NewMemory()
	auth := NewAuthService(docs, NewMemoryTokenRegistry(), testJWTSecret, zerolog.Nop())
	ctx := context.Background()

	_, user, err := auth.Register(ctx, registerReq())
	require.NoError(t, err)

	profiles := NewProfileService(docs, session.Static(user.ID), zerolog.Nop())
	got, err := profiles.GetProfile(ctx)
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, user.Email, got.Email)
	assert.Equal(t, user.DisplayName, got.DisplayName)
}

func TestGetProfileRequiresPrincipal(t *testing.T) {
	profiles := NewProfileService(store.NewMemory(), session.Static(""), zerolog.Nop())

	_, err := profiles.GetProfile(context.Background())
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestUpdateProfileMerges(t *testing.T) {
	docs := store.NewMemory()
	auth := NewAuthService(docs, NewMemoryTokenRegistry(), testJWTSecret, zerolog.Nop())
	ctx := context.Background()

	_, user, err := auth.Register(ctx, registerReq())
	require.NoError(t, err)

	profiles := NewProfileService(docs, session.Static(user.ID), zerolog.Nop())

	name := "Chef Cook"
	got, err := profiles.UpdateProfile(ctx, domain.UserPatch{DisplayName: &name})
	require.NoError(t, err)
	assert.Equal(t, "Chef Cook", got.DisplayName)
	// Omitted fields survive the merge.
	assert.Equal(t, user.Email, got.Email)
	assert.Equal(t, user.PhotoURL, got.PhotoURL)

	// An empty patch is a read.
	again, err := profiles.UpdateProfile(ctx, domain.UserPatch{})
	require.NoError(t, err)
	assert.Equal(t, got.DisplayName, again.DisplayName)
	assert.Equal(t, got.UpdatedAt, again.UpdatedAt)
}
