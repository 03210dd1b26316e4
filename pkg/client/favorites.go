package client

import (
	"context"
	"sync"
)

// FavoriteState is the optimistic favorite toggle: the local boolean flips
// the moment the user taps, then is confirmed by the server's answer or
// reverted if the call fails. The screen renders Favorite() throughout and
// never waits on the network.
type FavoriteState struct {
	mu       sync.Mutex
	favorite bool
}

// NewFavoriteState starts from the state the recipe was loaded with.
func NewFavoriteState(initial bool) *FavoriteState {
	return &FavoriteState{favorite: initial}
}

// Favorite returns the state to render right now, tentative or settled.
func (s *FavoriteState) Favorite() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.favorite
}

// Toggle flips the local state immediately, then settles it against the
// server: on success the server's answer sticks, on failure the previous
// state is restored and the error reported.
func (s *FavoriteState) Toggle(ctx context.Context, c *Client, recipeID string) (bool, error) {
	s.mu.Lock()
	prev := s.favorite
	s.favorite = !prev
	s.mu.Unlock()

	settled, err := c.ToggleFavorite(ctx, recipeID, prev)

	s.mu.Lock()
	defer s.mu.Unlock()
	if err != nil {
		s.favorite = prev
		return prev, err
	}
	s.favorite = settled
	return settled, nil
}
