package service

import (
	"context"
	"errors"
	"testing"

	"github.com/phongtro/phongtro/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFavoriteListPopulatesSet(t *testing.T) {
	repo := newFakeRepo()
	repo.favorites = []*domain.Favorite{{ListingID: "a"}, {ListingID: "b"}}
	svc := NewFavoriteService(repo, newCache(t), testLogger)

	assert.False(t, svc.Loaded())
	_, err := svc.List(context.Background())
	require.NoError(t, err)

	assert.True(t, svc.Loaded())
	assert.True(t, svc.IsFavorite("a"))
	assert.False(t, svc.IsFavorite("z"))
}

func TestToggleOptimisticSuccess(t *testing.T) {
	repo := newFakeRepo()
	svc := NewFavoriteService(repo, newCache(t), testLogger)

	saved, err := svc.Toggle(context.Background(), "a")
	require.NoError(t, err)
	assert.True(t, saved)
	assert.True(t, svc.IsFavorite("a"))

	saved, err = svc.Toggle(context.Background(), "a")
	require.NoError(t, err)
	assert.False(t, saved)
	assert.False(t, svc.IsFavorite("a"))

	assert.Equal(t, 1, repo.count("AddFavorite"))
	assert.Equal(t, 1, repo.count("RemoveFavorite"))
}

func TestToggleRollsBackOnFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.favErr = domain.ErrServerOffline
	svc := NewFavoriteService(repo, newCache(t), testLogger)

	now := svc.Begin("a")
	assert.True(t, now)
	assert.True(t, svc.IsFavorite("a"), "flip is visible before the request completes")

	err := svc.Commit(context.Background(), "a", now)
	assert.ErrorIs(t, err, domain.ErrServerOffline)
	assert.False(t, svc.IsFavorite("a"), "flip is rolled back")
}

func TestRollbackSkippedAfterNewerToggle(t *testing.T) {
	repo := newFakeRepo()
	repo.favErr = errors.New("boom")
	svc := NewFavoriteService(repo, newCache(t), testLogger)

	first := svc.Begin("a")  // true
	second := svc.Begin("a") // false
	require.True(t, first)
	require.False(t, second)

	_ = svc.Commit(context.Background(), "a", first)
	assert.False(t, svc.IsFavorite("a"), "newer state is kept")
}

func TestToggleTreatsAlreadySavedAsSuccess(t *testing.T) {
	repo := newFakeRepo()
	repo.favErr = domain.ErrConflict
	svc := NewFavoriteService(repo, newCache(t), testLogger)

	saved, err := svc.Toggle(context.Background(), "a")
	require.NoError(t, err)
	assert.True(t, saved)
}

func TestToggleInvalidatesFavoriteList(t *testing.T) {
	repo := newFakeRepo()
	svc := NewFavoriteService(repo, newCache(t), testLogger)
	ctx := context.Background()

	_, err := svc.List(ctx)
	require.NoError(t, err)
	_, err = svc.Toggle(ctx, "a")
	require.NoError(t, err)
	_, err = svc.List(ctx)
	require.NoError(t, err)

	assert.Equal(t, 2, repo.count("ListFavorites"))
}
