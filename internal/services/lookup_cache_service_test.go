package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/soof-golan/tix-q/internal/models"
	"github.com/soof-golan/tix-q/internal/utils"
)

func publishedRoom() *models.Room {
	return &models.Room{
		ID:        uuid.New(),
		OwnerID:   uuid.New(),
		Title:     "Community Event",
		OpensAt:   time.Date(2023, 6, 1, 10, 0, 0, 0, time.UTC),
		ClosesAt:  time.Date(2023, 6, 1, 11, 0, 0, 0, time.UTC),
		Published: true,
	}
}

func TestResolveRoomCachesWithinTTL(t *testing.T) {
	room := publishedRoom()
	repo := newFakeRoomRepo(room)
	cache := NewLookupCache(repo, newFakeUserRepo())
	ctx := context.Background()

	first, err := cache.ResolveRoom(ctx, room.ID, nil)
	require.NoError(t, err)
	require.Equal(t, room, first)

	second, err := cache.ResolveRoom(ctx, room.ID, nil)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, repo.getCalls, "second resolution within TTL must not hit the store")
}

func TestResolveRoomCachesNegativeLookups(t *testing.T) {
	repo := newFakeRoomRepo()
	cache := NewLookupCache(repo, newFakeUserRepo())
	ctx := context.Background()

	unknown := uuid.New()
	for i := 0; i < 3; i++ {
		room, err := cache.ResolveRoom(ctx, unknown, nil)
		require.NoError(t, err)
		require.Nil(t, room)
	}
	require.Equal(t, 1, repo.getCalls)
}

func TestResolveRoomVisibilityDoesNotLeakAcrossCallers(t *testing.T) {
	room := publishedRoom()
	room.Published = false
	repo := newFakeRoomRepo(room)
	cache := NewLookupCache(repo, newFakeUserRepo())
	ctx := context.Background()

	// Owner sees the unpublished room.
	got, err := cache.ResolveRoom(ctx, room.ID, &room.OwnerID)
	require.NoError(t, err)
	require.NotNil(t, got)

	// Anonymous caller must not — even though the owner's lookup is cached.
	anon, err := cache.ResolveRoom(ctx, room.ID, nil)
	require.NoError(t, err)
	require.Nil(t, anon)
	require.Equal(t, 2, repo.getCalls, "distinct visibility variants use distinct cache keys")
}

func TestResolveRoomStoreFailure(t *testing.T) {
	repo := newFakeRoomRepo()
	repo.err = errors.New("connection refused")
	cache := NewLookupCache(repo, newFakeUserRepo())

	_, err := cache.ResolveRoom(context.Background(), uuid.New(), nil)
	require.ErrorIs(t, err, utils.ErrStoreUnavailable)

	// Failures are not cached: the next call goes back to the store.
	repo.err = nil
	_, err = cache.ResolveRoom(context.Background(), uuid.New(), nil)
	require.NoError(t, err)
}

func TestResolveUserCoalescesUpserts(t *testing.T) {
	repo := newFakeUserRepo()
	cache := NewLookupCache(newFakeRoomRepo(), repo)
	ctx := context.Background()

	first, err := cache.ResolveUser(ctx, "provider|abc123", "soof@example.com")
	require.NoError(t, err)
	require.Equal(t, "provider|abc123", first.ExternalID)

	second, err := cache.ResolveUser(ctx, "provider|abc123", "soof@example.com")
	require.NoError(t, err)
	require.Equal(t, first.ID, second.ID)
	require.Equal(t, 1, repo.upsertCalls, "repeated principal within TTL must not re-upsert")

	// A different identity is its own key.
	_, err = cache.ResolveUser(ctx, "provider|other", "other@example.com")
	require.NoError(t, err)
	require.Equal(t, 2, repo.upsertCalls)
}

func TestInvalidateRoomDropsAllVariants(t *testing.T) {
	room := publishedRoom()
	repo := newFakeRoomRepo(room)
	cache := NewLookupCache(repo, newFakeUserRepo())
	ctx := context.Background()

	_, err := cache.ResolveRoom(ctx, room.ID, nil)
	require.NoError(t, err)
	_, err = cache.ResolveRoom(ctx, room.ID, &room.OwnerID)
	require.NoError(t, err)
	require.Equal(t, 2, repo.getCalls)

	cache.InvalidateRoom(room.ID)

	_, err = cache.ResolveRoom(ctx, room.ID, nil)
	require.NoError(t, err)
	require.Equal(t, 3, repo.getCalls, "invalidation forces a fresh fetch")
}
