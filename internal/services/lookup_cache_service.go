package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/soof-golan/tix-q/internal/constants"
	"github.com/soof-golan/tix-q/internal/models"
	"github.com/soof-golan/tix-q/internal/repositories"
	"github.com/soof-golan/tix-q/internal/utils"
)

// LookupCache provides TTL-bounded resolution of rooms and authenticated
// users, shielding the store from the stampede of lookups a popular room
// produces while its window is open.
//
// Cached entries may be stale for up to the TTL after a room mutation; rooms
// rarely change once published, so that is an accepted bound. Negative room
// lookups are cached too — an invalid id hammered by a bot costs one store
// round-trip per TTL, not one per request.
type LookupCache interface {
	// ResolveRoom returns the room visible to callerID (nil for anonymous),
	// or (nil, nil) when no visible room matches.
	ResolveRoom(ctx context.Context, roomID uuid.UUID, callerID *uuid.UUID) (*models.Room, error)
	// ResolveUser upserts and returns the user for an authenticated
	// external identity.
	ResolveUser(ctx context.Context, externalID, email string) (*models.User, error)
	// InvalidateRoom drops all cached visibility variants of a room after
	// its owner edits or publishes it.
	InvalidateRoom(roomID uuid.UUID)
}

type lookupCache struct {
	rooms      *gocache.Cache
	users      *gocache.Cache
	flight     singleflight.Group
	roomRepo   repositories.RoomRepository
	userRepo   repositories.UserRepository
	maxEntries int
}

func NewLookupCache(roomRepo repositories.RoomRepository, userRepo repositories.UserRepository) LookupCache {
	return &lookupCache{
		rooms:      gocache.New(constants.LookupCacheTTL, constants.LookupCacheTTL),
		users:      gocache.New(constants.LookupCacheTTL, constants.LookupCacheTTL),
		roomRepo:   roomRepo,
		userRepo:   userRepo,
		maxEntries: constants.LookupCacheMaxEntries,
	}
}

// roomKey includes the caller so an unpublished room cached for its owner is
// never served to an anonymous caller under the same id.
func roomKey(roomID uuid.UUID, callerID *uuid.UUID) string {
	caller := "anon"
	if callerID != nil {
		caller = callerID.String()
	}
	return fmt.Sprintf("room:%s|caller:%s", roomID, caller)
}

func (c *lookupCache) ResolveRoom(ctx context.Context, roomID uuid.UUID, callerID *uuid.UUID) (*models.Room, error) {
	key := roomKey(roomID, callerID)
	if v, ok := c.rooms.Get(key); ok {
		room, _ := v.(*models.Room)
		return room, nil
	}

	// Concurrent misses for the same key coalesce into one store call.
	// The shared call runs under the first caller's context.
	v, err, _ := c.flight.Do(key, func() (interface{}, error) {
		room, err := c.roomRepo.GetVisibleByID(ctx, roomID, callerID)
		if err != nil {
			return nil, fmt.Errorf("%w: room lookup: %v", utils.ErrStoreUnavailable, err)
		}
		c.put(c.rooms, key, room)
		return room, nil
	})
	if err != nil {
		return nil, err
	}
	room, _ := v.(*models.Room)
	return room, nil
}

func (c *lookupCache) ResolveUser(ctx context.Context, externalID, email string) (*models.User, error) {
	key := "user:" + externalID
	if v, ok := c.users.Get(key); ok {
		return v.(*models.User), nil
	}

	// Coalesced so a burst of first-sight requests for one identity issues a
	// single upsert; the statement itself is atomic either way.
	v, err, _ := c.flight.Do(key, func() (interface{}, error) {
		user, err := c.userRepo.Upsert(ctx, externalID, email)
		if err != nil {
			return nil, fmt.Errorf("%w: user upsert: %v", utils.ErrStoreUnavailable, err)
		}
		// Only cache after the atomic upsert succeeded.
		c.put(c.users, key, user)
		return user, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*models.User), nil
}

func (c *lookupCache) InvalidateRoom(roomID uuid.UUID) {
	prefix := "room:" + roomID.String() + "|"
	for key := range c.rooms.Items() {
		if len(key) >= len(prefix) && key[:len(prefix)] == prefix {
			c.rooms.Delete(key)
		}
	}
}

// put enforces the entry bound. go-cache has no built-in size cap, so when
// the cache fills up we first drop expired entries, then flush wholesale;
// entries are cheap to refetch and short-lived anyway.
func (c *lookupCache) put(cache *gocache.Cache, key string, value interface{}) {
	if cache.ItemCount() >= c.maxEntries {
		cache.DeleteExpired()
		if cache.ItemCount() >= c.maxEntries {
			cache.Flush()
		}
	}
	cache.Set(key, value, gocache.DefaultExpiration)
}
