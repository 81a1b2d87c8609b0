package cache

import (
	"Petrel/internal/pkg/redis"
	"context"
	"time"
)

// sentinel marks a populated-but-empty set so a cache miss can be told apart
// from an empty relationship list.
const sentinel = "\x00"

// Loader fetches the full id set for one owner from the backing store.
type Loader func(ctx context.Context, ownerID string) ([]string, error)

// SetCache is a lazily populated, redis-backed id set keyed per owner. The
// timeline store only ever reads it; the owning subsystem invalidates it on
// relationship change.
type SetCache struct {
	prefix string
	ttl    time.Duration
	loader Loader
}

func NewSetCache(prefix string, ttl time.Duration, loader Loader) *SetCache {
	return &SetCache{prefix: prefix, ttl: ttl, loader: loader}
}

// Init returns the handle for one owner's set.
func (c *SetCache) Init(ownerID string) *SetHandle {
	return &SetHandle{cache: c, ownerID: ownerID}
}

type SetHandle struct {
	cache   *SetCache
	ownerID string
}

func (h *SetHandle) key() string {
	return h.cache.prefix + ":" + h.ownerID
}

// GetAll returns every id in the set, loading it on first use.
func (h *SetHandle) GetAll(ctx context.Context) ([]string, error) {
	exists, err := redis.Exists(ctx, h.key())
	if err != nil {
		return nil, err
	}

	if exists {
		members, err := redis.GetSet(ctx, h.key())
		if err != nil {
			return nil, err
		}
		return dropSentinel(members), nil
	}

	ids, err := h.cache.loader(ctx, h.ownerID)
	if err != nil {
		return nil, err
	}

	if err := redis.SetSetWithExpiration(ctx, h.key(), append([]string{sentinel}, ids...), h.cache.ttl); err != nil {
		return nil, err
	}

	return ids, nil
}

// Has reports membership without materializing the whole set for the caller.
func (h *SetHandle) Has(ctx context.Context, id string) (bool, error) {
	ids, err := h.GetAll(ctx)
	if err != nil {
		return false, err
	}
	for _, v := range ids {
		if v == id {
			return true, nil
		}
	}
	return false, nil
}

// Invalidate drops the cached set.
func (h *SetHandle) Invalidate(ctx context.Context) error {
	return redis.DeleteKey(ctx, h.key())
}

func dropSentinel(members []string) []string {
	out := make([]string, 0, len(members))
	for _, m := range members {
		if m != sentinel {
			out = append(out, m)
		}
	}
	return out
}
