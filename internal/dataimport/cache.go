package dataimport

import (
	"context"
	"errors"

	"github.com/JonMunkholm/MerchantImport/internal/store"
)

// LookupFunc resolves a natural key to an internal id. It must return
// store.ErrNotFound (possibly wrapped) when nothing matches.
type LookupFunc func(ctx context.Context, key string) (int64, error)

// IDCache memoises successful lookups for one import run.
//
// Entries are written once and never invalidated. Failed lookups are not
// cached. An IDCache is not safe for concurrent use; a run is sequential.
type IDCache struct {
	entity string
	field  string
	lookup LookupFunc
	ids    map[string]int64
}

// NewIDCache returns an empty cache. entity and field only feed error
// messages ("could not find <entity> by <field> ...").
func NewIDCache(entity, field string, lookup LookupFunc) *IDCache {
	return &IDCache{
		entity: entity,
		field:  field,
		lookup: lookup,
		ids:    make(map[string]int64),
	}
}

// Resolve returns the id for key, querying the lookup at most once per key
// for the lifetime of the cache.
func (c *IDCache) Resolve(ctx context.Context, key string) (int64, error) {
	if id, ok := c.ids[key]; ok {
		return id, nil
	}

	id, err := c.lookup(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return 0, &EntityNotFoundError{Entity: c.entity, Field: c.field, Value: key}
	}
	if err != nil {
		// Store failures pass through untouched; the caller decides.
		return 0, err
	}

	c.ids[key] = id
	return id, nil
}

// Len returns the number of cached keys.
func (c *IDCache) Len() int {
	return len(c.ids)
}
