package dataimport

import "context"

// ResolverConfig describes which row field holds the natural key and where
// the resolved id goes.
type ResolverConfig[R any] struct {
	Entity  string // entity name for not-found errors, e.g. "Merchant"
	Field   string // row field holding the key, e.g. "merchant_key"
	KeyKind string // natural key kind for not-found errors, e.g. "key"

	Key    func(row *R) string
	Assign func(row *R, id int64)
	Lookup LookupFunc
}

// Resolver is a step that replaces a natural key on the row with the
// internal id it refers to. Each Resolver owns its cache.
type Resolver[R any] struct {
	field  string
	key    func(row *R) string
	assign func(row *R, id int64)
	cache  *IDCache
}

// NewResolver builds a resolver with an empty cache.
func NewResolver[R any](cfg ResolverConfig[R]) *Resolver[R] {
	kind := cfg.KeyKind
	if kind == "" {
		kind = cfg.Field
	}
	return &Resolver[R]{
		field:  cfg.Field,
		key:    cfg.Key,
		assign: cfg.Assign,
		cache:  NewIDCache(cfg.Entity, kind, cfg.Lookup),
	}
}

// Execute resolves the row's key and writes the id onto the row. An empty
// key fails without touching the store.
func (r *Resolver[R]) Execute(ctx context.Context, row *R) error {
	key := r.key(row)
	if key == "" {
		return Required(r.field)
	}

	id, err := r.cache.Resolve(ctx, key)
	if err != nil {
		return err
	}

	r.assign(row, id)
	return nil
}

// Cached returns the number of keys resolved so far in this run.
func (r *Resolver[R]) Cached() int {
	return r.cache.Len()
}
