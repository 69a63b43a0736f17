package dataimport

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/MerchantImport/internal/store"
)

type row struct {
	Key string
	ID  int64
}

// countingLookup serves ids from a map and counts calls per key.
type countingLookup struct {
	ids   map[string]int64
	calls map[string]int
	err   error
}

func newCountingLookup(ids map[string]int64) *countingLookup {
	return &countingLookup{ids: ids, calls: make(map[string]int)}
}

func (l *countingLookup) Lookup(_ context.Context, key string) (int64, error) {
	l.calls[key]++
	if l.err != nil {
		return 0, l.err
	}
	id, ok := l.ids[key]
	if !ok {
		return 0, store.ErrNotFound
	}
	return id, nil
}

func (l *countingLookup) total() int {
	n := 0
	for _, c := range l.calls {
		n += c
	}
	return n
}

func newTestResolver(lookup LookupFunc) *Resolver[row] {
	return NewResolver(ResolverConfig[row]{
		Entity:  "Merchant",
		Field:   "merchant_key",
		KeyKind: "key",
		Key:     func(r *row) string { return r.Key },
		Assign:  func(r *row, id int64) { r.ID = id },
		Lookup:  lookup,
	})
}

func TestResolver_AssignsID(t *testing.T) {
	lookup := newCountingLookup(map[string]int64{"m1": 42})
	r := newTestResolver(lookup.Lookup)

	got := row{Key: "m1"}
	require.NoError(t, r.Execute(context.Background(), &got))

	assert.Equal(t, int64(42), got.ID)
	assert.Equal(t, 1, r.Cached())
}

func TestResolver_CachesSuccessfulLookups(t *testing.T) {
	lookup := newCountingLookup(map[string]int64{"m1": 42, "m2": 7})
	r := newTestResolver(lookup.Lookup)
	ctx := context.Background()

	for _, key := range []string{"m1", "m2", "m1", "m1", "m2"} {
		got := row{Key: key}
		require.NoError(t, r.Execute(ctx, &got))
		assert.Equal(t, lookup.ids[key], got.ID)
	}

	assert.Equal(t, 1, lookup.calls["m1"])
	assert.Equal(t, 1, lookup.calls["m2"])
	assert.Equal(t, 2, r.Cached())
}

func TestResolver_EmptyKeyIsInvalidWithoutLookup(t *testing.T) {
	lookup := newCountingLookup(map[string]int64{"m1": 42})
	r := newTestResolver(lookup.Lookup)

	got := row{}
	err := r.Execute(context.Background(), &got)

	require.ErrorIs(t, err, ErrInvalidData)
	var invalid *InvalidDataError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "merchant_key", invalid.Field)
	assert.Equal(t, `"merchant_key" is required.`, err.Error())
	assert.Zero(t, lookup.total())
	assert.Zero(t, got.ID)
}

func TestResolver_NotFoundIsNeverCached(t *testing.T) {
	lookup := newCountingLookup(map[string]int64{})
	r := newTestResolver(lookup.Lookup)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		got := row{Key: "ghost"}
		err := r.Execute(ctx, &got)

		require.ErrorIs(t, err, ErrEntityNotFound)
		var nf *EntityNotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "ghost", nf.Value)
		assert.Equal(t, `could not find Merchant by key "ghost"`, err.Error())
		assert.Zero(t, r.Cached())
	}

	assert.Equal(t, 2, lookup.calls["ghost"], "a miss must be looked up again")

	// Once the merchant exists the same resolver finds it.
	lookup.ids["ghost"] = 9
	got := row{Key: "ghost"}
	require.NoError(t, r.Execute(ctx, &got))
	assert.Equal(t, int64(9), got.ID)
}

func TestResolver_StoreErrorsPassThrough(t *testing.T) {
	boom := errors.New("connection reset by peer")
	lookup := newCountingLookup(nil)
	lookup.err = fmt.Errorf("lookup: %w", boom)
	r := newTestResolver(lookup.Lookup)

	err := r.Execute(context.Background(), &row{Key: "m1"})

	assert.Same(t, lookup.err, err)
	assert.NotErrorIs(t, err, ErrEntityNotFound)
	assert.Zero(t, r.Cached())
}

func TestResolver_WrappedNotFound(t *testing.T) {
	r := newTestResolver(func(context.Context, string) (int64, error) {
		return 0, fmt.Errorf("query merchant: %w", store.ErrNotFound)
	})

	err := r.Execute(context.Background(), &row{Key: "m1"})
	assert.ErrorIs(t, err, ErrEntityNotFound)
}

func TestResolver_CachesAreNotShared(t *testing.T) {
	lookup := newCountingLookup(map[string]int64{"m1": 42})
	first := newTestResolver(lookup.Lookup)
	second := newTestResolver(lookup.Lookup)
	ctx := context.Background()

	require.NoError(t, first.Execute(ctx, &row{Key: "m1"}))
	require.NoError(t, second.Execute(ctx, &row{Key: "m1"}))

	assert.Equal(t, 2, lookup.calls["m1"])
}

func TestIDCache_Resolve(t *testing.T) {
	lookup := newCountingLookup(map[string]int64{"en_US": 66})
	c := NewIDCache("Locale", "name", lookup.Lookup)
	ctx := context.Background()

	id, err := c.Resolve(ctx, "en_US")
	require.NoError(t, err)
	assert.Equal(t, int64(66), id)

	_, err = c.Resolve(ctx, "en_US")
	require.NoError(t, err)
	assert.Equal(t, 1, lookup.calls["en_US"])

	_, err = c.Resolve(ctx, "xx_XX")
	assert.EqualError(t, err, `could not find Locale by name "xx_XX"`)
	assert.Equal(t, 1, c.Len())
}
