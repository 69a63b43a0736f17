package merchant

import (
	"context"
	"fmt"

	"github.com/JonMunkholm/MerchantImport/internal/store"
)

// memStore is an in-memory stand-in for store.Queries that counts writes.
type memStore struct {
	merchants map[string]store.Merchant // by merchant key
	urls      map[[2]int64]store.URL    // by (merchant, locale)
	links     map[[2]int64]store.MerchantStore
	addresses map[int64]store.MerchantAddress // by merchant
	nextID    int64

	merchantCreates, merchantUpdates int
	urlCreates, urlUpdates           int
	linkCreates                      int
	addressCreates, addressUpdates   int
	lookups                          int

	failURLLocale int64 // CreateURL/UpdateURL fails for this locale
}

func newMemStore() *memStore {
	return &memStore{
		merchants: make(map[string]store.Merchant),
		urls:      make(map[[2]int64]store.URL),
		links:     make(map[[2]int64]store.MerchantStore),
		addresses: make(map[int64]store.MerchantAddress),
	}
}

func (s *memStore) id() int64 {
	s.nextID++
	return s.nextID
}

func (s *memStore) writes() int {
	return s.merchantCreates + s.merchantUpdates + s.urlCreates + s.urlUpdates +
		s.linkCreates + s.addressCreates + s.addressUpdates
}

func (s *memStore) FindMerchantByKey(_ context.Context, key string) (store.Merchant, error) {
	m, ok := s.merchants[key]
	if !ok {
		return store.Merchant{}, store.ErrNotFound
	}
	return m, nil
}

func (s *memStore) CreateMerchant(_ context.Context, m *store.Merchant) error {
	s.merchantCreates++
	m.IDMerchant = s.id()
	s.merchants[m.MerchantKey] = *m
	return nil
}

func (s *memStore) UpdateMerchant(_ context.Context, m store.Merchant) error {
	s.merchantUpdates++
	if _, ok := s.merchants[m.MerchantKey]; !ok {
		return store.ErrNotFound
	}
	s.merchants[m.MerchantKey] = m
	return nil
}

func (s *memStore) MerchantIDByKey(_ context.Context, key string) (int64, error) {
	s.lookups++
	m, ok := s.merchants[key]
	if !ok {
		return 0, store.ErrNotFound
	}
	return m.IDMerchant, nil
}

func (s *memStore) MerchantIDByReference(_ context.Context, ref string) (int64, error) {
	s.lookups++
	for _, m := range s.merchants {
		if m.MerchantReference == ref {
			return m.IDMerchant, nil
		}
	}
	return 0, store.ErrNotFound
}

func (s *memStore) FindMerchantURL(_ context.Context, idMerchant, idLocale int64) (store.URL, error) {
	u, ok := s.urls[[2]int64{idMerchant, idLocale}]
	if !ok {
		return store.URL{}, store.ErrNotFound
	}
	return u, nil
}

func (s *memStore) CreateURL(_ context.Context, u *store.URL) error {
	if u.FkLocale == s.failURLLocale {
		return fmt.Errorf("duplicate key value violates unique constraint")
	}
	s.urlCreates++
	u.IDURL = s.id()
	s.urls[[2]int64{u.FkResourceMerchant, u.FkLocale}] = *u
	return nil
}

func (s *memStore) UpdateURL(_ context.Context, u store.URL) error {
	if u.FkLocale == s.failURLLocale {
		return fmt.Errorf("duplicate key value violates unique constraint")
	}
	s.urlUpdates++
	s.urls[[2]int64{u.FkResourceMerchant, u.FkLocale}] = u
	return nil
}

func (s *memStore) FindMerchantStore(_ context.Context, idMerchant, idStore int64) (store.MerchantStore, error) {
	l, ok := s.links[[2]int64{idMerchant, idStore}]
	if !ok {
		return store.MerchantStore{}, store.ErrNotFound
	}
	return l, nil
}

func (s *memStore) CreateMerchantStore(_ context.Context, ms *store.MerchantStore) error {
	s.linkCreates++
	ms.IDMerchantStore = s.id()
	s.links[[2]int64{ms.FkMerchant, ms.FkStore}] = *ms
	return nil
}

func (s *memStore) FindMerchantAddress(_ context.Context, idMerchant int64) (store.MerchantAddress, error) {
	a, ok := s.addresses[idMerchant]
	if !ok {
		return store.MerchantAddress{}, store.ErrNotFound
	}
	return a, nil
}

func (s *memStore) CreateMerchantAddress(_ context.Context, a *store.MerchantAddress) error {
	s.addressCreates++
	a.IDMerchantAddress = s.id()
	s.addresses[a.FkMerchant] = *a
	return nil
}

func (s *memStore) UpdateMerchantAddress(_ context.Context, a store.MerchantAddress) error {
	s.addressUpdates++
	s.addresses[a.FkMerchant] = a
	return nil
}

// mapLookup serves ids by name and counts calls.
type mapLookup struct {
	ids   map[string]int64
	calls int
}

func (l *mapLookup) Lookup(_ context.Context, name string) (int64, error) {
	l.calls++
	id, ok := l.ids[name]
	if !ok {
		return 0, store.ErrNotFound
	}
	return id, nil
}
