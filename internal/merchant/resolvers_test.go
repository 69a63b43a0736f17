package merchant

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/MerchantImport/internal/dataimport"
	"github.com/JonMunkholm/MerchantImport/internal/store"
)

func TestMerchantKeyToID_EmptyKeyIssuesNoLookup(t *testing.T) {
	db := newMemStore()
	step := NewMerchantKeyToIDStep(db)

	row := MerchantAddressRow{MerchantKey: ""}
	err := step.Execute(context.Background(), &row)

	var invalid *dataimport.InvalidDataError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, ColMerchantKey, invalid.Field)
	assert.Zero(t, db.lookups)
	assert.Zero(t, row.IDMerchant)
}

func TestMerchantKeyToID_ResolvesOncePerKey(t *testing.T) {
	db := newMemStore()
	db.merchants["m1"] = store.Merchant{IDMerchant: 7, MerchantKey: "m1"}
	step := NewMerchantKeyToIDStep(db)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		row := MerchantAddressRow{MerchantKey: "m1"}
		require.NoError(t, step.Execute(ctx, &row))
		assert.Equal(t, int64(7), row.IDMerchant)
	}
	assert.Equal(t, 1, db.lookups)
	assert.Equal(t, 1, step.Cached())
}

func TestMerchantKeyToID_UnknownKey(t *testing.T) {
	db := newMemStore()
	step := NewMerchantKeyToIDStep(db)

	row := MerchantAddressRow{MerchantKey: "nope"}
	err := step.Execute(context.Background(), &row)

	assert.ErrorIs(t, err, dataimport.ErrEntityNotFound)
	assert.EqualError(t, err, `could not find Merchant by key "nope"`)
	assert.Zero(t, step.Cached())
}

func TestMerchantReferenceToID(t *testing.T) {
	db := newMemStore()
	db.merchants["m1"] = store.Merchant{IDMerchant: 9, MerchantKey: "m1", MerchantReference: "R1"}
	step := NewMerchantReferenceToIDStep(db)
	ctx := context.Background()

	row := MerchantStoreRow{MerchantReference: "R1"}
	require.NoError(t, step.Execute(ctx, &row))
	assert.Equal(t, int64(9), row.IDMerchant)

	missing := MerchantStoreRow{MerchantReference: "R2"}
	err := step.Execute(ctx, &missing)
	assert.EqualError(t, err, `could not find Merchant by reference "R2"`)
}

func TestStoreNameAndCountryResolvers(t *testing.T) {
	stores := &mapLookup{ids: map[string]int64{"DE": 1}}
	countries := &mapLookup{ids: map[string]int64{"DE": 60}}
	ctx := context.Background()

	storeStep := NewStoreNameToIDStep(stores.Lookup)
	link := MerchantStoreRow{StoreName: "DE"}
	require.NoError(t, storeStep.Execute(ctx, &link))
	assert.Equal(t, int64(1), link.IDStore)

	countryStep := NewCountryISO2ToIDStep(countries.Lookup)
	addr := MerchantAddressRow{CountryISO2: "XX"}
	err := countryStep.Execute(ctx, &addr)
	assert.EqualError(t, err, `could not find Country by ISO2 code "XX"`)

	addr.CountryISO2 = "DE"
	require.NoError(t, countryStep.Execute(ctx, &addr))
	assert.Equal(t, int64(60), addr.IDCountry)
	assert.Equal(t, 2, countries.calls)
}
