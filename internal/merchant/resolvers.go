package merchant

import (
	"context"

	"github.com/JonMunkholm/MerchantImport/internal/dataimport"
)

// MerchantIDLookup resolves merchant natural keys to ids. Both methods return
// store.ErrNotFound when no merchant matches.
type MerchantIDLookup interface {
	MerchantIDByKey(ctx context.Context, merchantKey string) (int64, error)
	MerchantIDByReference(ctx context.Context, merchantReference string) (int64, error)
}

// NewMerchantKeyToIDStep resolves merchant_key into IDMerchant on address rows.
func NewMerchantKeyToIDStep(lookup MerchantIDLookup) *dataimport.Resolver[MerchantAddressRow] {
	return dataimport.NewResolver(dataimport.ResolverConfig[MerchantAddressRow]{
		Entity:  "Merchant",
		Field:   ColMerchantKey,
		KeyKind: "key",
		Key:     func(r *MerchantAddressRow) string { return r.MerchantKey },
		Assign:  func(r *MerchantAddressRow, id int64) { r.IDMerchant = id },
		Lookup:  lookup.MerchantIDByKey,
	})
}

// NewMerchantReferenceToIDStep resolves merchant_reference into IDMerchant on
// merchant-store rows.
func NewMerchantReferenceToIDStep(lookup MerchantIDLookup) *dataimport.Resolver[MerchantStoreRow] {
	return dataimport.NewResolver(dataimport.ResolverConfig[MerchantStoreRow]{
		Entity:  "Merchant",
		Field:   ColMerchantReference,
		KeyKind: "reference",
		Key:     func(r *MerchantStoreRow) string { return r.MerchantReference },
		Assign:  func(r *MerchantStoreRow, id int64) { r.IDMerchant = id },
		Lookup:  lookup.MerchantIDByReference,
	})
}

// NewStoreNameToIDStep resolves store_name into IDStore.
func NewStoreNameToIDStep(lookup dataimport.LookupFunc) *dataimport.Resolver[MerchantStoreRow] {
	return dataimport.NewResolver(dataimport.ResolverConfig[MerchantStoreRow]{
		Entity:  "Store",
		Field:   ColStoreName,
		KeyKind: "name",
		Key:     func(r *MerchantStoreRow) string { return r.StoreName },
		Assign:  func(r *MerchantStoreRow, id int64) { r.IDStore = id },
		Lookup:  lookup,
	})
}

// NewCountryISO2ToIDStep resolves country_iso2_code into IDCountry.
func NewCountryISO2ToIDStep(lookup dataimport.LookupFunc) *dataimport.Resolver[MerchantAddressRow] {
	return dataimport.NewResolver(dataimport.ResolverConfig[MerchantAddressRow]{
		Entity:  "Country",
		Field:   ColCountryISO2,
		KeyKind: "ISO2 code",
		Key:     func(r *MerchantAddressRow) string { return r.CountryISO2 },
		Assign:  func(r *MerchantAddressRow, id int64) { r.IDCountry = id },
		Lookup:  lookup,
	})
}
