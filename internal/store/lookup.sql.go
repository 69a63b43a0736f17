package store

import "context"

const merchantIDByKey = `SELECT id_merchant FROM spy_merchant WHERE merchant_key = $1`

// MerchantIDByKey returns the id of the merchant with the given key.
func (q *Queries) MerchantIDByKey(ctx context.Context, merchantKey string) (int64, error) {
	return q.scanID(ctx, merchantIDByKey, merchantKey)
}

const merchantIDByReference = `SELECT id_merchant FROM spy_merchant WHERE merchant_reference = $1`

// MerchantIDByReference returns the id of the merchant with the given reference.
func (q *Queries) MerchantIDByReference(ctx context.Context, merchantReference string) (int64, error) {
	return q.scanID(ctx, merchantIDByReference, merchantReference)
}

const localeIDByName = `SELECT id_locale FROM spy_locale WHERE locale_name = $1`

func (q *Queries) LocaleIDByName(ctx context.Context, localeName string) (int64, error) {
	return q.scanID(ctx, localeIDByName, localeName)
}

const storeIDByName = `SELECT id_store FROM spy_store WHERE name = $1`

func (q *Queries) StoreIDByName(ctx context.Context, storeName string) (int64, error) {
	return q.scanID(ctx, storeIDByName, storeName)
}

const countryIDByISO2 = `SELECT id_country FROM spy_country WHERE iso2_code = $1`

func (q *Queries) CountryIDByISO2(ctx context.Context, iso2 string) (int64, error) {
	return q.scanID(ctx, countryIDByISO2, iso2)
}
