package store

// Merchant is a row of spy_merchant. MerchantKey is the natural key.
type Merchant struct {
	IDMerchant         int64
	MerchantKey        string
	MerchantReference  string
	Name               string
	RegistrationNumber string
	Status             string
	Email              string
	IsActive           bool
}

// URL is a row of spy_url owned by a merchant, unique per (merchant, locale).
type URL struct {
	IDURL              int64
	FkResourceMerchant int64
	FkLocale           int64
	URL                string
}

// MerchantStore links a merchant to a store.
type MerchantStore struct {
	IDMerchantStore int64
	FkMerchant      int64
	FkStore         int64
}

// MerchantAddress is the single address of a merchant.
type MerchantAddress struct {
	IDMerchantAddress int64
	FkMerchant        int64
	FkCountry         int64
	City              string
	ZipCode           string
	Address1          string
	Address2          string
	Address3          string
}
