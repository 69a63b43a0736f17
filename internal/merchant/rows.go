// Package merchant maps merchant CSV rows onto spy_merchant and its related
// tables.
//
// Each import type has its own typed row. The FromRecord adapters convert
// the untyped records produced by the csv package; the steps in this package
// only ever see typed rows.
package merchant

import (
	"strings"

	"github.com/JonMunkholm/MerchantImport/internal/dataimport"
)

// CSV columns.
const (
	ColMerchantKey        = "merchant_key"
	ColMerchantReference  = "merchant_reference"
	ColMerchantName       = "merchant_name"
	ColRegistrationNumber = "registration_number"
	ColStatus             = "status"
	ColEmail              = "email"
	ColIsActive           = "is_active"

	ColStoreName = "store_name"

	ColCountryISO2 = "country_iso2_code"
	ColCity        = "city"
	ColZipCode     = "zip_code"
	ColAddress1    = "address1"
	ColAddress2    = "address2"
	ColAddress3    = "address3"

	// colName is accepted when merchant_name is absent.
	colName = "name"
)

// Row fields filled by resolver steps.
const (
	FieldIDMerchant = "id_merchant"
	FieldIDStore    = "id_store"
	FieldIDCountry  = "id_country"
)

// AttrURL is the localized attribute holding a merchant's storefront URL.
const AttrURL = "url"

// Attributes maps a localized attribute name to its value for one locale.
type Attributes map[string]string

// MerchantRow is one line of merchant.csv.
type MerchantRow struct {
	MerchantKey        string
	MerchantReference  string
	Name               string
	RegistrationNumber string
	Status             string
	Email              string
	IsActive           *bool // nil leaves the stored flag untouched

	// LocalizedColumns holds raw "<attribute>.<locale>" columns, e.g.
	// "url.en_us". LocalizedAttributesExtractorStep turns them into
	// LocalizedAttributes.
	LocalizedColumns map[string]string

	// LocalizedAttributes is keyed by locale id.
	LocalizedAttributes map[int64]Attributes
}

// requiredFields lists the required columns in validation order.
func (r *MerchantRow) requiredFields() []dataimport.Field {
	return []dataimport.Field{
		{Name: ColMerchantKey, Value: r.MerchantKey},
		{Name: ColMerchantReference, Value: r.MerchantReference},
		{Name: ColMerchantName, Value: r.Name},
		{Name: ColRegistrationNumber, Value: r.RegistrationNumber},
		{Name: ColStatus, Value: r.Status},
		{Name: ColEmail, Value: r.Email},
	}
}

// MerchantRowFromRecord converts a merchant.csv record. Missing columns
// become empty fields; the writer reports them.
func MerchantRowFromRecord(rec dataimport.Record) (MerchantRow, error) {
	isActive, err := dataimport.OptionalBool(rec, ColIsActive)
	if err != nil {
		return MerchantRow{}, err
	}

	name, ok := rec.Lookup(ColMerchantName)
	if !ok {
		name = rec.Get(colName)
	}

	row := MerchantRow{
		MerchantKey:        rec.Get(ColMerchantKey),
		MerchantReference:  rec.Get(ColMerchantReference),
		Name:               name,
		RegistrationNumber: rec.Get(ColRegistrationNumber),
		Status:             rec.Get(ColStatus),
		Email:              rec.Get(ColEmail),
		IsActive:           isActive,
	}

	for col, v := range rec {
		if strings.Contains(col, ".") {
			if row.LocalizedColumns == nil {
				row.LocalizedColumns = make(map[string]string)
			}
			row.LocalizedColumns[col] = strings.TrimSpace(v)
		}
	}
	return row, nil
}

// MerchantStoreRow is one line of merchant_store.csv.
type MerchantStoreRow struct {
	MerchantReference string
	StoreName         string

	IDMerchant int64
	IDStore    int64
}

func MerchantStoreRowFromRecord(rec dataimport.Record) (MerchantStoreRow, error) {
	return MerchantStoreRow{
		MerchantReference: rec.Get(ColMerchantReference),
		StoreName:         rec.Get(ColStoreName),
	}, nil
}

// MerchantAddressRow is one line of merchant_address.csv.
type MerchantAddressRow struct {
	MerchantKey string
	CountryISO2 string
	City        string
	ZipCode     string
	Address1    string
	Address2    string
	Address3    string

	IDMerchant int64
	IDCountry  int64
}

func MerchantAddressRowFromRecord(rec dataimport.Record) (MerchantAddressRow, error) {
	return MerchantAddressRow{
		MerchantKey: rec.Get(ColMerchantKey),
		CountryISO2: strings.ToUpper(rec.Get(ColCountryISO2)),
		City:        rec.Get(ColCity),
		ZipCode:     rec.Get(ColZipCode),
		Address1:    rec.Get(ColAddress1),
		Address2:    rec.Get(ColAddress2),
		Address3:    rec.Get(ColAddress3),
	}, nil
}
