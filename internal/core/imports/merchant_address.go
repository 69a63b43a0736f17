package imports

import (
	"github.com/JonMunkholm/MerchantImport/internal/core"
	"github.com/JonMunkholm/MerchantImport/internal/dataimport"
	"github.com/JonMunkholm/MerchantImport/internal/merchant"
)

// TypeMerchantAddress imports one postal address per merchant.
const TypeMerchantAddress = "merchant-address"

func init() {
	core.Register(core.ImportDefinition{
		Info: core.ImportInfo{
			Type:     TypeMerchantAddress,
			Label:    "Merchant addresses",
			FileName: "merchant_address.csv",
			RequiredColumns: []string{
				merchant.ColMerchantKey,
				merchant.ColCountryISO2,
			},
		},
		NewRunner: newMerchantAddressRunner,
	})
}

func newMerchantAddressRunner(env core.RunEnv) core.Runner {
	q := env.Queries
	steps := []dataimport.Step[merchant.MerchantAddressRow]{
		merchant.NewMerchantKeyToIDStep(q),
		merchant.NewCountryISO2ToIDStep(q.CountryIDByISO2),
		merchant.NewMerchantAddressWriterStep(q),
	}
	return dataimport.NewImporter(TypeMerchantAddress, merchant.MerchantAddressRowFromRecord, steps, env.Options...)
}
