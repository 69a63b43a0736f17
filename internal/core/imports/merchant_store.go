package imports

import (
	"github.com/JonMunkholm/MerchantImport/internal/core"
	"github.com/JonMunkholm/MerchantImport/internal/dataimport"
	"github.com/JonMunkholm/MerchantImport/internal/merchant"
)

// TypeMerchantStore links merchants to stores by reference and store name.
const TypeMerchantStore = "merchant-store"

func init() {
	core.Register(core.ImportDefinition{
		Info: core.ImportInfo{
			Type:            TypeMerchantStore,
			Label:           "Merchant stores",
			FileName:        "merchant_store.csv",
			RequiredColumns: []string{merchant.ColMerchantReference, merchant.ColStoreName},
		},
		NewRunner: newMerchantStoreRunner,
	})
}

func newMerchantStoreRunner(env core.RunEnv) core.Runner {
	q := env.Queries
	steps := []dataimport.Step[merchant.MerchantStoreRow]{
		merchant.NewMerchantReferenceToIDStep(q),
		merchant.NewStoreNameToIDStep(q.StoreIDByName),
		merchant.NewMerchantStoreWriterStep(q, env.MerchantEvents),
	}
	return dataimport.NewImporter(TypeMerchantStore, merchant.MerchantStoreRowFromRecord, steps, env.Options...)
}
