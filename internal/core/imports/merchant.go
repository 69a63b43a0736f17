package imports

import (
	"github.com/JonMunkholm/MerchantImport/internal/core"
	"github.com/JonMunkholm/MerchantImport/internal/dataimport"
	"github.com/JonMunkholm/MerchantImport/internal/merchant"
)

// TypeMerchant imports spy_merchant rows and their localized URLs.
const TypeMerchant = "merchant"

func init() {
	core.Register(core.ImportDefinition{
		Info: core.ImportInfo{
			Type:            TypeMerchant,
			Label:           "Merchants",
			FileName:        "merchant.csv",
			RequiredColumns: []string{merchant.ColMerchantKey},
		},
		NewRunner: newMerchantRunner,
	})
}

func newMerchantRunner(env core.RunEnv) core.Runner {
	q := env.Queries
	steps := []dataimport.Step[merchant.MerchantRow]{
		merchant.NewLocalizedAttributesExtractorStep(q.LocaleIDByName, merchant.AttrURL),
		merchant.NewMerchantWriterStep(q,
			merchant.WithURLs(q),
			merchant.WithMerchantEvents(env.MerchantEvents),
			merchant.WithURLEvents(env.URLEvents),
		),
	}
	return dataimport.NewImporter(TypeMerchant, merchant.MerchantRowFromRecord, steps, env.Options...)
}
