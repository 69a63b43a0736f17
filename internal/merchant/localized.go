package merchant

import (
	"context"
	"sort"
	"strings"

	"github.com/JonMunkholm/MerchantImport/internal/dataimport"
)

// LocalizedAttributesExtractorStep groups "<attribute>.<locale>" columns by
// locale id. Locale names are resolved once per run.
type LocalizedAttributesExtractorStep struct {
	attributes map[string]bool
	locales    *dataimport.IDCache
}

// NewLocalizedAttributesExtractorStep extracts the given attribute names.
// localeLookup resolves a locale name such as "en_US" to its id.
func NewLocalizedAttributesExtractorStep(localeLookup dataimport.LookupFunc, attributes ...string) *LocalizedAttributesExtractorStep {
	set := make(map[string]bool, len(attributes))
	for _, a := range attributes {
		set[strings.ToLower(a)] = true
	}
	return &LocalizedAttributesExtractorStep{
		attributes: set,
		locales:    dataimport.NewIDCache("Locale", "name", localeLookup),
	}
}

func (s *LocalizedAttributesExtractorStep) Execute(ctx context.Context, row *MerchantRow) error {
	cols := make([]string, 0, len(row.LocalizedColumns))
	for col := range row.LocalizedColumns {
		cols = append(cols, col)
	}
	sort.Strings(cols)

	for _, col := range cols {
		value := row.LocalizedColumns[col]
		attr, locale, ok := strings.Cut(col, ".")
		if !ok || !s.attributes[strings.ToLower(attr)] {
			continue
		}

		idLocale, err := s.locales.Resolve(ctx, normalizeLocale(locale))
		if err != nil {
			return err
		}

		if row.LocalizedAttributes == nil {
			row.LocalizedAttributes = make(map[int64]Attributes)
		}
		if row.LocalizedAttributes[idLocale] == nil {
			row.LocalizedAttributes[idLocale] = make(Attributes)
		}
		row.LocalizedAttributes[idLocale][strings.ToLower(attr)] = value
	}
	return nil
}

// normalizeLocale restores the canonical xx_YY form of a locale name that
// went through header lowercasing.
func normalizeLocale(s string) string {
	lang, region, ok := strings.Cut(strings.TrimSpace(s), "_")
	if !ok {
		return strings.ToLower(lang)
	}
	return strings.ToLower(lang) + "_" + strings.ToUpper(region)
}
