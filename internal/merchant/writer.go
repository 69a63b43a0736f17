package merchant

import (
	"context"
	"errors"
	"sort"

	"github.com/JonMunkholm/MerchantImport/internal/dataimport"
	"github.com/JonMunkholm/MerchantImport/internal/event"
	"github.com/JonMunkholm/MerchantImport/internal/store"
)

// MerchantRepository loads and saves merchants by natural key.
// FindMerchantByKey returns store.ErrNotFound when the key is unknown.
type MerchantRepository interface {
	FindMerchantByKey(ctx context.Context, merchantKey string) (store.Merchant, error)
	CreateMerchant(ctx context.Context, m *store.Merchant) error
	UpdateMerchant(ctx context.Context, m store.Merchant) error
}

// URLRepository loads and saves merchant URLs keyed by (merchant, locale).
// FindMerchantURL returns store.ErrNotFound when no URL exists yet.
type URLRepository interface {
	FindMerchantURL(ctx context.Context, idMerchant, idLocale int64) (store.URL, error)
	CreateURL(ctx context.Context, u *store.URL) error
	UpdateURL(ctx context.Context, u store.URL) error
}

// WriterOption configures a MerchantWriterStep.
type WriterOption func(*MerchantWriterStep)

// WithMerchantEvents sends a merchant publish event for every written row.
func WithMerchantEvents(sink event.Sink) WriterOption {
	return func(w *MerchantWriterStep) { w.merchantEvents = sink }
}

// WithURLs enables writing the localized "url" attribute.
func WithURLs(repo URLRepository) WriterOption {
	return func(w *MerchantWriterStep) { w.urls = repo }
}

// WithURLEvents sends a URL publish event for every non-empty URL attribute.
// When the merchant event of a row cannot be added, the row's URL events are
// dropped again if sink supports Rewind.
func WithURLEvents(sink event.Sink) WriterOption {
	return func(w *MerchantWriterStep) { w.urlEvents = sink }
}

// MerchantWriterStep upserts merchants by merchant key.
//
// Without options it validates, upserts and persists only. URL writing and
// event publication are switched on with WithURLs, WithURLEvents and
// WithMerchantEvents.
type MerchantWriterStep struct {
	merchants      MerchantRepository
	urls           URLRepository
	merchantEvents event.Sink
	urlEvents      event.Sink
}

func NewMerchantWriterStep(merchants MerchantRepository, opts ...WriterOption) *MerchantWriterStep {
	w := &MerchantWriterStep{merchants: merchants}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Execute validates the row, upserts the merchant and its URLs and queues
// the merchant publish event.
func (w *MerchantWriterStep) Execute(ctx context.Context, row *MerchantRow) error {
	if err := dataimport.ValidateRequired(row.requiredFields()...); err != nil {
		return err
	}

	m, isNew, err := w.findOrCreateMerchant(ctx, row.MerchantKey)
	if err != nil {
		return err
	}

	changed := applyMerchant(&m, row)
	switch {
	case isNew:
		if err := w.merchants.CreateMerchant(ctx, &m); err != nil {
			return err
		}
	case changed:
		if err := w.merchants.UpdateMerchant(ctx, m); err != nil {
			return err
		}
	}

	var urlEvents []event.Event
	if w.urls != nil {
		urlEvents, err = w.saveURLs(ctx, m.IDMerchant, row.LocalizedAttributes)
		if err != nil {
			return err
		}
	}

	// Events leave the row only after all of its writes succeeded. A row that
	// fails while adding them must not leave URL events queued for the run.
	mark := 0
	if w.urlEvents != nil {
		mark = w.urlEvents.Pending()
		for _, e := range urlEvents {
			if err := w.urlEvents.Add(ctx, e); err != nil {
				rewind(w.urlEvents, mark)
				return err
			}
		}
	}
	if w.merchantEvents != nil {
		e := event.New(event.MerchantPublish, m.IDMerchant, map[string]string{
			event.ColMerchantReference: m.MerchantReference,
		})
		if err := w.merchantEvents.Add(ctx, e); err != nil {
			if w.urlEvents != nil {
				rewind(w.urlEvents, mark)
			}
			return err
		}
	}
	return nil
}

// rewind drops the events sink queued after mark. Events an immediate sink
// already published cannot be taken back.
func rewind(sink event.Sink, mark int) {
	if r, ok := sink.(interface{ Rewind(n int) }); ok {
		r.Rewind(mark)
	}
}

// AfterExecute flushes queued merchant events, then URL events.
func (w *MerchantWriterStep) AfterExecute(ctx context.Context) error {
	var errs []error
	if w.merchantEvents != nil {
		errs = append(errs, w.merchantEvents.Flush(ctx))
	}
	if w.urlEvents != nil {
		errs = append(errs, w.urlEvents.Flush(ctx))
	}
	return errors.Join(errs...)
}

// findOrCreateMerchant returns the stored merchant, or a new unsaved one
// carrying only the key.
func (w *MerchantWriterStep) findOrCreateMerchant(ctx context.Context, key string) (store.Merchant, bool, error) {
	m, err := w.merchants.FindMerchantByKey(ctx, key)
	if errors.Is(err, store.ErrNotFound) {
		return store.Merchant{MerchantKey: key, IsActive: true}, true, nil
	}
	if err != nil {
		return store.Merchant{}, false, err
	}
	return m, false, nil
}

// applyMerchant overwrites m with the row's values and reports whether
// anything changed. A nil IsActive keeps the stored flag.
func applyMerchant(m *store.Merchant, row *MerchantRow) bool {
	changed := false
	set := func(dst *string, v string) {
		if *dst != v {
			*dst = v
			changed = true
		}
	}

	set(&m.Name, row.Name)
	set(&m.RegistrationNumber, row.RegistrationNumber)
	set(&m.Status, row.Status)
	set(&m.Email, row.Email)
	set(&m.MerchantReference, row.MerchantReference)

	if row.IsActive != nil && m.IsActive != *row.IsActive {
		m.IsActive = *row.IsActive
		changed = true
	}
	return changed
}

// saveURLs writes the url attribute of every locale, in locale id order,
// and returns one publish event per non-empty URL.
func (w *MerchantWriterStep) saveURLs(ctx context.Context, idMerchant int64, attrs map[int64]Attributes) ([]event.Event, error) {
	locales := make([]int64, 0, len(attrs))
	for idLocale := range attrs {
		locales = append(locales, idLocale)
	}
	sort.Slice(locales, func(i, j int) bool { return locales[i] < locales[j] })

	var events []event.Event
	for _, idLocale := range locales {
		url := attrs[idLocale][AttrURL]
		if url == "" {
			continue
		}
		idURL, err := w.saveURL(ctx, idMerchant, idLocale, url)
		if err != nil {
			return nil, err
		}
		events = append(events, event.New(event.URLPublish, idURL, nil))
	}
	return events, nil
}

// saveURL upserts one (merchant, locale) URL. It writes only when the row is
// new or the value differs.
func (w *MerchantWriterStep) saveURL(ctx context.Context, idMerchant, idLocale int64, url string) (int64, error) {
	u, err := w.urls.FindMerchantURL(ctx, idMerchant, idLocale)
	isNew := errors.Is(err, store.ErrNotFound)
	if err != nil && !isNew {
		return 0, err
	}
	if isNew {
		u = store.URL{FkResourceMerchant: idMerchant, FkLocale: idLocale}
	}

	modified := u.URL != url
	u.URL = url

	switch {
	case isNew:
		if err := w.urls.CreateURL(ctx, &u); err != nil {
			return 0, err
		}
	case modified:
		if err := w.urls.UpdateURL(ctx, u); err != nil {
			return 0, err
		}
	}
	return u.IDURL, nil
}
