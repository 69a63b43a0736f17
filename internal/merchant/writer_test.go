package merchant

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JonMunkholm/MerchantImport/internal/dataimport"
	"github.com/JonMunkholm/MerchantImport/internal/event"
	"github.com/JonMunkholm/MerchantImport/internal/store"
)

const (
	localeEN int64 = 66
	localeDE int64 = 46
)

func boolPtr(b bool) *bool { return &b }

func acmeRow() MerchantRow {
	return MerchantRow{
		MerchantKey:        "m1",
		MerchantReference:  "R1",
		Name:               "Acme",
		RegistrationNumber: "123",
		Status:             "active",
		Email:              "a@acme.test",
		IsActive:           boolPtr(true),
	}
}

type writerHarness struct {
	db        *memStore
	pub       *event.RecordingPublisher
	merchants *event.DeferredSink
	urls      *event.DeferredSink
	writer    *MerchantWriterStep
}

func newWriterHarness() *writerHarness {
	h := &writerHarness{db: newMemStore(), pub: &event.RecordingPublisher{}}
	h.merchants = event.NewDeferredSink(h.pub)
	h.urls = event.NewDeferredSink(h.pub)
	h.writer = NewMerchantWriterStep(h.db,
		WithURLs(h.db),
		WithMerchantEvents(h.merchants),
		WithURLEvents(h.urls),
	)
	return h
}

func TestMerchantWriter_NewMerchantEndToEnd(t *testing.T) {
	h := newWriterHarness()
	ctx := context.Background()

	row := acmeRow()
	require.NoError(t, h.writer.Execute(ctx, &row))

	stored, ok := h.db.merchants["m1"]
	require.True(t, ok)
	assert.NotZero(t, stored.IDMerchant)
	assert.Equal(t, store.Merchant{
		IDMerchant:         stored.IDMerchant,
		MerchantKey:        "m1",
		MerchantReference:  "R1",
		Name:               "Acme",
		RegistrationNumber: "123",
		Status:             "active",
		Email:              "a@acme.test",
		IsActive:           true,
	}, stored)

	assert.Equal(t, 1, h.merchants.Pending())
	assert.Empty(t, h.pub.Events, "merchant events wait for the flush")

	require.NoError(t, h.writer.AfterExecute(ctx))
	require.Len(t, h.pub.Events, 1)
	e := h.pub.Events[0]
	assert.Equal(t, event.MerchantPublish, e.Name)
	assert.Equal(t, stored.IDMerchant, e.EntityID)
	assert.Equal(t, map[string]string{event.ColMerchantReference: "R1"}, e.AdditionalValues)
	assert.Zero(t, h.merchants.Pending())
}

func TestMerchantWriter_SameKeyTwiceLastWriteWins(t *testing.T) {
	h := newWriterHarness()
	ctx := context.Background()

	first := acmeRow()
	require.NoError(t, h.writer.Execute(ctx, &first))

	second := acmeRow()
	second.Name = "Acme Corp"
	second.Email = "hello@acme.test"
	second.IsActive = boolPtr(false)
	require.NoError(t, h.writer.Execute(ctx, &second))

	require.Len(t, h.db.merchants, 1)
	stored := h.db.merchants["m1"]
	assert.Equal(t, "Acme Corp", stored.Name)
	assert.Equal(t, "hello@acme.test", stored.Email)
	assert.False(t, stored.IsActive)
	assert.Equal(t, 1, h.db.merchantCreates)
	assert.Equal(t, 1, h.db.merchantUpdates)
	assert.Equal(t, 2, h.merchants.Pending())
}

func TestMerchantWriter_UnchangedRowSkipsUpdate(t *testing.T) {
	h := newWriterHarness()
	ctx := context.Background()

	row := acmeRow()
	require.NoError(t, h.writer.Execute(ctx, &row))
	again := acmeRow()
	require.NoError(t, h.writer.Execute(ctx, &again))

	assert.Equal(t, 1, h.db.merchantCreates)
	assert.Zero(t, h.db.merchantUpdates)
	assert.Equal(t, 2, h.merchants.Pending(), "the merchant event is queued for every row")
}

func TestMerchantWriter_AbsentActiveFlagKeepsStoredValue(t *testing.T) {
	h := newWriterHarness()
	ctx := context.Background()

	row := acmeRow()
	row.IsActive = boolPtr(false)
	require.NoError(t, h.writer.Execute(ctx, &row))

	again := acmeRow()
	again.IsActive = nil
	require.NoError(t, h.writer.Execute(ctx, &again))

	assert.False(t, h.db.merchants["m1"].IsActive)
	assert.Zero(t, h.db.merchantUpdates)
}

func TestMerchantWriter_NewMerchantDefaultsActive(t *testing.T) {
	h := newWriterHarness()
	row := acmeRow()
	row.IsActive = nil

	require.NoError(t, h.writer.Execute(context.Background(), &row))
	assert.True(t, h.db.merchants["m1"].IsActive)
}

func TestMerchantWriter_RequiredFields(t *testing.T) {
	tests := []struct {
		field string
		clear func(r *MerchantRow)
	}{
		{ColMerchantKey, func(r *MerchantRow) { r.MerchantKey = "" }},
		{ColMerchantReference, func(r *MerchantRow) { r.MerchantReference = "" }},
		{ColMerchantName, func(r *MerchantRow) { r.Name = " " }},
		{ColRegistrationNumber, func(r *MerchantRow) { r.RegistrationNumber = "" }},
		{ColStatus, func(r *MerchantRow) { r.Status = "" }},
		{ColEmail, func(r *MerchantRow) { r.Email = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			h := newWriterHarness()
			row := acmeRow()
			tt.clear(&row)

			err := h.writer.Execute(context.Background(), &row)

			var invalid *dataimport.InvalidDataError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.field, invalid.Field)
			assert.Zero(t, h.db.writes(), "the store must not be touched")
			assert.Zero(t, h.merchants.Pending())
		})
	}
}

func TestMerchantWriter_ReportsFirstMissingFieldInOrder(t *testing.T) {
	h := newWriterHarness()
	row := MerchantRow{MerchantKey: "m1"}

	err := h.writer.Execute(context.Background(), &row)
	assert.EqualError(t, err, `"merchant_reference" is required.`)
}

func TestMerchantWriter_WritesURLs(t *testing.T) {
	h := newWriterHarness()
	ctx := context.Background()

	row := acmeRow()
	row.LocalizedAttributes = map[int64]Attributes{
		localeEN: {AttrURL: "/en/merchant/acme"},
		localeDE: {AttrURL: "/de/merchant/acme"},
	}
	require.NoError(t, h.writer.Execute(ctx, &row))

	idMerchant := h.db.merchants["m1"].IDMerchant
	assert.Equal(t, "/en/merchant/acme", h.db.urls[[2]int64{idMerchant, localeEN}].URL)
	assert.Equal(t, "/de/merchant/acme", h.db.urls[[2]int64{idMerchant, localeDE}].URL)
	assert.Equal(t, 2, h.db.urlCreates)
	assert.Equal(t, 2, h.urls.Pending())

	require.NoError(t, h.writer.AfterExecute(ctx))
	assert.Equal(t, []string{event.MerchantPublish, event.URLPublish, event.URLPublish}, h.pub.Names())

	// URL events follow ascending locale id.
	assert.Equal(t, h.db.urls[[2]int64{idMerchant, localeDE}].IDURL, h.pub.Events[1].EntityID)
	assert.Equal(t, h.db.urls[[2]int64{idMerchant, localeEN}].IDURL, h.pub.Events[2].EntityID)
}

func TestMerchantWriter_EmptyURLIsIgnored(t *testing.T) {
	h := newWriterHarness()

	row := acmeRow()
	row.LocalizedAttributes = map[int64]Attributes{localeEN: {AttrURL: ""}}
	require.NoError(t, h.writer.Execute(context.Background(), &row))

	assert.Empty(t, h.db.urls)
	assert.Zero(t, h.db.urlCreates+h.db.urlUpdates)
	assert.Zero(t, h.urls.Pending())
}

func TestMerchantWriter_EmptyURLKeepsStoredURL(t *testing.T) {
	h := newWriterHarness()
	ctx := context.Background()

	row := acmeRow()
	row.LocalizedAttributes = map[int64]Attributes{localeEN: {AttrURL: "/en/acme"}}
	require.NoError(t, h.writer.Execute(ctx, &row))

	again := acmeRow()
	again.LocalizedAttributes = map[int64]Attributes{localeEN: {AttrURL: ""}}
	require.NoError(t, h.writer.Execute(ctx, &again))

	idMerchant := h.db.merchants["m1"].IDMerchant
	assert.Equal(t, "/en/acme", h.db.urls[[2]int64{idMerchant, localeEN}].URL)
	assert.Zero(t, h.db.urlUpdates)
}

// The writer publishes a URL event for every non-empty URL, whether or not
// the stored value changed.
func TestMerchantWriter_UnchangedURLSkipsWriteButPublishes(t *testing.T) {
	h := newWriterHarness()
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		row := acmeRow()
		row.LocalizedAttributes = map[int64]Attributes{localeEN: {AttrURL: "/en/acme"}}
		require.NoError(t, h.writer.Execute(ctx, &row))
	}

	assert.Equal(t, 1, h.db.urlCreates)
	assert.Zero(t, h.db.urlUpdates)
	assert.Equal(t, 2, h.urls.Pending())
}

func TestMerchantWriter_ChangedURLIsUpdated(t *testing.T) {
	h := newWriterHarness()
	ctx := context.Background()

	row := acmeRow()
	row.LocalizedAttributes = map[int64]Attributes{localeEN: {AttrURL: "/en/acme"}}
	require.NoError(t, h.writer.Execute(ctx, &row))

	row = acmeRow()
	row.LocalizedAttributes = map[int64]Attributes{localeEN: {AttrURL: "/en/acme-corp"}}
	require.NoError(t, h.writer.Execute(ctx, &row))

	idMerchant := h.db.merchants["m1"].IDMerchant
	assert.Equal(t, "/en/acme-corp", h.db.urls[[2]int64{idMerchant, localeEN}].URL)
	assert.Equal(t, 1, h.db.urlUpdates)
}

func TestMerchantWriter_FailedURLQueuesNothing(t *testing.T) {
	h := newWriterHarness()
	h.db.failURLLocale = localeEN

	row := acmeRow()
	row.LocalizedAttributes = map[int64]Attributes{
		localeDE: {AttrURL: "/de/acme"},
		localeEN: {AttrURL: "/en/acme"},
	}
	err := h.writer.Execute(context.Background(), &row)

	require.Error(t, err)
	assert.NotErrorIs(t, err, dataimport.ErrInvalidData)
	assert.Zero(t, h.urls.Pending())
	assert.Zero(t, h.merchants.Pending())
}

func TestMerchantWriter_Minimal(t *testing.T) {
	db := newMemStore()
	w := NewMerchantWriterStep(db)
	ctx := context.Background()

	row := acmeRow()
	row.LocalizedAttributes = map[int64]Attributes{localeEN: {AttrURL: "/en/acme"}}
	require.NoError(t, w.Execute(ctx, &row))
	require.NoError(t, w.AfterExecute(ctx))

	assert.Len(t, db.merchants, 1)
	assert.Empty(t, db.urls, "URL writing is off without WithURLs")
}

func TestMerchantWriter_ImmediateSinks(t *testing.T) {
	db := newMemStore()
	pub := &event.RecordingPublisher{}
	w := NewMerchantWriterStep(db,
		WithURLs(db),
		WithMerchantEvents(event.NewImmediateSink(pub)),
		WithURLEvents(event.NewImmediateSink(pub)),
	)

	row := acmeRow()
	row.LocalizedAttributes = map[int64]Attributes{localeEN: {AttrURL: "/en/acme"}}
	require.NoError(t, w.Execute(context.Background(), &row))

	assert.Equal(t, []string{event.URLPublish, event.MerchantPublish}, pub.Names())
}

func TestMerchantWriter_FailedMerchantEventDropsQueuedURLEvents(t *testing.T) {
	db := newMemStore()
	pub := &event.RecordingPublisher{}
	urls := event.NewDeferredSink(pub)
	boom := errors.New("broker unavailable")
	failing := event.NewImmediateSink(event.PublisherFunc(func(context.Context, event.Event) error { return boom }))
	w := NewMerchantWriterStep(db,
		WithURLs(db),
		WithMerchantEvents(failing),
		WithURLEvents(urls),
	)
	ctx := context.Background()

	require.NoError(t, urls.Add(ctx, event.New(event.URLPublish, 99, nil)))

	row := acmeRow()
	row.LocalizedAttributes = map[int64]Attributes{
		localeDE: {AttrURL: "/de/acme"},
		localeEN: {AttrURL: "/en/acme"},
	}
	err := w.Execute(ctx, &row)

	require.ErrorIs(t, err, boom)
	assert.Equal(t, 1, urls.Pending(), "events queued by earlier rows stay")
	require.NoError(t, urls.Flush(ctx))
	require.Len(t, pub.Events, 1)
	assert.Equal(t, int64(99), pub.Events[0].EntityID)
}

func TestMerchantWriter_FlushDeliversOnce(t *testing.T) {
	h := newWriterHarness()
	ctx := context.Background()

	row := acmeRow()
	require.NoError(t, h.writer.Execute(ctx, &row))
	require.NoError(t, h.writer.AfterExecute(ctx))
	require.NoError(t, h.writer.AfterExecute(ctx))

	assert.Len(t, h.pub.Events, 1)
}
