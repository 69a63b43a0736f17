package merchant

import (
	"context"
	"errors"

	"github.com/JonMunkholm/MerchantImport/internal/dataimport"
	"github.com/JonMunkholm/MerchantImport/internal/event"
	"github.com/JonMunkholm/MerchantImport/internal/store"
)

// MerchantStoreRepository links merchants to stores.
type MerchantStoreRepository interface {
	FindMerchantStore(ctx context.Context, idMerchant, idStore int64) (store.MerchantStore, error)
	CreateMerchantStore(ctx context.Context, ms *store.MerchantStore) error
}

// MerchantStoreWriterStep assigns a merchant to a store. It expects the
// merchant and store ids to be resolved by earlier steps.
type MerchantStoreWriterStep struct {
	links  MerchantStoreRepository
	events event.Sink
}

// NewMerchantStoreWriterStep builds the writer. events may be nil.
func NewMerchantStoreWriterStep(links MerchantStoreRepository, events event.Sink) *MerchantStoreWriterStep {
	return &MerchantStoreWriterStep{links: links, events: events}
}

func (w *MerchantStoreWriterStep) Execute(ctx context.Context, row *MerchantStoreRow) error {
	if row.IDMerchant == 0 {
		return dataimport.Required(FieldIDMerchant)
	}
	if row.IDStore == 0 {
		return dataimport.Required(FieldIDStore)
	}

	link, err := w.links.FindMerchantStore(ctx, row.IDMerchant, row.IDStore)
	if errors.Is(err, store.ErrNotFound) {
		link = store.MerchantStore{FkMerchant: row.IDMerchant, FkStore: row.IDStore}
		err = w.links.CreateMerchantStore(ctx, &link)
	}
	if err != nil {
		return err
	}

	if w.events != nil {
		return w.events.Add(ctx, event.New(event.MerchantStorePublish, link.IDMerchantStore, nil))
	}
	return nil
}

func (w *MerchantStoreWriterStep) AfterExecute(ctx context.Context) error {
	if w.events == nil {
		return nil
	}
	return w.events.Flush(ctx)
}
