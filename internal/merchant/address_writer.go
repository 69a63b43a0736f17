package merchant

import (
	"context"
	"errors"

	"github.com/JonMunkholm/MerchantImport/internal/dataimport"
	"github.com/JonMunkholm/MerchantImport/internal/store"
)

// MerchantAddressRepository loads and saves the address of a merchant.
type MerchantAddressRepository interface {
	FindMerchantAddress(ctx context.Context, idMerchant int64) (store.MerchantAddress, error)
	CreateMerchantAddress(ctx context.Context, a *store.MerchantAddress) error
	UpdateMerchantAddress(ctx context.Context, a store.MerchantAddress) error
}

// MerchantAddressWriterStep upserts the single address of a merchant.
type MerchantAddressWriterStep struct {
	addresses MerchantAddressRepository
}

func NewMerchantAddressWriterStep(addresses MerchantAddressRepository) *MerchantAddressWriterStep {
	return &MerchantAddressWriterStep{addresses: addresses}
}

func (w *MerchantAddressWriterStep) Execute(ctx context.Context, row *MerchantAddressRow) error {
	err := dataimport.ValidateRequired(
		dataimport.Field{Name: ColCity, Value: row.City},
		dataimport.Field{Name: ColZipCode, Value: row.ZipCode},
		dataimport.Field{Name: ColAddress1, Value: row.Address1},
	)
	if err != nil {
		return err
	}
	if row.IDMerchant == 0 {
		return dataimport.Required(FieldIDMerchant)
	}
	if row.IDCountry == 0 {
		return dataimport.Required(FieldIDCountry)
	}

	a, err := w.addresses.FindMerchantAddress(ctx, row.IDMerchant)
	isNew := errors.Is(err, store.ErrNotFound)
	if err != nil && !isNew {
		return err
	}
	if isNew {
		a = store.MerchantAddress{FkMerchant: row.IDMerchant}
	}

	next := a
	next.FkCountry = row.IDCountry
	next.City = row.City
	next.ZipCode = row.ZipCode
	next.Address1 = row.Address1
	next.Address2 = row.Address2
	next.Address3 = row.Address3

	switch {
	case isNew:
		return w.addresses.CreateMerchantAddress(ctx, &next)
	case next != a:
		return w.addresses.UpdateMerchantAddress(ctx, next)
	}
	return nil
}
