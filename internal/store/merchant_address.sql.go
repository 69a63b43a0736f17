package store

import "context"

const findMerchantAddress = `
SELECT id_merchant_address, fk_merchant, fk_country, city, zip_code, address1, address2, address3
FROM spy_merchant_address
WHERE fk_merchant = $1`

func (q *Queries) FindMerchantAddress(ctx context.Context, idMerchant int64) (MerchantAddress, error) {
	var a MerchantAddress
	err := q.db.QueryRow(ctx, findMerchantAddress, idMerchant).Scan(
		&a.IDMerchantAddress,
		&a.FkMerchant,
		&a.FkCountry,
		&a.City,
		&a.ZipCode,
		&a.Address1,
		&a.Address2,
		&a.Address3,
	)
	if err != nil {
		return MerchantAddress{}, notFound(err)
	}
	return a, nil
}

const createMerchantAddress = `
INSERT INTO spy_merchant_address (fk_merchant, fk_country, city, zip_code, address1, address2, address3)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id_merchant_address`

func (q *Queries) CreateMerchantAddress(ctx context.Context, a *MerchantAddress) error {
	return q.db.QueryRow(ctx, createMerchantAddress,
		a.FkMerchant,
		a.FkCountry,
		a.City,
		a.ZipCode,
		a.Address1,
		a.Address2,
		a.Address3,
	).Scan(&a.IDMerchantAddress)
}

const updateMerchantAddress = `
UPDATE spy_merchant_address
SET fk_country = $2, city = $3, zip_code = $4, address1 = $5, address2 = $6, address3 = $7
WHERE id_merchant_address = $1`

func (q *Queries) UpdateMerchantAddress(ctx context.Context, a MerchantAddress) error {
	_, err := q.db.Exec(ctx, updateMerchantAddress,
		a.IDMerchantAddress,
		a.FkCountry,
		a.City,
		a.ZipCode,
		a.Address1,
		a.Address2,
		a.Address3,
	)
	return err
}
