package store

import "context"

const findMerchantByKey = `
SELECT id_merchant, merchant_key, COALESCE(merchant_reference, ''), name, COALESCE(registration_number, ''), status, email, is_active
FROM spy_merchant
WHERE merchant_key = $1`

// FindMerchantByKey loads the full merchant with the given key.
func (q *Queries) FindMerchantByKey(ctx context.Context, merchantKey string) (Merchant, error) {
	var m Merchant
	err := q.db.QueryRow(ctx, findMerchantByKey, merchantKey).Scan(
		&m.IDMerchant,
		&m.MerchantKey,
		&m.MerchantReference,
		&m.Name,
		&m.RegistrationNumber,
		&m.Status,
		&m.Email,
		&m.IsActive,
	)
	if err != nil {
		return Merchant{}, notFound(err)
	}
	return m, nil
}

const createMerchant = `
INSERT INTO spy_merchant (merchant_key, merchant_reference, name, registration_number, status, email, is_active)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING id_merchant`

// CreateMerchant inserts m and sets m.IDMerchant.
func (q *Queries) CreateMerchant(ctx context.Context, m *Merchant) error {
	return q.db.QueryRow(ctx, createMerchant,
		m.MerchantKey,
		m.MerchantReference,
		m.Name,
		m.RegistrationNumber,
		m.Status,
		m.Email,
		m.IsActive,
	).Scan(&m.IDMerchant)
}

const updateMerchant = `
UPDATE spy_merchant
SET merchant_reference = $2, name = $3, registration_number = $4, status = $5, email = $6, is_active = $7
WHERE id_merchant = $1`

// UpdateMerchant writes every scalar column of m.
func (q *Queries) UpdateMerchant(ctx context.Context, m Merchant) error {
	tag, err := q.db.Exec(ctx, updateMerchant,
		m.IDMerchant,
		m.MerchantReference,
		m.Name,
		m.RegistrationNumber,
		m.Status,
		m.Email,
		m.IsActive,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
