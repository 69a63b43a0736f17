package store

import "context"

const findMerchantStore = `
SELECT id_merchant_store, fk_merchant, fk_store
FROM spy_merchant_store
WHERE fk_merchant = $1 AND fk_store = $2`

func (q *Queries) FindMerchantStore(ctx context.Context, idMerchant, idStore int64) (MerchantStore, error) {
	var ms MerchantStore
	err := q.db.QueryRow(ctx, findMerchantStore, idMerchant, idStore).Scan(
		&ms.IDMerchantStore,
		&ms.FkMerchant,
		&ms.FkStore,
	)
	if err != nil {
		return MerchantStore{}, notFound(err)
	}
	return ms, nil
}

const createMerchantStore = `
INSERT INTO spy_merchant_store (fk_merchant, fk_store)
VALUES ($1, $2)
RETURNING id_merchant_store`

func (q *Queries) CreateMerchantStore(ctx context.Context, ms *MerchantStore) error {
	return q.db.QueryRow(ctx, createMerchantStore, ms.FkMerchant, ms.FkStore).Scan(&ms.IDMerchantStore)
}
