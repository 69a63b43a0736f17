package store

import "context"

const findMerchantURL = `
SELECT id_url, fk_resource_merchant, fk_locale, url
FROM spy_url
WHERE fk_resource_merchant = $1 AND fk_locale = $2`

// FindMerchantURL loads the URL of a merchant for one locale.
func (q *Queries) FindMerchantURL(ctx context.Context, idMerchant, idLocale int64) (URL, error) {
	var u URL
	err := q.db.QueryRow(ctx, findMerchantURL, idMerchant, idLocale).Scan(
		&u.IDURL,
		&u.FkResourceMerchant,
		&u.FkLocale,
		&u.URL,
	)
	if err != nil {
		return URL{}, notFound(err)
	}
	return u, nil
}

const createURL = `
INSERT INTO spy_url (fk_resource_merchant, fk_locale, url)
VALUES ($1, $2, $3)
RETURNING id_url`

// CreateURL inserts u and sets u.IDURL.
func (q *Queries) CreateURL(ctx context.Context, u *URL) error {
	return q.db.QueryRow(ctx, createURL, u.FkResourceMerchant, u.FkLocale, u.URL).Scan(&u.IDURL)
}

const updateURL = `UPDATE spy_url SET url = $2 WHERE id_url = $1`

func (q *Queries) UpdateURL(ctx context.Context, u URL) error {
	_, err := q.db.Exec(ctx, updateURL, u.IDURL, u.URL)
	return err
}
