package billing

import (
	"context"
	"database/sql"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

func (r *PGRepo) ListPurchasers(ctx context.Context) ([]string, error) {
	const query = `
SELECT DISTINCT c.uid
FROM customer AS c
  JOIN purchase AS p
    ON p.customer_id = c.id
ORDER BY c.uid ASC`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var uid string
		if err := rows.Scan(&uid); err != nil {
			return nil, err
		}
		out = append(out, uid)
	}
	return out, rows.Err()
}

func (r *PGRepo) IsActiveSubscriber(ctx context.Context, uid string) (bool, error) {
	const query = `
SELECT EXISTS (
  SELECT 1
  FROM purchase AS p
    JOIN customer AS c
      ON p.customer_id = c.id
  WHERE c.uid = $1
    AND p.next_billing_at > CURRENT_TIMESTAMP
    AND (p.is_canceled = FALSE OR p.is_canceled IS NULL)
)`
	var active bool
	if err := r.DB.QueryRowContext(ctx, query, uid).Scan(&active); err != nil {
		return false, err
	}
	return active, nil
}

var _ Repo = (*PGRepo)(nil)
