package mail

import (
	"context"
	"database/sql"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// CountInvitations counts forwarded messages whose original content contains contentMarker.
func (r *PGRepo) CountInvitations(ctx context.Context, uid, contentMarker string) (int64, error) {
	const query = `
SELECT COUNT(m.id)
FROM smtp_users AS s_u
  LEFT JOIN forwarded_messages AS f_m
    ON s_u.uid = f_m.uid
  LEFT JOIN messages AS m
    ON f_m.forward_from_message_id = m.id
WHERE s_u.uid = $1
  AND strpos(m.data::text, $2) > 0`
	return r.count(ctx, query, uid, contentMarker)
}

// CountForwarded counts every forwarded message of the user.
func (r *PGRepo) CountForwarded(ctx context.Context, uid string) (int64, error) {
	const query = `SELECT COUNT(id) FROM forwarded_messages WHERE uid = $1`
	return r.count(ctx, query, uid)
}

func (r *PGRepo) count(ctx context.Context, query string, args ...any) (int64, error) {
	var n sql.NullInt64
	if err := r.DB.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, err
	}
	return n.Int64, nil
}

var _ Repo = (*PGRepo)(nil)
