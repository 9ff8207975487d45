package repository

import (
	"context"
	"database/sql"
)

// TokenRepo is the active-token allow-list.  Rows in `auth` are keyed by
// the token's signature segment.  DB is either the pool or a transaction
// the caller already holds.
type TokenRepo struct{ DB querier }

func NewTokenRepo(db *sql.DB) *TokenRepo { return &TokenRepo{DB: db} }

// Insert marks a signature as active for userID.
func (r *TokenRepo) Insert(ctx context.Context, signature string, userID uint64) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT INTO auth (token, userId) VALUES (?, ?)",
		signature, userID)
	return err
}

// Delete removes the signature.  Deleting a missing row is not an error.
func (r *TokenRepo) Delete(ctx context.Context, signature string) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM auth WHERE token = ?", signature)
	return err
}

// Exists reports whether the signature is active.
func (r *TokenRepo) Exists(ctx context.Context, signature string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM auth WHERE token = ?", signature).Scan(&n)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

// DeleteForUser revokes every session of a user.
func (r *TokenRepo) DeleteForUser(ctx context.Context, userID uint64) error {
	_, err := r.DB.ExecContext(ctx, "DELETE FROM auth WHERE userId = ?", userID)
	return err
}
