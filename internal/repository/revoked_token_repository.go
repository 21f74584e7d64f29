package repository

import (
	"context"
	"database/sql"
	"time"
)

// RevokedToken models a row in the `revoked_tokens` table: one row per
// logged-out token, keyed by the token's jti claim. Presence of a jti
// here makes any token bearing it permanently rejected, even before its
// natural expiry.
type RevokedToken struct {
	JTI       string
	ExpiresAt time.Time
	RevokedAt time.Time
}

// RevokedTokenRepo is the revocation ledger consulted on every
// authenticated request.
type RevokedTokenRepo struct{ DB *sql.DB }

func NewRevokedTokenRepo(db *sql.DB) *RevokedTokenRepo { return &RevokedTokenRepo{DB: db} }

// Insert records a revoked jti with the token's expiry (kept for
// pruning). Re-inserting the same jti is idempotent.
func (r *RevokedTokenRepo) Insert(ctx context.Context, jti string, expiresAt time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO revoked_tokens (jti, expires_at) VALUES (?,?)
		 ON DUPLICATE KEY UPDATE expires_at=VALUES(expires_at)`,
		jti, expiresAt)
	return err
}

// Exists reports whether the jti has been revoked.
func (r *RevokedTokenRepo) Exists(ctx context.Context, jti string) (bool, error) {
	var one int
	err := r.DB.QueryRowContext(ctx,
		"SELECT 1 FROM revoked_tokens WHERE jti=? LIMIT 1", jti).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// DeleteExpiredBefore prunes ledger rows whose token expiry is older than
// the cutoff. An expired token fails signature/expiry checks on its own,
// so its ledger row no longer serves a purpose.
func (r *RevokedTokenRepo) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM revoked_tokens WHERE expires_at < ?", cutoff)
	return err
}
