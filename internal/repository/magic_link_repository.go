package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// MagicLink models a row in the `magic_links` table. A link is a
// single-use email-verification credential: at most one row exists per
// email (UNIQUE key), and a row transitions is_used 0 -> 1 exactly once.
//
// Fields:
//  ID        – primary key identifier.
//  Email     – normalized address the link was issued for (unique).
//  Token     – opaque UUID embedded in the verification URL (unique).
//  ExpiresAt – expiration timestamp (15 minutes after issue).
//  IsUsed    – whether the link has been consumed.
//  CreatedAt – timestamp of creation.
type MagicLink struct {
	ID        uint64
	Email     string
	Token     string
	ExpiresAt time.Time
	IsUsed    bool
	CreatedAt time.Time
}

// MagicLinkRepo persists single-use email verification links.
type MagicLinkRepo struct{ DB *sql.DB }

func NewMagicLinkRepo(db *sql.DB) *MagicLinkRepo { return &MagicLinkRepo{DB: db} }

const linkColumns = "id,email,token,expires_at,is_used,created_at"

// FindByEmail returns the link row for an email, if any.
func (r *MagicLinkRepo) FindByEmail(ctx context.Context, email string) (*MagicLink, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+linkColumns+" FROM magic_links WHERE email=? LIMIT 1", email))
}

// FindByToken returns the link carrying the given token, if any.
func (r *MagicLinkRepo) FindByToken(ctx context.Context, token string) (*MagicLink, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+linkColumns+" FROM magic_links WHERE token=? LIMIT 1", token))
}

// Upsert installs a fresh token for the email in a single conditional
// write: an existing row is rotated in place (token and expiry replaced,
// is_used reset to 0), otherwise a new row is inserted. The UNIQUE key on
// email guarantees a second row is never created.
func (r *MagicLinkRepo) Upsert(ctx context.Context, email, token string, expiresAt time.Time) error {
	email = strings.ToLower(strings.TrimSpace(email))
	_, err := r.DB.ExecContext(ctx,
		`INSERT INTO magic_links (email, token, expires_at, is_used) VALUES (?,?,?,0)
		 ON DUPLICATE KEY UPDATE token=VALUES(token), expires_at=VALUES(expires_at), is_used=0`,
		email, token, expiresAt)
	return err
}

// MarkUsed consumes a link. The update is conditional on is_used still
// being 0 so that two concurrent verifications cannot both win: the loser
// observes zero affected rows and receives ErrLinkUsed.
func (r *MagicLinkRepo) MarkUsed(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE magic_links SET is_used=1 WHERE id=? AND is_used=0", id)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrLinkUsed
	}
	return nil
}

// DeleteExpiredBefore removes rows whose expiry is older than the cutoff.
// Deleting rows that are already gone is a no-op, so the sweep can be
// replayed freely.
func (r *MagicLinkRepo) DeleteExpiredBefore(ctx context.Context, cutoff time.Time) error {
	_, err := r.DB.ExecContext(ctx,
		"DELETE FROM magic_links WHERE expires_at < ?", cutoff)
	return err
}

func (r *MagicLinkRepo) scanOne(row *sql.Row) (*MagicLink, error) {
	var l MagicLink
	err := row.Scan(&l.ID, &l.Email, &l.Token, &l.ExpiresAt, &l.IsUsed, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrLinkNotFound
		}
		return nil, err
	}
	return &l, nil
}
