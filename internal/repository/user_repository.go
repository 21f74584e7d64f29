package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// Role names stored in users.role. Self-service signup always lands on
// RoleStudent; RoleAdmin accounts can only be minted by another admin.
const (
	RoleStudent = "STUDENT"
	RoleAdmin   = "ADMIN"
)

// User mirrors the 'users' table. Emails are stored lowercase regardless
// of the casing the client sent.
type User struct {
	ID              uint64
	Name            string
	Email           string
	PasswordHash    string
	Role            string
	IsEmailVerified bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

const userColumns = "id,name,email,password_hash,role,is_email_verified,created_at,updated_at"

// Create inserts a user and returns the stored row. The caller provides
// the bcrypt hash; plaintext passwords never reach this layer.
func (r *UserRepo) Create(ctx context.Context, name, email, passwordHash, role string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, email, password_hash, role) VALUES (?,?,?,?)",
		name, email, passwordHash, role)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return nil, ErrEmailExists
		}
		return nil, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return r.FindByID(ctx, uint64(id))
}

// FindByEmail fetches a user by normalized email.
func (r *UserRepo) FindByEmail(ctx context.Context, email string) (*User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email=? LIMIT 1", email))
}

// FindByID fetches a user by id.
func (r *UserRepo) FindByID(ctx context.Context, id uint64) (*User, error) {
	return r.scanOne(r.DB.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id=? LIMIT 1", id))
}

// SetEmailVerified flips the email-verified flag. The write is idempotent:
// replaying it after a partial verification leaves the row unchanged.
func (r *UserRepo) SetEmailVerified(ctx context.Context, id uint64, verified bool) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE users SET is_email_verified=? WHERE id=?", verified, id)
	return err
}

// List returns every account, newest first. Backs the admin user
// overview; callers strip the password hash before serving.
func (r *UserRepo) List(ctx context.Context) ([]User, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+userColumns+" FROM users ORDER BY created_at DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []User{}
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
			&u.IsEmailVerified, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Update overwrites the admin-editable fields (name and role) and
// returns the stored row. ErrUserNotFound when the id does not exist.
func (r *UserRepo) Update(ctx context.Context, id uint64, name, role string) (*User, error) {
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE users SET name=?, role=? WHERE id=?", name, role, id); err != nil {
		return nil, err
	}
	return r.FindByID(ctx, id)
}

// Delete removes an account. Ratings posted by the user go with it
// through ON DELETE CASCADE.
func (r *UserRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM users WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *UserRepo) scanOne(row *sql.Row) (*User, error) {
	var u User
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Role,
		&u.IsEmailVerified, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &u, nil
}
