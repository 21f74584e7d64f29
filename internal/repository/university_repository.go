// This file defines the University model and repository methods for CRUD
// and lookup operations. A University groups the professors affiliated
// with it; professors reference it through a foreign key.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// University represents a row in the `universities` table.
type University struct {
	ID        uint64
	Name      string
	Country   string
	City      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ErrUniversityNotFound is returned when a university cannot be found.
var ErrUniversityNotFound = errors.New("university not found")

// UniversityRepo encapsulates all database queries related to universities.
type UniversityRepo struct{ DB *sql.DB }

func NewUniversityRepo(db *sql.DB) *UniversityRepo { return &UniversityRepo{DB: db} }

const universityColumns = "id,name,country,city,created_at,updated_at"

// Create inserts a new university. On success the struct is repopulated
// with the stored row so callers receive DB-generated timestamps.
func (r *UniversityRepo) Create(ctx context.Context, u *University) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO universities (name, country, city) VALUES (?,?,?)",
		u.Name, u.Country, u.City)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	stored, err := r.GetByID(ctx, uint64(id))
	if err != nil {
		return err
	}
	*u = *stored
	return nil
}

// GetByID fetches a university by its ID.
func (r *UniversityRepo) GetByID(ctx context.Context, id uint64) (*University, error) {
	var u University
	err := r.DB.QueryRowContext(ctx,
		"SELECT "+universityColumns+" FROM universities WHERE id=? LIMIT 1", id).
		Scan(&u.ID, &u.Name, &u.Country, &u.City, &u.CreatedAt, &u.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUniversityNotFound
		}
		return nil, err
	}
	return &u, nil
}

// List returns all universities ordered by name.
func (r *UniversityRepo) List(ctx context.Context) ([]University, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+universityColumns+" FROM universities ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []University{}
	for rows.Next() {
		var u University
		if err := rows.Scan(&u.ID, &u.Name, &u.Country, &u.City, &u.CreatedAt, &u.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// Update overwrites the mutable fields of a university.
// ErrUniversityNotFound is returned when the id does not exist.
func (r *UniversityRepo) Update(ctx context.Context, u *University) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE universities SET name=?, country=?, city=? WHERE id=?",
		u.Name, u.Country, u.City, u.ID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		if _, err := r.GetByID(ctx, u.ID); err != nil {
			return err
		}
	}
	stored, err := r.GetByID(ctx, u.ID)
	if err != nil {
		return err
	}
	*u = *stored
	return nil
}

// Delete removes a university. Professors referencing it block the delete
// through the FK constraint, which surfaces as ErrConflict.
func (r *UniversityRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM universities WHERE id=?", id)
	if err != nil {
		if isFKViolation(err) {
			return ErrConflict
		}
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUniversityNotFound
	}
	return nil
}
