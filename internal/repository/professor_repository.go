// This file defines the Professor model and repository methods. A
// professor belongs to a university and accumulates ratings posted by
// students; listing supports filtering by university and name search.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// Professor represents a row in the `professors` table joined with the
// owning university's name for read endpoints.
type Professor struct {
	ID             uint64
	Name           string
	Department     string
	UniversityID   uint64
	UniversityName string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// ErrProfessorNotFound is returned when a professor cannot be found.
var ErrProfessorNotFound = errors.New("professor not found")

// ProfessorRepo encapsulates all database queries related to professors.
type ProfessorRepo struct{ DB *sql.DB }

func NewProfessorRepo(db *sql.DB) *ProfessorRepo { return &ProfessorRepo{DB: db} }

const professorSelect = `SELECT p.id, p.name, p.department, p.university_id, u.name,
	p.created_at, p.updated_at
	FROM professors p JOIN universities u ON u.id = p.university_id`

// Create inserts a professor. A missing university surfaces as a foreign
// key violation and is reported as ErrUniversityNotFound.
func (r *ProfessorRepo) Create(ctx context.Context, p *Professor) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO professors (name, department, university_id) VALUES (?,?,?)",
		p.Name, p.Department, p.UniversityID)
	if err != nil {
		if isFKViolation(err) {
			return ErrUniversityNotFound
		}
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
	*p = *stored
	return nil
}

// GetByID fetches a professor by its ID, including the university name.
func (r *ProfessorRepo) GetByID(ctx context.Context, id uint64) (*Professor, error) {
	var p Professor
	err := r.DB.QueryRowContext(ctx, professorSelect+" WHERE p.id=? LIMIT 1", id).
		Scan(&p.ID, &p.Name, &p.Department, &p.UniversityID, &p.UniversityName,
			&p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrProfessorNotFound
		}
		return nil, err
	}
	return &p, nil
}

// List returns professors, optionally filtered by university and by a
// case-insensitive name fragment.
func (r *ProfessorRepo) List(ctx context.Context, universityID uint64, search string) ([]Professor, error) {
	q := professorSelect
	args := []interface{}{}
	conds := []string{}
	if universityID != 0 {
		conds = append(conds, "p.university_id=?")
		args = append(args, universityID)
	}
	if s := strings.TrimSpace(search); s != "" {
		conds = append(conds, "LOWER(p.name) LIKE ?")
		args = append(args, "%"+strings.ToLower(s)+"%")
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY p.name"

	rows, err := r.DB.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Professor{}
	for rows.Next() {
		var p Professor
		if err := rows.Scan(&p.ID, &p.Name, &p.Department, &p.UniversityID,
			&p.UniversityName, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update overwrites the mutable fields of a professor.
func (r *ProfessorRepo) Update(ctx context.Context, p *Professor) error {
	_, err := r.DB.ExecContext(ctx,
		"UPDATE professors SET name=?, department=?, university_id=? WHERE id=?",
		p.Name, p.Department, p.UniversityID, p.ID)
	if err != nil {
		if isFKViolation(err) {
			return ErrUniversityNotFound
		}
		return err
	}
	stored, err := r.GetByID(ctx, p.ID)
	if err != nil {
		return err
	}
	*p = *stored
	return nil
}

// Delete removes a professor and, through ON DELETE CASCADE, its ratings.
func (r *ProfessorRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM professors WHERE id=?", id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrProfessorNotFound
	}
	return nil
}

// isFKViolation detects MySQL foreign key errors (1451 restrict on
// delete, 1452 missing parent on insert/update).
func isFKViolation(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "1451") || strings.Contains(msg, "1452")
}
