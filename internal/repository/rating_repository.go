// This file defines the Rating model and repository methods. A rating is
// a score (1-5) plus an optional comment a student leaves on a
// professor; each student may rate a given professor at most once.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"
)

// Rating represents a row in the `ratings` table joined with the
// author's display name for read endpoints.
type Rating struct {
	ID          uint64
	ProfessorID uint64
	StudentID   uint64
	StudentName string
	Score       int
	Comment     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ErrRatingNotFound is returned when a rating cannot be found.
var ErrRatingNotFound = errors.New("rating not found")

// ErrAlreadyRated is returned when a student rates the same professor a
// second time (unique professor_id+student_id key).
var ErrAlreadyRated = errors.New("professor already rated by this student")

// RatingRepo encapsulates all database queries related to ratings.
type RatingRepo struct{ DB *sql.DB }

func NewRatingRepo(db *sql.DB) *RatingRepo { return &RatingRepo{DB: db} }

const ratingSelect = `SELECT r.id, r.professor_id, r.student_id, u.name, r.score,
	r.comment, r.created_at, r.updated_at
	FROM ratings r JOIN users u ON u.id = r.student_id`

// Create inserts a rating for (professor, student). The unique key on the
// pair enforces one rating per student per professor.
func (r *RatingRepo) Create(ctx context.Context, rt *Rating) error {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO ratings (professor_id, student_id, score, comment) VALUES (?,?,?,?)",
		rt.ProfessorID, rt.StudentID, rt.Score, rt.Comment)
	if err != nil {
		if strings.Contains(err.Error(), "1062") {
			return ErrAlreadyRated
		}
		if isFKViolation(err) {
			return ErrProfessorNotFound
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
	*rt = *stored
	return nil
}

// GetByID fetches a rating by its ID.
func (r *RatingRepo) GetByID(ctx context.Context, id uint64) (*Rating, error) {
	var rt Rating
	err := r.DB.QueryRowContext(ctx, ratingSelect+" WHERE r.id=? LIMIT 1", id).
		Scan(&rt.ID, &rt.ProfessorID, &rt.StudentID, &rt.StudentName, &rt.Score,
			&rt.Comment, &rt.CreatedAt, &rt.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrRatingNotFound
		}
		return nil, err
	}
	return &rt, nil
}

// ListByProfessor returns a page of ratings for a professor, newest
// first, along with the total match count for pagination. A non-empty
// search narrows the page to comments containing the fragment
// (case-insensitive).
func (r *RatingRepo) ListByProfessor(ctx context.Context, professorID uint64, search string, limit, offset int) ([]Rating, int, error) {
	cond := " WHERE r.professor_id=?"
	args := []interface{}{professorID}
	if s := strings.TrimSpace(search); s != "" {
		cond += " AND LOWER(r.comment) LIKE ?"
		args = append(args, "%"+strings.ToLower(s)+"%")
	}

	var total int
	if err := r.DB.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM ratings r"+cond, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.DB.QueryContext(ctx,
		ratingSelect+cond+" ORDER BY r.created_at DESC LIMIT ? OFFSET ?",
		append(args, limit, offset)...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []Rating{}
	for rows.Next() {
		var rt Rating
		if err := rows.Scan(&rt.ID, &rt.ProfessorID, &rt.StudentID, &rt.StudentName,
			&rt.Score, &rt.Comment, &rt.CreatedAt, &rt.UpdatedAt); err != nil {
			return nil, 0, err
		}
		out = append(out, rt)
	}
	return out, total, rows.Err()
}

// AverageForProfessor computes the mean score for a professor. A
// professor with no ratings yields (0, 0, nil).
func (r *RatingRepo) AverageForProfessor(ctx context.Context, professorID uint64) (avg float64, count int, err error) {
	err = r.DB.QueryRowContext(ctx,
		"SELECT COALESCE(AVG(score),0), COUNT(*) FROM ratings WHERE professor_id=?",
		professorID).Scan(&avg, &count)
	return avg, count, err
}

// Update overwrites score and comment, but only when the rating belongs
// to the given student unless admin override is set.
func (r *RatingRepo) Update(ctx context.Context, id, studentID uint64, admin bool, score int, comment string) (*Rating, error) {
	stored, err := r.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !admin && stored.StudentID != studentID {
		return nil, ErrForbidden
	}
	if _, err := r.DB.ExecContext(ctx,
		"UPDATE ratings SET score=?, comment=? WHERE id=?", score, comment, id); err != nil {
		return nil, err
	}
	return r.GetByID(ctx, id)
}

// Delete removes a rating with the same ownership rule as Update.
func (r *RatingRepo) Delete(ctx context.Context, id, studentID uint64, admin bool) error {
	stored, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !admin && stored.StudentID != studentID {
		return ErrForbidden
	}
	_, err = r.DB.ExecContext(ctx, "DELETE FROM ratings WHERE id=?", id)
	return err
}
