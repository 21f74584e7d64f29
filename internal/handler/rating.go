package handler // handler package contains rating handlers

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/qualifica/professor-rating-api/internal/repository"
)

// ratingStore is the slice of the rating repository the handler needs.
// *repository.RatingRepo satisfies it.
type ratingStore interface {
	Create(ctx context.Context, rt *repository.Rating) error
	GetByID(ctx context.Context, id uint64) (*repository.Rating, error)
	ListByProfessor(ctx context.Context, professorID uint64, search string, limit, offset int) ([]repository.Rating, int, error)
	Update(ctx context.Context, id, studentID uint64, admin bool, score int, comment string) (*repository.Rating, error)
	Delete(ctx context.Context, id, studentID uint64, admin bool) error
}

// RatingHandler serves student ratings. Creation is student-gated;
// update/delete require ownership or the ADMIN role.
type RatingHandler struct {
	Ratings ratingStore
}

func NewRatingHandler(r ratingStore) *RatingHandler {
	if r == nil {
		panic("nil store passed to NewRatingHandler")
	}
	return &RatingHandler{Ratings: r}
}

type ratingReq struct {
	ProfessorID uint64 `json:"professorId"`
	Score       int    `json:"score"`
	Comment     string `json:"comment"`
}

type ratingResp struct {
	ID          uint64    `json:"id"`
	ProfessorID uint64    `json:"professorId"`
	StudentID   uint64    `json:"studentId"`
	StudentName string    `json:"studentName"`
	Score       int       `json:"score"`
	Comment     string    `json:"comment,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
}

func ratingPayload(r *repository.Rating) ratingResp {
	return ratingResp{
		ID:          r.ID,
		ProfessorID: r.ProfessorID,
		StudentID:   r.StudentID,
		StudentName: r.StudentName,
		Score:       r.Score,
		Comment:     r.Comment,
		CreatedAt:   r.CreatedAt,
	}
}

// CreateRating handles POST /v1/ratings (STUDENT). A student may rate a
// given professor only once.
func (h *RatingHandler) CreateRating(c echo.Context) error {
	studentID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}
	var body ratingReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if body.ProfessorID == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "professorId required"})
	}
	if body.Score < 1 || body.Score > 5 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "score must be between 1 and 5"})
	}
	rt := &repository.Rating{
		ProfessorID: body.ProfessorID,
		StudentID:   studentID,
		Score:       body.Score,
		Comment:     strings.TrimSpace(body.Comment),
	}
	if err := h.Ratings.Create(c.Request().Context(), rt); err != nil {
		switch {
		case errors.Is(err, repository.ErrAlreadyRated):
			return c.JSON(http.StatusForbidden, map[string]string{"error": "you have already rated this professor"})
		case errors.Is(err, repository.ErrProfessorNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": "professor not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create rating"})
	}
	return c.JSON(http.StatusCreated, ratingPayload(rt))
}

// ListRatingsForProfessor handles GET /v1/professors/:id/ratings
// (public, cached). Supports ?search=<comment fragment> plus ?page and
// ?limit; the envelope carries the total so clients can page.
func (h *RatingHandler) ListRatingsForProfessor(c echo.Context) error {
	professorID, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	search, page, limit, offset := listParams(c)
	items, total, err := h.Ratings.ListByProfessor(c.Request().Context(), professorID, search, limit, offset)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "query failed"})
	}
	out := make([]ratingResp, 0, len(items))
	for i := range items {
		out = append(out, ratingPayload(&items[i]))
	}
	return c.JSON(http.StatusOK, echo.Map{
		"items": out,
		"total": total,
		"page":  page,
		"limit": limit,
	})
}

// GetRating handles GET /v1/ratings/:id (public).
func (h *RatingHandler) GetRating(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	rt, err := h.Ratings.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrRatingNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "rating not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, ratingPayload(rt))
}

// UpdateRating handles PATCH /v1/ratings/:id (owner or ADMIN).
func (h *RatingHandler) UpdateRating(c echo.Context) error {
	studentID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	var body ratingReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if body.Score < 1 || body.Score > 5 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "score must be between 1 and 5"})
	}
	updated, err := h.Ratings.Update(c.Request().Context(), id, studentID, isAdmin(c),
		body.Score, strings.TrimSpace(body.Comment))
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrRatingNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": "rating not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, ratingPayload(updated))
}

// DeleteRating handles DELETE /v1/ratings/:id (owner or ADMIN).
func (h *RatingHandler) DeleteRating(c echo.Context) error {
	studentID, err := getUserID(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
	}
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	if err := h.Ratings.Delete(c.Request().Context(), id, studentID, isAdmin(c)); err != nil {
		switch {
		case errors.Is(err, repository.ErrRatingNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": "rating not found"})
		case errors.Is(err, repository.ErrForbidden):
			return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
