package handler // handler package contains professor CRUD handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/qualifica/professor-rating-api/internal/repository"
)

// ProfessorHandler bundles the repositories for professor CRUD and the
// rating summary shown on a professor's page.
type ProfessorHandler struct {
	Professors *repository.ProfessorRepo
	Ratings    *repository.RatingRepo
}

func NewProfessorHandler(p *repository.ProfessorRepo, r *repository.RatingRepo) *ProfessorHandler {
	if p == nil || r == nil {
		panic("nil repository passed to NewProfessorHandler")
	}
	return &ProfessorHandler{Professors: p, Ratings: r}
}

type professorReq struct {
	Name       string `json:"name"`
	Department string `json:"department"`
	University uint64 `json:"university"`
}

type professorResp struct {
	ID             uint64  `json:"id"`
	Name           string  `json:"name"`
	Department     string  `json:"department"`
	UniversityID   uint64  `json:"universityId"`
	UniversityName string  `json:"universityName"`
	AverageScore   float64 `json:"averageScore,omitempty"`
	RatingCount    int     `json:"ratingCount,omitempty"`
}

func professorPayload(p *repository.Professor) professorResp {
	return professorResp{
		ID:             p.ID,
		Name:           p.Name,
		Department:     p.Department,
		UniversityID:   p.UniversityID,
		UniversityName: p.UniversityName,
	}
}

// CreateProfessor handles POST /v1/professors (ADMIN).
func (h *ProfessorHandler) CreateProfessor(c echo.Context) error {
	var body professorReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	department := strings.TrimSpace(body.Department)
	if name == "" || department == "" || body.University == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name/department/university required"})
	}
	p := &repository.Professor{Name: name, Department: department, UniversityID: body.University}
	if err := h.Professors.Create(c.Request().Context(), p); err != nil {
		if errors.Is(err, repository.ErrUniversityNotFound) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "university not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create professor"})
	}
	return c.JSON(http.StatusCreated, professorPayload(p))
}

// ListProfessors handles GET /v1/professors (public, cached). Supports
// ?university=<id> and ?search=<name fragment> filters.
func (h *ProfessorHandler) ListProfessors(c echo.Context) error {
	var universityID uint64
	if v := c.QueryParam("university"); v != "" {
		id, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid university filter"})
		}
		universityID = id
	}
	items, err := h.Professors.List(c.Request().Context(), universityID, c.QueryParam("search"))
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "query failed"})
	}
	out := make([]professorResp, 0, len(items))
	for i := range items {
		out = append(out, professorPayload(&items[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// GetProfessor handles GET /v1/professors/:id (public). The response
// includes the rating average so the page needs a single request.
func (h *ProfessorHandler) GetProfessor(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	p, err := h.Professors.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProfessorNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "professor not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "query failed"})
	}
	resp := professorPayload(p)
	if avg, count, err := h.Ratings.AverageForProfessor(c.Request().Context(), id); err == nil {
		resp.AverageScore = avg
		resp.RatingCount = count
	}
	return c.JSON(http.StatusOK, resp)
}

// UpdateProfessor handles PATCH /v1/professors/:id (ADMIN).
func (h *ProfessorHandler) UpdateProfessor(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	existing, err := h.Professors.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrProfessorNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "professor not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "query failed"})
	}
	var body professorReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if name := strings.TrimSpace(body.Name); name != "" {
		existing.Name = name
	}
	if department := strings.TrimSpace(body.Department); department != "" {
		existing.Department = department
	}
	if body.University != 0 {
		existing.UniversityID = body.University
	}
	if err := h.Professors.Update(c.Request().Context(), existing); err != nil {
		if errors.Is(err, repository.ErrUniversityNotFound) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "university not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, professorPayload(existing))
}

// DeleteProfessor handles DELETE /v1/professors/:id (ADMIN).
func (h *ProfessorHandler) DeleteProfessor(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	if err := h.Professors.Delete(c.Request().Context(), id); err != nil {
		if errors.Is(err, repository.ErrProfessorNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "professor not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
