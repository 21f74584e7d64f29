package handler // handler package contains university CRUD handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/qualifica/professor-rating-api/internal/repository"
)

// UniversityHandler bundles the repository needed for university CRUD.
// Writes are admin-gated by the router; reads are public.
type UniversityHandler struct {
	Universities *repository.UniversityRepo
}

func NewUniversityHandler(r *repository.UniversityRepo) *UniversityHandler {
	if r == nil {
		panic("nil repository passed to NewUniversityHandler")
	}
	return &UniversityHandler{Universities: r}
}

type universityReq struct {
	Name    string `json:"name"`
	Country string `json:"country"`
	City    string `json:"city"`
}

type universityResp struct {
	ID      uint64 `json:"id"`
	Name    string `json:"name"`
	Country string `json:"country,omitempty"`
	City    string `json:"city,omitempty"`
}

func universityPayload(u *repository.University) universityResp {
	return universityResp{ID: u.ID, Name: u.Name, Country: u.Country, City: u.City}
}

// CreateUniversity handles POST /v1/universities (ADMIN).
func (h *UniversityHandler) CreateUniversity(c echo.Context) error {
	var body universityReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	name := strings.TrimSpace(body.Name)
	if name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "name is required"})
	}
	u := &repository.University{Name: name, Country: strings.TrimSpace(body.Country), City: strings.TrimSpace(body.City)}
	if err := h.Universities.Create(c.Request().Context(), u); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "could not create university"})
	}
	return c.JSON(http.StatusCreated, universityPayload(u))
}

// ListUniversities handles GET /v1/universities (public, cached).
func (h *UniversityHandler) ListUniversities(c echo.Context) error {
	items, err := h.Universities.List(c.Request().Context())
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "query failed"})
	}
	out := make([]universityResp, 0, len(items))
	for i := range items {
		out = append(out, universityPayload(&items[i]))
	}
	return c.JSON(http.StatusOK, out)
}

// GetUniversity handles GET /v1/universities/:id (public).
func (h *UniversityHandler) GetUniversity(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	u, err := h.Universities.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrUniversityNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "university not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "query failed"})
	}
	return c.JSON(http.StatusOK, universityPayload(u))
}

// UpdateUniversity handles PATCH /v1/universities/:id (ADMIN).
func (h *UniversityHandler) UpdateUniversity(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	existing, err := h.Universities.GetByID(c.Request().Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrUniversityNotFound) {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "university not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "query failed"})
	}
	var body universityReq
	if err := c.Bind(&body); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid request body"})
	}
	if name := strings.TrimSpace(body.Name); name != "" {
		existing.Name = name
	}
	if country := strings.TrimSpace(body.Country); country != "" {
		existing.Country = country
	}
	if city := strings.TrimSpace(body.City); city != "" {
		existing.City = city
	}
	if err := h.Universities.Update(c.Request().Context(), existing); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "update failed"})
	}
	return c.JSON(http.StatusOK, universityPayload(existing))
}

// DeleteUniversity handles DELETE /v1/universities/:id (ADMIN).
func (h *UniversityHandler) DeleteUniversity(c echo.Context) error {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "invalid id"})
	}
	if err := h.Universities.Delete(c.Request().Context(), id); err != nil {
		switch {
		case errors.Is(err, repository.ErrUniversityNotFound):
			return c.JSON(http.StatusNotFound, map[string]string{"error": "university not found"})
		case errors.Is(err, repository.ErrConflict):
			return c.JSON(http.StatusConflict, map[string]string{"error": "university still has professors"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "delete failed"})
	}
	return c.NoContent(http.StatusNoContent)
}
