package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/qualifica/professor-rating-api/internal/repository"
)

// fakeRatings records the listing arguments the handler derives from
// query parameters and serves a small fixed data set.
type fakeRatings struct {
	ratings []repository.Rating

	lastSearch string
	lastLimit  int
	lastOffset int
}

func (f *fakeRatings) Create(_ context.Context, rt *repository.Rating) error {
	rt.ID = uint64(len(f.ratings) + 1)
	f.ratings = append(f.ratings, *rt)
	return nil
}

func (f *fakeRatings) GetByID(_ context.Context, id uint64) (*repository.Rating, error) {
	for i := range f.ratings {
		if f.ratings[i].ID == id {
			cp := f.ratings[i]
			return &cp, nil
		}
	}
	return nil, repository.ErrRatingNotFound
}

func (f *fakeRatings) ListByProfessor(_ context.Context, professorID uint64, search string, limit, offset int) ([]repository.Rating, int, error) {
	f.lastSearch, f.lastLimit, f.lastOffset = search, limit, offset

	matched := []repository.Rating{}
	for _, rt := range f.ratings {
		if rt.ProfessorID != professorID {
			continue
		}
		if search != "" && !strings.Contains(strings.ToLower(rt.Comment), strings.ToLower(search)) {
			continue
		}
		matched = append(matched, rt)
	}
	total := len(matched)
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (f *fakeRatings) Update(_ context.Context, id, studentID uint64, admin bool, score int, comment string) (*repository.Rating, error) {
	for i := range f.ratings {
		if f.ratings[i].ID == id {
			if !admin && f.ratings[i].StudentID != studentID {
				return nil, repository.ErrForbidden
			}
			f.ratings[i].Score, f.ratings[i].Comment = score, comment
			cp := f.ratings[i]
			return &cp, nil
		}
	}
	return nil, repository.ErrRatingNotFound
}

func (f *fakeRatings) Delete(_ context.Context, id, studentID uint64, admin bool) error {
	for i := range f.ratings {
		if f.ratings[i].ID == id {
			if !admin && f.ratings[i].StudentID != studentID {
				return repository.ErrForbidden
			}
			f.ratings = append(f.ratings[:i], f.ratings[i+1:]...)
			return nil
		}
	}
	return repository.ErrRatingNotFound
}

func seededRatings() *fakeRatings {
	return &fakeRatings{ratings: []repository.Rating{
		{ID: 1, ProfessorID: 1, StudentID: 10, StudentName: "Ana", Score: 5, Comment: "great lectures"},
		{ID: 2, ProfessorID: 1, StudentID: 11, StudentName: "Bia", Score: 3, Comment: "hard exams"},
		{ID: 3, ProfessorID: 2, StudentID: 10, StudentName: "Ana", Score: 4, Comment: "great labs"},
	}}
}

func ratingEcho(f *fakeRatings) *echo.Echo {
	e := echo.New()
	h := NewRatingHandler(f)
	e.GET("/v1/professors/:id/ratings", h.ListRatingsForProfessor)
	e.GET("/v1/ratings/:id", h.GetRating)
	return e
}

func doGet(e *echo.Echo, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestListRatingsPaginationAndSearch(t *testing.T) {
	f := seededRatings()
	e := ratingEcho(f)

	rec := doGet(e, "/v1/professors/1/ratings?search=great&page=3&limit=10")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if f.lastSearch != "great" || f.lastLimit != 10 || f.lastOffset != 20 {
		t.Errorf("store got search=%q limit=%d offset=%d, want great/10/20",
			f.lastSearch, f.lastLimit, f.lastOffset)
	}
	body := rec.Body.String()
	for _, field := range []string{`"items"`, `"total":1`, `"page":3`, `"limit":10`} {
		if !strings.Contains(body, field) {
			t.Errorf("envelope missing %s: %s", field, body)
		}
	}

	// Defaults: first page of 20, no filter.
	rec = doGet(e, "/v1/professors/1/ratings")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if f.lastSearch != "" || f.lastLimit != 20 || f.lastOffset != 0 {
		t.Errorf("defaults: search=%q limit=%d offset=%d, want \"\"/20/0",
			f.lastSearch, f.lastLimit, f.lastOffset)
	}
	if !strings.Contains(rec.Body.String(), `"total":2`) {
		t.Errorf("body = %s", rec.Body.String())
	}

	// A limit beyond the cap is clamped.
	doGet(e, "/v1/professors/1/ratings?limit=9999")
	if f.lastLimit != 100 {
		t.Errorf("limit = %d, want clamp to 100", f.lastLimit)
	}
}

func TestGetRatingByID(t *testing.T) {
	e := ratingEcho(seededRatings())

	rec := doGet(e, "/v1/ratings/2")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), `"comment":"hard exams"`) {
		t.Errorf("body = %s", rec.Body.String())
	}

	if rec := doGet(e, "/v1/ratings/99"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown id: status = %d, want 404", rec.Code)
	}
	if rec := doGet(e, "/v1/ratings/abc"); rec.Code != http.StatusBadRequest {
		t.Errorf("bad id: status = %d, want 400", rec.Code)
	}
}

// fakeDirectory implements userDirectory over a map.
type fakeDirectory struct {
	users map[uint64]*repository.User
}

func (f *fakeDirectory) List(context.Context) ([]repository.User, error) {
	out := []repository.User{}
	for _, u := range f.users {
		out = append(out, *u)
	}
	return out, nil
}

func (f *fakeDirectory) FindByEmail(_ context.Context, email string) (*repository.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

func (f *fakeDirectory) FindByID(_ context.Context, id uint64) (*repository.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (f *fakeDirectory) Update(_ context.Context, id uint64, name, role string) (*repository.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	u.Name, u.Role = name, role
	cp := *u
	return &cp, nil
}

func (f *fakeDirectory) Delete(_ context.Context, id uint64) error {
	if _, ok := f.users[id]; !ok {
		return repository.ErrUserNotFound
	}
	delete(f.users, id)
	return nil
}

func userEcho(f *fakeDirectory) *echo.Echo {
	e := echo.New()
	h := NewUserHandler(f)
	e.GET("/v1/users", h.ListUsers)
	e.GET("/v1/users/email/:email", h.GetUserByEmail)
	e.PATCH("/v1/users/:id", h.UpdateUser)
	e.DELETE("/v1/users/:id", h.DeleteUser)
	return e
}

func seededDirectory() *fakeDirectory {
	return &fakeDirectory{users: map[uint64]*repository.User{
		1: {ID: 1, Name: "Ana", Email: "ana@example.com", PasswordHash: "$2a$10$secret",
			Role: repository.RoleStudent, IsEmailVerified: true, CreatedAt: time.Now().UTC()},
	}}
}

func TestUserManagementEndpoints(t *testing.T) {
	f := seededDirectory()
	e := userEcho(f)

	rec := doGet(e, "/v1/users")
	if rec.Code != http.StatusOK {
		t.Fatalf("list: status = %d", rec.Code)
	}
	if strings.Contains(strings.ToLower(rec.Body.String()), "password") {
		t.Errorf("list leaks password material: %s", rec.Body.String())
	}

	if rec := doGet(e, "/v1/users/email/ana@example.com"); rec.Code != http.StatusOK {
		t.Errorf("get by email: status = %d", rec.Code)
	}
	if rec := doGet(e, "/v1/users/email/ghost@example.com"); rec.Code != http.StatusNotFound {
		t.Errorf("unknown email: status = %d, want 404", rec.Code)
	}

	patch := func(target, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPatch, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, req)
		return rec
	}

	if rec := patch("/v1/users/1", `{"role":"OVERLORD"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("bad role: status = %d, want 400", rec.Code)
	}
	rec = patch("/v1/users/1", `{"role":"admin"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("promote: status = %d", rec.Code)
	}
	if f.users[1].Role != repository.RoleAdmin {
		t.Errorf("role = %q after promote", f.users[1].Role)
	}
	if f.users[1].Name != "Ana" {
		t.Errorf("name changed on role-only patch: %q", f.users[1].Name)
	}
	if rec := patch("/v1/users/42", `{"name":"X"}`); rec.Code != http.StatusNotFound {
		t.Errorf("patch unknown: status = %d, want 404", rec.Code)
	}

	del := func(target string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, target, nil))
		return rec
	}
	if rec := del("/v1/users/1"); rec.Code != http.StatusNoContent {
		t.Errorf("delete: status = %d, want 204", rec.Code)
	}
	if rec := del("/v1/users/1"); rec.Code != http.StatusNotFound {
		t.Errorf("delete again: status = %d, want 404", rec.Code)
	}
}
