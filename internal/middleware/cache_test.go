package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/qualifica/professor-rating-api/internal/config"
)

func cacheTestConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{"GET": true},
		TTL:          time.Minute,
		KeyStrategy:  "route_query",
		Prefix:       "cache",
		MaxBodyBytes: 1 << 20,
	}
}

func TestCacheHitServesStoredResponse(t *testing.T) {
	calls := 0
	e := echo.New()
	e.GET("/v1/universities", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, map[string]int{"call": calls})
	}, NewRedisCache(cacheTestConfig(), testRedis(t)))

	first := httptest.NewRecorder()
	e.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/v1/universities", nil))
	if first.Header().Get("X-Cache") != "MISS" {
		t.Fatalf("first request X-Cache = %q, want MISS", first.Header().Get("X-Cache"))
	}

	second := httptest.NewRecorder()
	e.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/v1/universities", nil))
	if second.Header().Get("X-Cache") != "HIT" {
		t.Fatalf("second request X-Cache = %q, want HIT", second.Header().Get("X-Cache"))
	}
	if calls != 1 {
		t.Errorf("handler ran %d times, want 1", calls)
	}
	if first.Body.String() != second.Body.String() {
		t.Errorf("HIT body %q differs from MISS body %q", second.Body.String(), first.Body.String())
	}
	if ct := second.Header().Get(echo.HeaderContentType); ct == "" {
		t.Error("cached response lost its Content-Type")
	}
}

func TestCacheKeyIncludesQuery(t *testing.T) {
	e := echo.New()
	e.GET("/v1/professors", func(c echo.Context) error {
		return c.String(http.StatusOK, "uni="+c.QueryParam("university"))
	}, NewRedisCache(cacheTestConfig(), testRedis(t)))

	get := func(target string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
		return rec
	}

	get("/v1/professors?university=1")
	rec := get("/v1/professors?university=2")
	if rec.Header().Get("X-Cache") != "MISS" {
		t.Error("different query string should not share a cache entry")
	}
	if rec.Body.String() != "uni=2" {
		t.Errorf("body = %q", rec.Body.String())
	}
}

func TestCacheSkipsNonOKResponses(t *testing.T) {
	e := echo.New()
	e.GET("/v1/universities/:id", func(c echo.Context) error {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "university not found"})
	}, NewRedisCache(cacheTestConfig(), testRedis(t)))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/universities/9", nil))
		if rec.Header().Get("X-Cache") == "HIT" {
			t.Fatalf("request %d: 404 must never be served from cache", i)
		}
	}
}

func TestCacheSkipsUnlistedMethods(t *testing.T) {
	calls := 0
	e := echo.New()
	e.POST("/v1/universities", func(c echo.Context) error {
		calls++
		return c.JSON(http.StatusOK, map[string]int{"call": calls})
	}, NewRedisCache(cacheTestConfig(), testRedis(t)))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/v1/universities", nil))
		if rec.Header().Get("X-Cache") != "" {
			t.Fatalf("POST got X-Cache = %q", rec.Header().Get("X-Cache"))
		}
	}
	if calls != 2 {
		t.Errorf("handler ran %d times, want 2", calls)
	}
}

func TestCacheSkipsOversizedResponses(t *testing.T) {
	cfg := cacheTestConfig()
	cfg.MaxBodyBytes = 16
	big := strings.Repeat("x", 500)

	e := echo.New()
	e.GET("/v1/professors", func(c echo.Context) error {
		return c.String(http.StatusOK, big)
	}, NewRedisCache(cfg, testRedis(t)))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/professors", nil))
		if rec.Header().Get("X-Cache") == "HIT" {
			t.Fatal("oversized response must never be served from cache")
		}
		if rec.Body.String() != big {
			t.Fatalf("request %d: body truncated to %d bytes", i, rec.Body.Len())
		}
	}
}

func TestCacheDisabledPassesThrough(t *testing.T) {
	calls := 0
	e := echo.New()
	e.GET("/v1/universities", func(c echo.Context) error {
		calls++
		return c.String(http.StatusOK, fmt.Sprint(calls))
	}, NewRedisCache(config.CacheConfig{Enabled: false}, testRedis(t)))

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/v1/universities", nil))
		if rec.Header().Get("X-Cache") != "" {
			t.Fatal("disabled cache should not set X-Cache")
		}
	}
	if calls != 3 {
		t.Errorf("handler ran %d times, want 3", calls)
	}
}
