package auth

import (
	"testing"
	"time"

	"github.com/qualifica/professor-rating-api/internal/repository"
)

func testUser() *repository.User {
	return &repository.User{
		ID:    42,
		Email: "ana@example.com",
		Role:  repository.RoleStudent,
	}
}

func TestTokenRoundTrip(t *testing.T) {
	tc := NewTokenCodec("secret", time.Hour)

	signed, exp, err := tc.Issue(testUser())
	if err != nil {
		t.Fatal(err)
	}
	if exp.Before(time.Now()) {
		t.Errorf("expiry %v already in the past", exp)
	}

	claims, err := tc.Decode(signed)
	if err != nil {
		t.Fatal(err)
	}
	if id, err := claims.UserID(); err != nil || id != 42 {
		t.Errorf("UserID() = %d, %v", id, err)
	}
	if claims.Email != "ana@example.com" || claims.Role != repository.RoleStudent {
		t.Errorf("claims = %q/%q", claims.Email, claims.Role)
	}
	if claims.ID == "" {
		t.Error("no jti")
	}
}

func TestTokenJTIUnique(t *testing.T) {
	tc := NewTokenCodec("secret", time.Hour)
	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		signed, _, err := tc.Issue(testUser())
		if err != nil {
			t.Fatal(err)
		}
		claims, err := tc.Decode(signed)
		if err != nil {
			t.Fatal(err)
		}
		if seen[claims.ID] {
			t.Fatalf("duplicate jti %q after %d tokens", claims.ID, i)
		}
		seen[claims.ID] = true
	}
}

func TestTokenWrongSecretRejected(t *testing.T) {
	signed, _, err := NewTokenCodec("secret-a", time.Hour).Issue(testUser())
	if err != nil {
		t.Fatal(err)
	}
	if _, err := NewTokenCodec("secret-b", time.Hour).Decode(signed); err == nil {
		t.Fatal("token signed with another secret decoded")
	}
}

func TestTokenExpiryEnforced(t *testing.T) {
	tc := NewTokenCodec("secret", time.Hour)
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	tc.now = func() time.Time { return clock }

	signed, exp, err := tc.Issue(testUser())
	if err != nil {
		t.Fatal(err)
	}
	if want := clock.Add(time.Hour); !exp.Equal(want) {
		t.Errorf("exp = %v, want %v", exp, want)
	}

	if _, err := tc.Decode(signed); err != nil {
		t.Fatalf("fresh token rejected: %v", err)
	}

	clock = clock.Add(2 * time.Hour)
	if _, err := tc.Decode(signed); err == nil {
		t.Fatal("expired token accepted")
	}
}

func TestTokenGarbageRejected(t *testing.T) {
	tc := NewTokenCodec("secret", time.Hour)
	for _, raw := range []string{"", "garbage", "a.b.c"} {
		if _, err := tc.Decode(raw); err == nil {
			t.Errorf("Decode(%q) accepted", raw)
		}
	}
}
