package user

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestSlugify(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"Anna Ivanova", "anna-ivanova"},
		{"Мастер Красоты", "мастер-красоты"},
		{"  Nail   Studio!!  ", "nail-studio"},
		{"a--b---c", "a-b-c"},
		{"***", ""},
	}

	for _, tc := range cases {
		if got := Slugify(tc.in); got != tc.want {
			t.Errorf("Slugify(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("password123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}
	if !CheckPassword("password123", hash) {
		t.Fatal("correct password rejected")
	}
	if CheckPassword("wrong", hash) {
		t.Fatal("wrong password accepted")
	}
}

func TestTokenRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour)
	u := &User{
		ID:   uuid.New(),
		Name: "Test Master",
		Slug: "test-master",
	}

	token, err := issuer.Issue(u)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	id, claims, err := issuer.Verify(token)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if id != u.ID {
		t.Fatalf("subject = %s, want %s", id, u.ID)
	}
	if claims.Slug != u.Slug {
		t.Fatalf("slug claim = %q, want %q", claims.Slug, u.Slug)
	}
}

func TestTokenRejectedWithWrongSecret(t *testing.T) {
	issuer := NewTokenIssuer("secret-a", time.Hour)
	other := NewTokenIssuer("secret-b", time.Hour)

	token, err := issuer.Issue(&User{ID: uuid.New(), Name: "m", Slug: "m"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, _, err := other.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}

func TestExpiredTokenRejected(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", -time.Minute)

	token, err := issuer.Issue(&User{ID: uuid.New(), Name: "m", Slug: "m"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, _, err := issuer.Verify(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
