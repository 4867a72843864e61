package user

import (
	"testing"
	"time"
)

func TestRefreshToken_Usable(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	revoked := now.Add(-time.Minute)

	tests := []struct {
		name string
		tok  RefreshToken
		want bool
	}{
		{"fresh", RefreshToken{ExpiresAt: now.Add(time.Hour)}, true},
		{"expired", RefreshToken{ExpiresAt: now.Add(-time.Second)}, false},
		{"expires now", RefreshToken{ExpiresAt: now}, false},
		{"revoked", RefreshToken{ExpiresAt: now.Add(time.Hour), RevokedAt: &revoked}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tok.Usable(now); got != tt.want {
				t.Fatalf("Usable = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestUser_PublicShapes(t *testing.T) {
	created := time.Date(2025, 3, 4, 5, 6, 7, 8_000_000, time.FixedZone("X", 3600))
	u := User{ID: "id-1", Name: "Test User", Email: "t@example.com", CreatedAt: created, UpdatedAt: created}

	r := u.Registered()
	if r.CreatedAt != "2025-03-04T04:06:07.008Z" {
		t.Fatalf("createdAt = %q", r.CreatedAt)
	}

	up := u.Updated()
	if up.ID != "id-1" || up.UpdatedAt != r.CreatedAt {
		t.Fatalf("unexpected %+v", up)
	}

	if !u.Active() {
		t.Fatalf("user without DeletedAt must be active")
	}
}

func TestPatch_Empty(t *testing.T) {
	if !(Patch{}).Empty() {
		t.Fatal("zero patch should be empty")
	}
	name := "x"
	if (Patch{Name: &name}).Empty() {
		t.Fatal("patch with name should not be empty")
	}
}
