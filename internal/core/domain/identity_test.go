package domain

import (
	"testing"
	"time"
)

func TestRole_Label(t *testing.T) {
	cases := map[Role]string{
		RoleDoctor:    "طبيب",
		RoleSecretary: "سكرتير/ة",
		RoleUnknown:   "مستخدم",
		Role("admin"): "مستخدم",
	}
	for role, want := range cases {
		if got := role.Label(); got != want {
			t.Fatalf("Label(%q) = %q, want %q", role, got, want)
		}
	}
}

func TestParseRole(t *testing.T) {
	if ParseRole("doctor") != RoleDoctor {
		t.Fatalf("expected doctor")
	}
	if ParseRole(" secretary ") != RoleSecretary {
		t.Fatalf("expected secretary")
	}
	if r := ParseRole("nurse"); r != RoleUnknown || r.Known() {
		t.Fatalf("expected unknown role, got %q", r)
	}
}

func TestIdentity_Initial(t *testing.T) {
	var nilIdentity *Identity
	if nilIdentity.Initial() != "U" {
		t.Fatalf("nil identity should fall back to U")
	}
	if got := (&Identity{Email: "doc@example.com"}).Initial(); got != "D" {
		t.Fatalf("expected D, got %s", got)
	}
}

func TestSession_Expired(t *testing.T) {
	now := time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)
	s := &Session{ExpiresAt: now.Add(time.Minute)}

	if s.Expired(now, 0) {
		t.Fatalf("token with a minute left should not be expired")
	}
	if !s.Expired(now, 2*time.Minute) {
		t.Fatalf("token inside the skew window should be expired")
	}
	if (&Session{}).Expired(now, time.Hour) {
		t.Fatalf("zero expiry means unknown, not expired")
	}
}
