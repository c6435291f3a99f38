package domain

import (
	"strings"
	"time"
)

// Role is the clinic classification attached to an identity at registration.
type Role string

const (
	RoleDoctor    Role = "doctor"
	RoleSecretary Role = "secretary"
	// RoleUnknown marks an identity with no user_roles row. It is kept explicit
	// so callers can tell a missing role apart from a real one.
	RoleUnknown Role = ""
)

// ParseRole maps a stored role value to a Role, returning RoleUnknown for
// anything it does not recognise.
func ParseRole(s string) Role {
	switch Role(strings.TrimSpace(s)) {
	case RoleDoctor:
		return RoleDoctor
	case RoleSecretary:
		return RoleSecretary
	default:
		return RoleUnknown
	}
}

// Known reports whether r is a role the clinic assigns.
func (r Role) Known() bool {
	return r == RoleDoctor || r == RoleSecretary
}

// Label returns the localized display label.
func (r Role) Label() string {
	switch r {
	case RoleDoctor:
		return "طبيب"
	case RoleSecretary:
		return "سكرتير/ة"
	default:
		return "مستخدم"
	}
}

// Identity is an authenticated account as issued by the gateway.
type Identity struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name,omitempty"`
	Phone    string `json:"phone,omitempty"`
}

// Initial is the avatar letter shown in the navigation shell.
func (i *Identity) Initial() string {
	if i == nil || i.Email == "" {
		return "U"
	}
	r := []rune(i.Email)
	return strings.ToUpper(string(r[0]))
}

// Session holds the gateway tokens for one signed-in identity.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	ExpiresAt    time.Time `json:"expires_at"`
	Identity     Identity  `json:"identity"`
}

// Expired reports whether the access token is past, or within skew of, its expiry.
func (s *Session) Expired(now time.Time, skew time.Duration) bool {
	if s == nil || s.ExpiresAt.IsZero() {
		return false
	}
	return !now.Add(skew).Before(s.ExpiresAt)
}
