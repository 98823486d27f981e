// Package models holds the records persisted by the auth service.
package models

import "time"

// User is the stored identity record. PasswordHash never leaves the
// store and service layers; callers receive a PublicUser instead.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	Profile      map[string]any
	CreatedAt    time.Time
}

// PublicUser is the caller-facing view of a User.
type PublicUser struct {
	ID        string         `json:"id"`
	Email     string         `json:"email"`
	Profile   map[string]any `json:"profile,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// Public strips the password hash.
func (u *User) Public() *PublicUser {
	return &PublicUser{
		ID:        u.ID,
		Email:     u.Email,
		Profile:   u.Profile,
		CreatedAt: u.CreatedAt,
	}
}

// reservedProfileKeys cannot be set through the profile map.
var reservedProfileKeys = []string{"password", "id", "email"}

// SanitizeProfile returns a copy of p without reserved keys. A nil or empty
// input yields an empty, non-nil map.
func SanitizeProfile(p map[string]any) map[string]any {
	out := make(map[string]any, len(p))
	for k, v := range p {
		out[k] = v
	}
	for _, k := range reservedProfileKeys {
		delete(out, k)
	}
	return out
}
