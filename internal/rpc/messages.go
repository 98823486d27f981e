package rpc

import "time"

type RegisterRequest struct {
	Email    string         `json:"email"`
	Password string         `json:"password"`
	Profile  map[string]any `json:"profile,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"accessToken"`
}

type ValidateTokenRequest struct {
	Token string `json:"token"`
}

type HealthRequest struct{}

type HealthResponse struct {
	Status    string    `json:"status"`
	Service   string    `json:"service"`
	UserCount int64     `json:"userCount"`
	Timestamp time.Time `json:"timestamp"`
}

// User is a stored user as seen by callers. It has no password field.
type User struct {
	ID        string         `json:"id"`
	Email     string         `json:"email"`
	Profile   map[string]any `json:"profile,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}
