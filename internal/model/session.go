package model

import "time"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// SessionUser is the reduced user view that may be persisted and shown.
type SessionUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Session is a fully validated operator session: the access token decoded to
// an admin role and was not expired when the session was built.
type Session struct {
	User         SessionUser `json:"user"`
	AccessToken  string      `json:"-"`
	RefreshToken string      `json:"-"`
	ExpiresAt    time.Time   `json:"expires_at"`
}

// SessionSnapshot is what gets persisted under the session snapshot key.
// Tokens are stored separately and never appear here.
type SessionSnapshot struct {
	User            *SessionUser `json:"user"`
	IsAuthenticated bool         `json:"isAuthenticated"`
}

type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token          TokenPair `json:"token"`
	EmailConfirmed bool      `json:"emailConfirmed"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type RefreshTokenResponse = TokenPair
