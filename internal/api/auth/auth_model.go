package auth

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"
)

// The four ways a request can fail to produce an authenticated identity.
// All of them map to a plain 401 at the boundary; they stay distinct
// internally for logging only, never for response bodies.
var ErrAuthenticationFailed = errors.New("invalid credentials")
var ErrNotAuthenticated = errors.New("authentication required")
var ErrInvalidToken = errors.New("invalid or expired token")
var ErrUserNotFound = errors.New("token subject no longer exists")

// SessionCookieName is the cookie that carries the session token on
// cookie-sourced routes.
const SessionCookieName = "session"

// SessionClaims is the fixed claim structure asserted inside a session token:
// subject (username) and expiry live in RegisteredClaims, email rides along.
// Decoding always goes through this struct, never an open claim map.
type SessionClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// LoginRequest represents the JSON login request body.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// TokenResponse is returned by the token endpoint.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// LoginResult is what Login hands the HTTP layer: the signed token and the
// cookie lifetime derived from the same clock, so cookie max-age and token
// expiry cannot drift apart.
type LoginResult struct {
	AccessToken string
	// ExpiresIn is the token lifetime in whole seconds.
	ExpiresIn int64
	Subject   string
	Email     string
}
