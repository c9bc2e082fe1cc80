package model

import "time"

// TokenRequest is an operator login.
type TokenRequest struct {
	Password string `json:"password"`
}

// TokenResponse carries a signed operator token.
type TokenResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
