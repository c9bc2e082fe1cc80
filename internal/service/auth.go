package service

import (
	"errors"
	"time"

	"github.com/randpass/randpass-go/internal/crypto"
	"github.com/randpass/randpass-go/internal/model"
)

var (
	ErrInvalidCredentials = errors.New("invalid password")
	ErrPasswordRequired   = errors.New("password is required")
	ErrOperatorDisabled   = errors.New("operator login is not configured")
)

const operatorSubject = "operator"

// AuthService issues tokens for the operator routes.
type AuthService struct {
	passwordHash string
	jwtSecret    string
	jwtExpiry    time.Duration
}

// NewAuthService creates a new AuthService. An empty passwordHash disables
// operator login.
func NewAuthService(passwordHash, secret string, expiry time.Duration) *AuthService {
	return &AuthService{
		passwordHash: passwordHash,
		jwtSecret:    secret,
		jwtExpiry:    expiry,
	}
}

// IssueToken checks the operator password and returns a signed token.
func (s *AuthService) IssueToken(req model.TokenRequest) (model.TokenResponse, error) {
	if s.passwordHash == "" {
		return model.TokenResponse{}, ErrOperatorDisabled
	}
	if req.Password == "" {
		return model.TokenResponse{}, ErrPasswordRequired
	}

	match, err := crypto.VerifyPassword(req.Password, s.passwordHash)
	if err != nil {
		return model.TokenResponse{}, err
	}
	if !match {
		return model.TokenResponse{}, ErrInvalidCredentials
	}

	token, expiresAt, err := crypto.GenerateToken(operatorSubject, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		return model.TokenResponse{}, err
	}
	return model.TokenResponse{Token: token, ExpiresAt: expiresAt}, nil
}
