package service

import (
	"testing"
	"time"

	"github.com/randpass/randpass-go/internal/crypto"
	"github.com/randpass/randpass-go/internal/model"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	hash, err := crypto.HashPassword("operator-password")
	if err != nil {
		t.Fatalf("HashPassword() unexpected error: %v", err)
	}
	return NewAuthService(hash, "test-secret", time.Hour)
}

func TestIssueToken(t *testing.T) {
	svc := newTestAuthService(t)

	resp, err := svc.IssueToken(model.TokenRequest{Password: "operator-password"})
	if err != nil {
		t.Fatalf("IssueToken() unexpected error: %v", err)
	}

	claims, err := crypto.ValidateToken(resp.Token, "test-secret")
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if claims.Subject != operatorSubject {
		t.Errorf("Subject = %q, want %q", claims.Subject, operatorSubject)
	}
}

func TestIssueToken_Errors(t *testing.T) {
	svc := newTestAuthService(t)

	if _, err := svc.IssueToken(model.TokenRequest{}); err != ErrPasswordRequired {
		t.Errorf("empty password: expected ErrPasswordRequired, got %v", err)
	}
	if _, err := svc.IssueToken(model.TokenRequest{Password: "guess"}); err != ErrInvalidCredentials {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}

	disabled := NewAuthService("", "test-secret", time.Hour)
	if _, err := disabled.IssueToken(model.TokenRequest{Password: "anything"}); err != ErrOperatorDisabled {
		t.Errorf("no hash: expected ErrOperatorDisabled, got %v", err)
	}
}
