package utils

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func signedToken(t *testing.T, claims jwt.Claims) string {
	t.Helper()
	s, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("any-key"))
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}
	return s
}

func TestTokenExpiry_Success(t *testing.T) {
	exp := time.Now().Add(time.Hour).Truncate(time.Second)
	token := signedToken(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)})

	got, err := TokenExpiry(token)

	if err != nil {
		t.Fatalf("expected no error, got: %v", err)
	}
	if !got.Equal(exp) {
		t.Errorf("expected exp %s, got %s", exp, got)
	}
}

func TestTokenExpiry_ExpiredTokenStillParsed(t *testing.T) {
	exp := time.Now().Add(-time.Hour).Truncate(time.Second)
	token := signedToken(t, jwt.RegisteredClaims{ExpiresAt: jwt.NewNumericDate(exp)})

	got, err := TokenExpiry(token)

	if err != nil {
		t.Fatalf("expected no error for expired token, got: %v", err)
	}
	if !got.Equal(exp) {
		t.Errorf("expected exp %s, got %s", exp, got)
	}
}

func TestTokenExpiry_NoExpClaim(t *testing.T) {
	token := signedToken(t, jwt.RegisteredClaims{Subject: "agent"})

	_, err := TokenExpiry(token)

	if !errors.Is(err, ErrNoExpiry) {
		t.Fatalf("expected ErrNoExpiry, got: %v", err)
	}
}

func TestTokenExpiry_Opaque(t *testing.T) {
	if _, err := TokenExpiry("not-a-jwt"); err == nil {
		t.Fatal("expected error for opaque token, got nil")
	}
}
