package api

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

func TestAuthDisabledReturnsEmptyUser(t *testing.T) {
	auth := NewAuth(nil, "", "")
	for _, header := range []string{"", "Bearer whatever", "garbage"} {
		userID, err := auth.UserIDFromAuthHeader(header)
		if err != nil {
			t.Fatalf("header %q: %v", header, err)
		}
		if userID != "" {
			t.Fatalf("header %q: expected empty user, got %q", header, userID)
		}
	}
}

func newHS256Auth(secret []byte, audience, issuer string) *Auth {
	return &Auth{
		Audience:   audience,
		Issuer:     issuer,
		TestMode:   true,
		TestSecret: secret,
		parser:     jwt.NewParser(jwt.WithValidMethods([]string{"HS256"}), jwt.WithoutClaimsValidation()),
	}
}

func TestUserIDFromAuthHeaderHS256(t *testing.T) {
	secret := []byte("test-secret")
	claims := jwt.MapClaims{
		"sub": "user-123",
		"aud": "api://aud",
		"iss": "https://issuer/",
		"exp": time.Now().Add(5 * time.Minute).Unix(),
		"nbf": time.Now().Add(-time.Minute).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	auth := newHS256Auth(secret, "api://aud", "https://issuer/")
	userID, err := auth.UserIDFromAuthHeader("Bearer " + signed)
	if err != nil {
		t.Fatalf("unexpected error verifying token: %v", err)
	}
	if userID != "user-123" {
		t.Fatalf("unexpected user id: %s", userID)
	}
}

func TestUserIDFromAuthHeaderExpired(t *testing.T) {
	secret := []byte("test-secret")
	claims := jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(-5 * time.Minute).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	if err != nil {
		t.Fatalf("failed to sign token: %v", err)
	}

	auth := newHS256Auth(secret, "", "")
	if _, err := auth.UserIDFromAuthHeader("Bearer " + signed); err == nil || err.Error() != "token expired" {
		t.Fatalf("expected token expired error, got %v", err)
	}
}

func TestUserIDFromAuthHeaderManyPeriods(t *testing.T) {
	auth := newHS256Auth([]byte("test-secret"), "", "")
	header := "Bearer " + strings.Repeat(".", 10000)
	if _, err := auth.UserIDFromAuthHeader(header); err == nil || err.Error() != "bad auth header" {
		t.Fatalf("expected bad auth header error, got %v", err)
	}
}
