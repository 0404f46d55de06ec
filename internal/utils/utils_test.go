package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("s3cret", 4)
	if err != nil {
		t.Fatalf("HashPassword failed: %v", err)
	}
	if hash == "s3cret" {
		t.Fatal("hash must not equal the plain password")
	}
	if !VerifyPassword(hash, "s3cret") {
		t.Error("expected correct password to verify")
	}
	if VerifyPassword(hash, "wrong") {
		t.Error("expected wrong password to fail verification")
	}
}

func TestNewAccessToken(t *testing.T) {
	tok, err := NewAccessToken("test-secret", 42, "mechanic", 15)
	if err != nil {
		t.Fatalf("NewAccessToken failed: %v", err)
	}
	if tok.Token == "" {
		t.Fatal("expected a non-empty token")
	}
	if until := time.Until(tok.Exp); until < 14*time.Minute || until > 16*time.Minute {
		t.Errorf("expiry out of range: %s", until)
	}

	parsed, err := jwt.Parse(tok.Token, func(t *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		t.Fatal("expected valid map claims")
	}
	if sub, _ := claims["sub"].(float64); uint64(sub) != 42 {
		t.Errorf("unexpected sub claim: %v", claims["sub"])
	}
	if claims["role"] != "mechanic" {
		t.Errorf("unexpected role claim: %v", claims["role"])
	}

	// A token signed with one secret must not verify under another.
	if _, err := jwt.Parse(tok.Token, func(t *jwt.Token) (any, error) {
		return []byte("other-secret"), nil
	}); err == nil {
		t.Error("expected verification failure with the wrong secret")
	}
}
