package utils

import (
	"testing"
	"time"
)

func TestGenerateAndValidateJWT(t *testing.T) {
	token, err := GenerateJWT("operator-1", "admin", "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT returned error: %v", err)
	}
	if token == "" {
		t.Fatal("GenerateJWT returned empty token")
	}

	userID, role, err := ValidateJWT(token, "test-secret")
	if err != nil {
		t.Fatalf("ValidateJWT returned error: %v", err)
	}
	if userID != "operator-1" {
		t.Errorf("userID = %q, want %q", userID, "operator-1")
	}
	if role != "admin" {
		t.Errorf("role = %q, want %q", role, "admin")
	}
}

func TestValidateJWTWrongSecret(t *testing.T) {
	token, err := GenerateJWT("operator-1", "admin", "test-secret", time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT returned error: %v", err)
	}

	if _, _, err := ValidateJWT(token, "wrong-secret"); err == nil {
		t.Fatal("ValidateJWT succeeded with wrong secret, want error")
	}
}

func TestValidateJWTExpired(t *testing.T) {
	token, err := GenerateJWT("operator-1", "admin", "test-secret", -time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT returned error: %v", err)
	}

	if _, _, err := ValidateJWT(token, "test-secret"); err == nil {
		t.Fatal("ValidateJWT succeeded with expired token, want error")
	}
}

func TestGenerateUUIDUnique(t *testing.T) {
	a := GenerateUUID()
	b := GenerateUUID()
	if a == b {
		t.Fatal("GenerateUUID returned the same value twice")
	}
}

func TestGenerateRequestIDPrefix(t *testing.T) {
	id := GenerateRequestID()
	if len(id) < len("req_") || id[:4] != "req_" {
		t.Errorf("GenerateRequestID() = %q, want req_ prefix", id)
	}
}
