package auth

import (
	"testing"
	"time"
)

func TestMintVerifyRoundTrip(t *testing.T) {
	token, err := Mint("secret", "cli", RoleOwner, time.Hour)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}

	claims, err := Verify("secret", token)
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if claims.Role != RoleOwner {
		t.Fatalf("role = %q, want owner", claims.Role)
	}
	if claims.Subject != "cli" {
		t.Fatalf("subject = %q", claims.Subject)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	token, err := Mint("secret", "cli", RoleOwner, time.Hour)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if _, err := Verify("other", token); err == nil {
		t.Fatal("token verified with wrong secret")
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	token, err := Mint("secret", "cli", RoleOwner, -time.Minute)
	if err != nil {
		t.Fatalf("Mint: %v", err)
	}
	if _, err := Verify("secret", token); err == nil {
		t.Fatal("expired token verified")
	}
}

func TestVerifyRejectsGarbage(t *testing.T) {
	if _, err := Verify("secret", "not.a.token"); err == nil {
		t.Fatal("garbage verified")
	}
}
