package auth

import (
	"strings"
	"testing"
	"time"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestGenerateAndValidateJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	token, err := GenerateJWT("Rae", false, time.Hour)
	if err != nil {
		t.Fatalf("GenerateJWT() error: %v", err)
	}

	claims, err := ValidateJWT(token)
	if err != nil {
		t.Fatalf("ValidateJWT() error: %v", err)
	}
	if claims.Nickname != "Rae" {
		t.Errorf("nickname = %q, want %q", claims.Nickname, "Rae")
	}
	if claims.Role != RoleExplorer || claims.IsAdmin() {
		t.Errorf("role = %q, want explorer without admin capability", claims.Role)
	}
}

func TestAdminRoleRoundTrip(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	token, err := GenerateJWT("Vex", true, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	claims, err := ValidateJWT(token)
	if err != nil {
		t.Fatal(err)
	}
	if !claims.IsAdmin() {
		t.Error("admin login should produce an admin session")
	}
}

func TestValidateJWTRejectsTampering(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)

	token, err := GenerateJWT("Rae", false, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("token has %d segments, want 3", len(parts))
	}

	// Flip a character in the middle of the signature segment. The
	// final character carries padding bits the base64url decoder
	// ignores, so it is not guaranteed to change the decoded bytes.
	sig := []byte(parts[2])
	mid := len(sig) / 2
	if sig[mid] == 'A' {
		sig[mid] = 'B'
	} else {
		sig[mid] = 'A'
	}

	tampered := parts[0] + "." + parts[1] + "." + string(sig)
	if _, err := ValidateJWT(tampered); err == nil {
		t.Fatal("tampered token should not validate")
	}
}

func TestValidateJWTRejectsForeignSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", testSecret)
	token, err := GenerateJWT("Rae", false, time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	t.Setenv("JWT_SECRET", strings.Repeat("z", 32))
	if _, err := ValidateJWT(token); err == nil {
		t.Fatal("token signed with a different secret should not validate")
	}
}

func TestShortSecretRejected(t *testing.T) {
	t.Setenv("JWT_SECRET", "too-short")

	if _, err := GenerateJWT("Rae", false, time.Hour); err == nil {
		t.Fatal("short secret should be rejected")
	}
}
