package auth

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"
)

func TestJWTRoundtrip(t *testing.T) {
	j := NewJWT("signing-secret")

	token, err := j.Generate(42, "trader@example.com")
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}
	if strings.Count(token, ".") != 2 {
		t.Fatalf("token %q is not three dot-separated segments", token)
	}

	claims, err := j.Validate(token)
	if err != nil {
		t.Fatalf("Validate() failed: %v", err)
	}
	if claims.UserID != 42 {
		t.Errorf("UserID = %d, want 42", claims.UserID)
	}
	if claims.Email != "trader@example.com" {
		t.Errorf("Email = %q, want trader@example.com", claims.Email)
	}
	if claims.Exp <= claims.Iat {
		t.Errorf("Exp %d not after Iat %d", claims.Exp, claims.Iat)
	}
}

func TestJWTRejectsTampering(t *testing.T) {
	j := NewJWT("signing-secret")
	token, _ := j.Generate(1, "trader@example.com")
	parts := strings.Split(token, ".")

	tests := []struct {
		name  string
		token string
	}{
		{"swapped signature", parts[0] + "." + parts[1] + ".bm90LWEtc2ln"},
		{"edited claims", parts[0] + "." + base64.RawURLEncoding.EncodeToString([]byte(`{"userId":2}`)) + "." + parts[2]},
		{"two segments", parts[0] + "." + parts[1]},
		{"empty token", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := j.Validate(tt.token); !errors.Is(err, ErrTokenInvalid) {
				t.Errorf("Validate() error = %v, want %v", err, ErrTokenInvalid)
			}
		})
	}
}

func TestJWTExpired(t *testing.T) {
	j := NewJWT("signing-secret")

	// Build an expired token signed with the real secret.
	payload, _ := json.Marshal(JWTClaims{
		UserID: 1,
		Email:  "trader@example.com",
		Iat:    time.Now().Add(-25 * time.Hour).Unix(),
		Exp:    time.Now().Add(-time.Hour).Unix(),
	})
	message := encodedHeader + "." + base64.RawURLEncoding.EncodeToString(payload)
	token := message + "." + j.sign(message)

	if _, err := j.Validate(token); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Validate() error = %v, want %v", err, ErrTokenExpired)
	}
}

func TestJWTSecretMismatch(t *testing.T) {
	issuer := NewJWT("secret-one")
	verifier := NewJWT("secret-two")

	token, err := issuer.Generate(7, "trader@example.com")
	if err != nil {
		t.Fatalf("Generate() failed: %v", err)
	}

	if _, err := verifier.Validate(token); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("Validate() error = %v, want %v", err, ErrTokenInvalid)
	}
}
