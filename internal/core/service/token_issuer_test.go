package service

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/shopcraft/shop-api/internal/core/domain"
)

func testUser() *domain.User {
	return &domain.User{
		Username: "alice",
		Email:    "alice@example.com",
		Roles:    []string{domain.RoleUser},
	}
}

func TestTokenIssuer_IssueClaims(t *testing.T) {
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewTokenIssuer("secret", 2*time.Hour)
	issuer.now = func() time.Time { return issued }

	token, err := issuer.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	}, jwt.WithTimeFunc(func() time.Time { return issued }))
	if err != nil || !parsed.Valid {
		t.Fatalf("token does not parse: %v", err)
	}

	if claims.Email != "alice@example.com" {
		t.Errorf("email claim: got %q", claims.Email)
	}
	if len(claims.Roles) != 1 || claims.Roles[0] != domain.RoleUser {
		t.Errorf("roles claim: got %v", claims.Roles)
	}
	if claims.ID == "" {
		t.Errorf("expected a jti claim")
	}
	if !claims.ExpiresAt.Time.Equal(issued.Add(2 * time.Hour)) {
		t.Errorf("exp: got %v, want issue time + 2h", claims.ExpiresAt.Time)
	}
}

func TestTokenIssuer_FreshJTIPerToken(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)

	seen := map[string]bool{}
	for i := 0; i < 3; i++ {
		token, err := issuer.Issue(testUser())
		if err != nil {
			t.Fatalf("issue: %v", err)
		}
		claims := &Claims{}
		if _, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
			return []byte("secret"), nil
		}); err != nil {
			t.Fatalf("parse: %v", err)
		}
		if seen[claims.ID] {
			t.Fatalf("jti %q reused", claims.ID)
		}
		seen[claims.ID] = true
	}
}

func TestTokenIssuer_ValidityWindow(t *testing.T) {
	issued := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	issuer := NewTokenIssuer("secret", 2*time.Hour)
	issuer.now = func() time.Time { return issued }

	token, err := issuer.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	cases := []struct {
		name    string
		now     time.Time
		expired bool
	}{
		{"at issue time", issued, false},
		{"mid lifetime", issued.Add(time.Hour), false},
		{"one second before expiry", issued.Add(2*time.Hour - time.Second), false},
		{"exactly at expiry", issued.Add(2 * time.Hour), true},
		{"after expiry", issued.Add(3 * time.Hour), true},
	}

	for _, tc := range cases {
		issuer.now = func() time.Time { return tc.now }
		principal, err := issuer.Verify(token)
		if tc.expired {
			if !errors.Is(err, domain.ErrTokenExpired) {
				t.Errorf("%s: expected ErrTokenExpired, got %v", tc.name, err)
			}
			continue
		}
		if err != nil {
			t.Errorf("%s: unexpected error: %v", tc.name, err)
			continue
		}
		if principal.Email != "alice@example.com" {
			t.Errorf("%s: principal email %q", tc.name, principal.Email)
		}
	}
}

func TestTokenIssuer_TamperedPayload(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)

	token, err := issuer.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Rewrite the payload with an escalated role claim, keeping the original
	// signature. The result is well-formed but must fail verification.
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		t.Fatalf("expected a three-part token, got %d parts", len(parts))
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		t.Fatalf("decode payload: %v", err)
	}
	var body map[string]any
	if err := json.Unmarshal(payload, &body); err != nil {
		t.Fatalf("unmarshal payload: %v", err)
	}
	body["roles"] = []string{domain.RoleAdmin}
	forged, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	parts[1] = base64.RawURLEncoding.EncodeToString(forged)

	if _, err := issuer.Verify(strings.Join(parts, ".")); !errors.Is(err, domain.ErrTokenSignatureInvalid) {
		t.Fatalf("expected ErrTokenSignatureInvalid, got %v", err)
	}
}

func TestTokenIssuer_TamperedSignature(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)

	token, err := issuer.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	last := token[len(token)-1]
	flip := byte('A')
	if last == 'A' {
		flip = 'B'
	}
	tampered := token[:len(token)-1] + string(flip)

	if _, err := issuer.Verify(tampered); !errors.Is(err, domain.ErrTokenSignatureInvalid) {
		t.Fatalf("expected ErrTokenSignatureInvalid, got %v", err)
	}
}

func TestTokenIssuer_WrongKey(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)
	other := NewTokenIssuer("another-secret", time.Hour)

	token, err := other.Issue(testUser())
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := issuer.Verify(token); !errors.Is(err, domain.ErrTokenSignatureInvalid) {
		t.Fatalf("expected ErrTokenSignatureInvalid, got %v", err)
	}
}

func TestTokenIssuer_Malformed(t *testing.T) {
	issuer := NewTokenIssuer("secret", time.Hour)

	for _, token := range []string{"", "not-a-token", "a.b"} {
		if _, err := issuer.Verify(token); !errors.Is(err, domain.ErrTokenMalformed) {
			t.Errorf("token %q: expected ErrTokenMalformed, got %v", token, err)
		}
	}
}
