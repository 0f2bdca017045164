package app

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/form3tech-oss/jwt-go"
)

func TestShareServiceIssueToken(t *testing.T) {
	secret := "test-secret"
	svc := NewShareService(secret, "ohhell", time.Hour)

	tokenString, err := svc.IssueToken("user123", "game-1")
	if err != nil {
		t.Fatalf("issue token error: %v", err)
	}

	claims := parseShareClaims(t, tokenString, secret)
	if got := stringClaim(t, claims, "sub"); got != "user123" {
		t.Fatalf("sub = %s, want user123", got)
	}
	if got := stringClaim(t, claims, "gid"); got != "game-1" {
		t.Fatalf("gid = %s, want game-1", got)
	}
	if got := stringClaim(t, claims, "scope"); got != ShareScopeView {
		t.Fatalf("scope = %s, want %s", got, ShareScopeView)
	}
	if got := stringClaim(t, claims, "iss"); got != "ohhell" {
		t.Fatalf("iss = %s, want ohhell", got)
	}
}

func TestShareServiceVerify(t *testing.T) {
	svc := NewShareService("secret", "ohhell", time.Hour)
	token, err := svc.IssueToken("owner", "game-9")
	if err != nil {
		t.Fatalf("issue token error: %v", err)
	}

	grant, err := svc.Verify(token)
	if err != nil {
		t.Fatalf("verify error: %v", err)
	}
	if grant.OwnerID != "owner" || grant.GameID != "game-9" {
		t.Fatalf("grant = %+v", grant)
	}
	if grant.ExpiresAt.Before(time.Now()) {
		t.Fatalf("grant already expired: %v", grant.ExpiresAt)
	}
}

func TestShareServiceVerifyRejects(t *testing.T) {
	issuer := NewShareService("secret", "ohhell", time.Hour)
	good, err := issuer.IssueToken("owner", "g")
	if err != nil {
		t.Fatalf("issue token error: %v", err)
	}

	expired := NewShareService("secret", "ohhell", time.Minute)
	expired.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
	stale, err := expired.IssueToken("owner", "g")
	if err != nil {
		t.Fatalf("issue token error: %v", err)
	}

	foreign, err := NewShareService("secret", "someone-else", time.Hour).IssueToken("owner", "g")
	if err != nil {
		t.Fatalf("issue token error: %v", err)
	}

	tests := []struct {
		name  string
		svc   *ShareService
		token string
	}{
		{name: "wrong secret", svc: NewShareService("other", "ohhell", time.Hour), token: good},
		{name: "expired", svc: issuer, token: stale},
		{name: "wrong issuer", svc: issuer, token: foreign},
		{name: "garbage", svc: issuer, token: "not-a-token"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.svc.Verify(tt.token); !errors.Is(err, ErrInvalidShareToken) {
				t.Fatalf("err = %v, want ErrInvalidShareToken", err)
			}
		})
	}
}

func TestShareServiceRequiresConfig(t *testing.T) {
	if _, err := NewShareService("", "ohhell", time.Hour).IssueToken("user", "g"); err == nil {
		t.Fatal("expected error for missing secret")
	}
	if _, err := NewShareService("secret", "ohhell", time.Hour).IssueToken("", "g"); err == nil {
		t.Fatal("expected error for missing owner")
	}
}

func parseShareClaims(t *testing.T, tokenString, secret string) jwt.MapClaims {
	t.Helper()

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(secret), nil
	})
	if err != nil {
		t.Fatalf("parse token error: %v", err)
	}
	if !token.Valid {
		t.Fatal("token is invalid")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		t.Fatal("claims are not map claims")
	}
	return claims
}

func stringClaim(t *testing.T, claims jwt.MapClaims, name string) string {
	t.Helper()
	value, ok := claims[name]
	if !ok {
		t.Fatalf("missing %s claim", name)
	}
	str, ok := value.(string)
	if !ok {
		t.Fatalf("%s claim is not a string", name)
	}
	return str
}
