package auth

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/mateoguzman/skylens-backend/pkg/config"
)

func TestMintAndParseAccessToken(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "skylens",
		ExpirationMinutes: 30,
	}
	now := time.Now().UTC()
	identityID := uuid.New()

	token, err := MintAccessToken(cfg, now, identityID)
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	claims, err := ParseAccessToken(cfg, token)
	if err != nil {
		t.Fatalf("parse access token: %v", err)
	}

	if claims.IdentityID != identityID {
		t.Fatalf("expected identity_id %s, got %s", identityID, claims.IdentityID)
	}
	if claims.Subject != identityID.String() {
		t.Fatalf("expected subject %s, got %s", identityID, claims.Subject)
	}
	if claims.Issuer != cfg.Issuer {
		t.Fatalf("expected issuer %s, got %s", cfg.Issuer, claims.Issuer)
	}
	if claims.ID == "" {
		t.Fatalf("expected jti to be populated")
	}

	exp := now.Add(time.Duration(cfg.ExpirationMinutes) * time.Minute)
	diff := claims.ExpiresAt.Sub(exp)
	if diff < 0 {
		diff = -diff
	}
	if diff >= time.Second {
		t.Fatalf("expected exp roughly %v, got %v (diff %v)", exp.UTC(), claims.ExpiresAt.UTC(), diff)
	}
}

func TestParseAccessTokenInvalidSignature(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "skylens",
		ExpirationMinutes: 10,
	}

	token, err := MintAccessToken(cfg, time.Now(), uuid.New())
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	if _, err := ParseAccessToken(cfg, token+"x"); err == nil {
		t.Fatal("expected invalid signature error")
	}
}

func TestParseAccessTokenExpired(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "skylens",
		ExpirationMinutes: 15,
	}

	token, err := MintAccessToken(cfg, time.Now().Add(-time.Hour), uuid.New())
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	_, err = ParseAccessToken(cfg, token)
	if err == nil {
		t.Fatal("expected expiration error")
	}
	if !strings.Contains(err.Error(), "expired") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestParseAccessTokenWrongSecret(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "skylens",
		ExpirationMinutes: 15,
	}
	other := cfg
	other.Secret = "different"

	token, err := MintAccessToken(cfg, time.Now(), uuid.New())
	if err != nil {
		t.Fatalf("mint access token: %v", err)
	}

	if _, err := ParseAccessToken(other, token); err == nil {
		t.Fatal("expected signature mismatch error")
	}
}

func TestMintAccessTokenRequiresIdentity(t *testing.T) {
	cfg := config.JWTConfig{
		Secret:            "secret",
		Issuer:            "skylens",
		ExpirationMinutes: 5,
	}

	if _, err := MintAccessToken(cfg, time.Now(), uuid.Nil); err == nil {
		t.Fatal("expected missing identity error")
	}
}
