package jwt

import (
	"errors"
	"testing"
)

const secret = "test-secret"

func TestAccessTokenRoundTrip(t *testing.T) {
	token, err := GenerateAccessToken(42, "alice", "officer", secret, 15)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}

	claims, err := ValidateAccessToken(token, secret)
	if err != nil {
		t.Fatalf("ValidateAccessToken: %v", err)
	}
	if claims.UserID != 42 || claims.Username != "alice" || claims.Role != "officer" {
		t.Errorf("claims = %+v", claims)
	}
	if claims.Issuer != Issuer || claims.Subject != "42" {
		t.Errorf("issuer/subject = %q/%q", claims.Issuer, claims.Subject)
	}
}

func TestAccessTokenRejections(t *testing.T) {
	expired, err := GenerateAccessToken(1, "bob", "user", secret, -1)
	if err != nil {
		t.Fatalf("GenerateAccessToken: %v", err)
	}
	if _, err := ValidateAccessToken(expired, secret); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("expired token: err = %v, want ErrTokenExpired", err)
	}

	valid, _ := GenerateAccessToken(1, "bob", "user", secret, 5)
	if _, err := ValidateAccessToken(valid, "other-secret"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("wrong secret: err = %v, want ErrTokenInvalid", err)
	}
	if _, err := ValidateAccessToken("not-a-token", secret); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("garbage: err = %v, want ErrTokenInvalid", err)
	}
}

func TestRefreshTokenCarriesTokenID(t *testing.T) {
	token, err := GenerateRefreshToken(7, "tok-1", secret, 1)
	if err != nil {
		t.Fatalf("GenerateRefreshToken: %v", err)
	}
	claims, err := ValidateRefreshToken(token, secret)
	if err != nil {
		t.Fatalf("ValidateRefreshToken: %v", err)
	}
	if claims.UserID != 7 || claims.TokenID != "tok-1" {
		t.Errorf("claims = %+v", claims)
	}

	// an access token is not a refresh token for a different secret
	if _, err := ValidateRefreshToken(token, "nope"); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("err = %v, want ErrTokenInvalid", err)
	}
}

func TestTokenKindsAreNotInterchangeable(t *testing.T) {
	access, _ := GenerateAccessToken(3, "carol", "admin", secret, 5)
	if _, err := ValidateRefreshToken(access, secret); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("access as refresh: err = %v, want ErrTokenInvalid", err)
	}

	refresh, _ := GenerateRefreshToken(3, "tok-2", secret, 1)
	if _, err := ValidateAccessToken(refresh, secret); !errors.Is(err, ErrTokenInvalid) {
		t.Errorf("refresh as access: err = %v, want ErrTokenInvalid", err)
	}

	claims, err := ValidateRefreshToken(refresh, secret)
	if err != nil {
		t.Fatalf("ValidateRefreshToken: %v", err)
	}
	if claims.ID != "tok-2" {
		t.Errorf("jti = %q, want tok-2", claims.ID)
	}
}
