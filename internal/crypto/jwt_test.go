package crypto

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

func TestIssuePairRoundTrip(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 15*time.Minute, 24*time.Hour)

	pair, err := issuer.IssuePair("acct-42")
	if err != nil {
		t.Fatalf("IssuePair() unexpected error: %v", err)
	}

	access, err := issuer.Validate(pair.AccessToken, AccessToken)
	if err != nil {
		t.Fatalf("Validate(access) unexpected error: %v", err)
	}
	if access.Subject != "acct-42" {
		t.Errorf("Subject = %q, want %q", access.Subject, "acct-42")
	}
	if access.ID == "" {
		t.Error("expected a token id")
	}

	refresh, err := issuer.Validate(pair.RefreshToken, RefreshToken)
	if err != nil {
		t.Fatalf("Validate(refresh) unexpected error: %v", err)
	}
	if refresh.ExpiresAt.Sub(access.ExpiresAt.Time) <= 0 {
		t.Error("refresh token should outlive the access token")
	}
}

func TestValidateRejectsWrongType(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour, time.Hour)
	pair, err := issuer.IssuePair("acct-1")
	if err != nil {
		t.Fatalf("IssuePair() unexpected error: %v", err)
	}

	if _, err := issuer.Validate(pair.RefreshToken, AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("refresh token accepted as access token, err = %v", err)
	}
	if _, err := issuer.Validate(pair.AccessToken, RefreshToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("access token accepted as refresh token, err = %v", err)
	}
}

func TestValidateRejectsGarbage(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", time.Hour, time.Hour)
	if _, err := issuer.Validate("not-a-valid-token", AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Validate() error = %v, want ErrInvalidToken", err)
	}
}

func TestValidateRejectsWrongSecret(t *testing.T) {
	token, err := NewTokenIssuer("correct-secret", time.Hour, time.Hour).Issue("acct-1", AccessToken)
	if err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}

	if _, err := NewTokenIssuer("wrong-secret", time.Hour, time.Hour).Validate(token, AccessToken); err == nil {
		t.Error("Validate() expected error for wrong secret")
	}
}

func TestValidateRejectsExpired(t *testing.T) {
	issuer := NewTokenIssuer("test-secret", 15*time.Minute, time.Hour)
	start := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	issuer.now = func() time.Time { return start }

	token, err := issuer.Issue("acct-1", AccessToken)
	if err != nil {
		t.Fatalf("Issue() unexpected error: %v", err)
	}
	if _, err := issuer.Validate(token, AccessToken); err != nil {
		t.Fatalf("fresh token rejected: %v", err)
	}

	issuer.now = func() time.Time { return start.Add(16 * time.Minute) }
	if _, err := issuer.Validate(token, AccessToken); !errors.Is(err, ErrInvalidToken) {
		t.Errorf("Validate() error = %v, want ErrInvalidToken after expiry", err)
	}
}

func TestValidateRejectsNoneAlgorithm(t *testing.T) {
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    tokenIssuer,
			Subject:   "acct-1",
			Audience:  jwt.ClaimStrings{tokenAudience},
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		Type: AccessToken,
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("signing with none: %v", err)
	}

	issuer := NewTokenIssuer("test-secret", time.Hour, time.Hour)
	if _, err := issuer.Validate(unsigned, AccessToken); err == nil {
		t.Error("Validate() accepted an unsigned token")
	}
}
