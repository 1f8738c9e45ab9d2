package session

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var testSecret = []byte("0123456789abcdef0123456789abcdef")

func mintToken(t *testing.T, claims jwt.MapClaims, secret []byte) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		t.Fatalf("SignedString() error = %v", err)
	}
	return signed
}

func TestVerifier_Verify(t *testing.T) {
	v := NewVerifier(VerifierConfig{Secret: testSecret, Issuer: "warden"})

	now := time.Now()
	tok := mintToken(t, jwt.MapClaims{
		"iss": "warden",
		"sub": "user-123",
		"iat": now.Unix(),
		"exp": now.Add(time.Hour).Unix(),
	}, testSecret)

	sess, err := v.Verify(tok)
	if err != nil {
		t.Fatalf("Verify() error = %v", err)
	}
	if sess.Owner != "user-123" {
		t.Errorf("Owner = %q, want user-123", sess.Owner)
	}
	if sess.ExpiresAt.Unix() != now.Add(time.Hour).Unix() {
		t.Errorf("ExpiresAt = %v, want ~1h from now", sess.ExpiresAt)
	}
	if sess.IssuedAt.IsZero() {
		t.Error("IssuedAt is zero, want set")
	}
}

func TestVerifier_ExpiredToken(t *testing.T) {
	v := NewVerifier(VerifierConfig{Secret: testSecret})

	tok := mintToken(t, jwt.MapClaims{
		"sub": "user-123",
		"exp": time.Now().Add(-time.Minute).Unix(),
	}, testSecret)

	if _, err := v.Verify(tok); !errors.Is(err, ErrTokenExpired) {
		t.Errorf("Verify() error = %v, want ErrTokenExpired", err)
	}
}

func TestVerifier_Malformed(t *testing.T) {
	v := NewVerifier(VerifierConfig{Secret: testSecret})

	tests := []struct {
		name string
		tok  string
	}{
		{"garbage", "not-a-token"},
		{"empty", ""},
		{"wrong key", mintToken(t, jwt.MapClaims{
			"sub": "user-123",
			"exp": time.Now().Add(time.Hour).Unix(),
		}, []byte("a-different-signing-key-entirely"))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := v.Verify(tt.tok); !errors.Is(err, ErrTokenMalformed) {
				t.Errorf("Verify() error = %v, want ErrTokenMalformed", err)
			}
		})
	}
}

func TestVerifier_WrongIssuer(t *testing.T) {
	v := NewVerifier(VerifierConfig{Secret: testSecret, Issuer: "warden"})

	tok := mintToken(t, jwt.MapClaims{
		"iss": "someone-else",
		"sub": "user-123",
		"exp": time.Now().Add(time.Hour).Unix(),
	}, testSecret)

	if _, err := v.Verify(tok); !errors.Is(err, ErrTokenMalformed) {
		t.Errorf("Verify() error = %v, want ErrTokenMalformed", err)
	}
}

func TestVerifier_MissingSubject(t *testing.T) {
	v := NewVerifier(VerifierConfig{Secret: testSecret})

	tok := mintToken(t, jwt.MapClaims{
		"exp": time.Now().Add(time.Hour).Unix(),
	}, testSecret)

	if _, err := v.Verify(tok); !errors.Is(err, ErrMissingClaims) {
		t.Errorf("Verify() error = %v, want ErrMissingClaims", err)
	}
}

func TestVerifier_MissingExpiry(t *testing.T) {
	v := NewVerifier(VerifierConfig{Secret: testSecret})

	tok := mintToken(t, jwt.MapClaims{"sub": "user-123"}, testSecret)

	// Expiry is required at parse time, so this reads as malformed.
	if _, err := v.Verify(tok); err == nil {
		t.Error("Verify() error = nil, want rejection for missing exp")
	}
}

func TestSession_RemainingLifetime(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	s := Session{Owner: "user-123", ExpiresAt: now.Add(10 * time.Minute)}

	if got := s.RemainingLifetime(now); got != 10*time.Minute {
		t.Errorf("RemainingLifetime() = %v, want 10m", got)
	}
	if got := s.RemainingLifetime(now.Add(10 * time.Minute)); got != 0 {
		t.Errorf("RemainingLifetime() at expiry = %v, want 0", got)
	}
	if got := s.RemainingLifetime(now.Add(time.Hour)); got != 0 {
		t.Errorf("RemainingLifetime() past expiry = %v, want 0", got)
	}
}
