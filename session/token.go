package session

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Sentinel errors for token verification.
var (
	// ErrTokenExpired is returned for a token past its expiry.
	ErrTokenExpired = errors.New("session: token expired")

	// ErrTokenMalformed is returned for a token that fails to parse or
	// verify.
	ErrTokenMalformed = errors.New("session: token malformed")

	// ErrMissingClaims is returned for a valid token lacking the owner or
	// expiry claims.
	ErrMissingClaims = errors.New("session: token missing required claims")
)

// Session is the verified identity and lifetime carried by a session token.
type Session struct {
	// Owner is the user the session belongs to (sub claim).
	Owner string

	// IssuedAt is when the token was minted.
	IssuedAt time.Time

	// ExpiresAt is when the session ends.
	ExpiresAt time.Time
}

// RemainingLifetime returns how long the session is still valid as of now,
// zero when already expired. Callers use it to cap a component's lifetime
// at its session's.
func (s Session) RemainingLifetime(now time.Time) time.Duration {
	if !now.Before(s.ExpiresAt) {
		return 0
	}
	return s.ExpiresAt.Sub(now)
}

// VerifierConfig configures session token verification.
type VerifierConfig struct {
	// Secret is the HMAC signing key. Required.
	Secret []byte

	// Issuer is the expected iss claim. Empty skips the check.
	Issuer string
}

// Verifier validates HMAC-signed session tokens and extracts the owning
// user and session expiry.
type Verifier struct {
	config VerifierConfig
}

// NewVerifier creates a session token verifier.
func NewVerifier(config VerifierConfig) *Verifier {
	return &Verifier{config: config}
}

// Verify parses and validates the token, returning the session it carries.
func (v *Verifier) Verify(tokenString string) (Session, error) {
	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{"HS256", "HS384", "HS512"}),
		jwt.WithExpirationRequired(),
	}
	if v.config.Issuer != "" {
		opts = append(opts, jwt.WithIssuer(v.config.Issuer))
	}

	token, err := jwt.Parse(tokenString, func(*jwt.Token) (any, error) {
		return v.config.Secret, nil
	}, opts...)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return Session{}, ErrTokenExpired
		}
		return Session{}, ErrTokenMalformed
	}
	if !token.Valid {
		return Session{}, ErrTokenMalformed
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return Session{}, ErrTokenMalformed
	}

	sub, err := claims.GetSubject()
	if err != nil || sub == "" {
		return Session{}, ErrMissingClaims
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return Session{}, ErrMissingClaims
	}

	s := Session{
		Owner:     sub,
		ExpiresAt: exp.Time,
	}
	if iat, err := claims.GetIssuedAt(); err == nil && iat != nil {
		s.IssuedAt = iat.Time
	}
	return s, nil
}
