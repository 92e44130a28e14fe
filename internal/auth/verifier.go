// Package auth verifies bearer credentials and extracts the subject
// identity embedded in them. Verification is stateless; a Verifier is
// safe for concurrent use.
package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrUnauthenticated covers every credential failure: missing header,
// malformed token, bad signature, expiry.
var ErrUnauthenticated = errors.New("authentication required")

const bearerPrefix = "Bearer "

type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// FromHeader extracts and verifies the token from an Authorization
// header value and returns the subject identifier.
func (v *Verifier) FromHeader(header string) (string, error) {
	if !strings.HasPrefix(header, bearerPrefix) {
		return "", ErrUnauthenticated
	}
	return v.Verify(strings.TrimPrefix(header, bearerPrefix))
}

// Verify checks the token signature and expiry and returns the subject
// claim. Any failure maps to ErrUnauthenticated.
func (v *Verifier) Verify(token string) (string, error) {
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return "", ErrUnauthenticated
	}

	subject, err := parsed.Claims.GetSubject()
	if err != nil || subject == "" {
		return "", ErrUnauthenticated
	}

	return subject, nil
}

// Sign mints a token for the given subject, valid for ttl. The login
// flow and the test suite both issue credentials through this.
func (v *Verifier) Sign(subject string, ttl time.Duration) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
	})

	signed, err := token.SignedString(v.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}

	return signed, nil
}
