// Package token issues and verifies the signed, time-limited credentials used for
// magic links and browser sessions.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/duccv/webconf-gate/internal/constant"
	"github.com/duccv/webconf-gate/internal/model"
	"github.com/duccv/webconf-gate/internal/validation"
)

// Issuer signs and verifies HS256 tokens with a single secret.
// Verification has no side effects and nothing can revoke a token before it expires.
type Issuer struct {
	secret []byte
	now    func() time.Time
}

type Option func(*Issuer)

// WithClock replaces time.Now, mostly for tests.
func WithClock(now func() time.Time) Option {
	return func(i *Issuer) {
		i.now = now
	}
}

// iat and exp keep millisecond precision so a token lives exactly ttl after it was issued.
func init() {
	jwt.TimePrecision = time.Millisecond
}

func NewIssuer(secret []byte, opts ...Option) *Issuer {
	i := &Issuer{
		secret: secret,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Issue signs a token carrying the identity and purpose, valid for ttl.
func (i *Issuer) Issue(identity string, purpose model.TokenPurpose, ttl time.Duration) (string, error) {
	now := i.now().Truncate(time.Millisecond)

	claims := model.Claims{
		Email:   identity,
		Purpose: purpose,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	tokenString, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("token signing failed: %w", err)
	}
	return tokenString, nil
}

// Verify checks the signature, then the expiry, then the purpose, and returns the claims.
// Errors are constant.ErrInvalidSignature, constant.ErrTokenExpired or constant.ErrWrongPurpose.
func (i *Issuer) Verify(tokenString string, purpose model.TokenPurpose) (*model.Claims, error) {
	var claims model.Claims

	parsed, err := jwt.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return i.secret, nil
	},
		jwt.WithTimeFunc(i.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, fmt.Errorf("%w: %v", constant.ErrTokenExpired, err)
		}
		return nil, fmt.Errorf("%w: %v", constant.ErrInvalidSignature, err)
	}
	if !parsed.Valid {
		return nil, constant.ErrInvalidSignature
	}

	if err := validation.Struct(claims); err != nil {
		return nil, fmt.Errorf("%w: payload validation failed: %v", constant.ErrInvalidSignature, err)
	}
	if claims.Purpose != purpose {
		return nil, fmt.Errorf("%w: got %q, want %q", constant.ErrWrongPurpose, claims.Purpose, purpose)
	}

	return &claims, nil
}
