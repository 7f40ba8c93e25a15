package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// ErrInvalidToken covers every verification failure: malformed input, wrong
// signature, wrong issuer, expired. Callers must not distinguish between them.
var ErrInvalidToken = errors.New("invalid token")

// TokenProvider issues and verifies HS256-signed bearer tokens.
type TokenProvider struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

func NewTokenProvider(secret, issuer string, ttl time.Duration) *TokenProvider {
	return &TokenProvider{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// Issue signs a token asserting the given identity as its subject.
func (p *TokenProvider) Issue(subject string) (string, error) {
	now := p.now()
	claims := jwt.RegisteredClaims{
		Issuer:    p.issuer,
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(p.ttl)),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString(p.secret)
}

// Verify returns the subject of a valid token, or ErrInvalidToken.
func (p *TokenProvider) Verify(token string) (string, error) {
	parsed, err := jwt.ParseWithClaims(token, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, errors.New("unexpected signing method")
		}
		return p.secret, nil
	}, jwt.WithIssuer(p.issuer), jwt.WithTimeFunc(func() time.Time { return p.now() }))
	if err != nil {
		return "", ErrInvalidToken
	}

	claims, ok := parsed.Claims.(*jwt.RegisteredClaims)
	if !ok || !parsed.Valid {
		return "", ErrInvalidToken
	}
	return claims.Subject, nil
}
