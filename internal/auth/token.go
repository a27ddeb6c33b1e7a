package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrMissingToken is returned when no bearer token was presented
	ErrMissingToken = errors.New("missing token")
	// ErrInvalidSignature is returned when the MAC does not verify
	ErrInvalidSignature = errors.New("invalid token signature")
	// ErrTokenExpired is returned when the token is past its expiry
	ErrTokenExpired = errors.New("token has expired")
	// ErrMalformedToken is returned when the token or its claims cannot be parsed
	ErrMalformedToken = errors.New("malformed token")
)

// Identity is the authenticated caller resolved from a token
type Identity struct {
	UserID int64
	Email  string
}

// Claims represents the claims carried by an access token. Subject holds the email.
type Claims struct {
	UserID int64 `json:"user_id"`
	jwt.RegisteredClaims
}

// TokenIssuer mints and verifies HS256 access tokens with an immutable secret
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenIssuer creates a TokenIssuer. The secret is copied.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	return &TokenIssuer{
		secret: []byte(secret),
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock returns a copy of the issuer that reads time from now
func (t *TokenIssuer) WithClock(now func() time.Time) *TokenIssuer {
	c := *t
	c.now = now
	return &c
}

// TTL returns the access token lifetime
func (t *TokenIssuer) TTL() time.Duration {
	return t.ttl
}

// Issue generates a signed token for the given user
func (t *TokenIssuer) Issue(email string, userID int64) (string, error) {
	now := t.now()
	claims := Claims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(t.secret)
}

// Verify validates the token and returns the identity it carries
func (t *TokenIssuer) Verify(tokenString string) (Identity, error) {
	if tokenString == "" {
		return Identity{}, ErrMissingToken
	}

	claims := &Claims{}
	_, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return Identity{}, ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return Identity{}, ErrInvalidSignature
		default:
			return Identity{}, ErrMalformedToken
		}
	}

	if claims.UserID <= 0 || claims.Subject == "" {
		return Identity{}, ErrMalformedToken
	}

	return Identity{UserID: claims.UserID, Email: claims.Subject}, nil
}
