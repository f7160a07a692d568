package auth

import (
	stderrors "errors"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// DefaultTokenExpiry is used when no expiry is configured.
const DefaultTokenExpiry = time.Hour

// Signer signs and verifies compact tokens. Parse errors keep jwt's
// expired, malformed and signature classes distinguishable with errors.Is.
type Signer interface {
	Sign(claims jwt.Claims) (string, error)
	Parse(token string, claims jwt.Claims) error
	// Lifetime returns the registered claims for a token issued now.
	Lifetime() jwt.RegisteredClaims
}

// JWTSigner signs HS256 tokens with a shared secret and a uniform expiry.
type JWTSigner struct {
	secret []byte
	expiry time.Duration
	now    func() time.Time
}

// NewJWTSigner creates a signer. A zero expiry falls back to DefaultTokenExpiry.
func NewJWTSigner(secret string, expiry time.Duration) *JWTSigner {
	if expiry == 0 {
		expiry = DefaultTokenExpiry
	}
	return &JWTSigner{
		secret: []byte(secret),
		expiry: expiry,
		now:    time.Now,
	}
}

// Lifetime stamps issue and expiry times.
func (s *JWTSigner) Lifetime() jwt.RegisteredClaims {
	now := s.now()
	return jwt.RegisteredClaims{
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(s.expiry)),
	}
}

// Sign serializes claims into a signed token.
func (s *JWTSigner) Sign(claims jwt.Claims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Parse verifies the token and decodes it into claims.
func (s *JWTSigner) Parse(tokenString string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, stderrors.New("unexpected signing method")
		}
		return s.secret, nil
	})
	if err != nil {
		return err
	}
	if !token.Valid {
		return stderrors.New("invalid token")
	}
	return nil
}
