// Package auth issues and verifies the HS256 access tokens handed out by the
// auth service.
package auth

import (
	"time"

	"github.com/dmitrijs2005/authgate/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

// DefaultTTL is the access token lifetime used when none is configured.
const DefaultTTL = 60 * time.Minute

// tokenClaims is the on-wire claim set: the registered claims plus the
// user's email.
type tokenClaims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// Claims are the decoded fields of a verified token.
type Claims struct {
	SubjectID string
	Email     string
	ExpiresAt time.Time
}

type TokenService struct {
	secret []byte
	issuer string
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService returns a service signing with secret. An empty issuer
// disables the issuer check on verification.
func NewTokenService(secret []byte, issuer string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &TokenService{
		secret: secret,
		issuer: issuer,
		ttl:    ttl,
		now:    time.Now,
	}
}

// WithClock replaces the time source used for both issuing and verifying.
func (s *TokenService) WithClock(now func() time.Time) *TokenService {
	s.now = now
	return s
}

func (s *TokenService) TTL() time.Duration {
	return s.ttl
}

// Issue signs a token for the given subject.
func (s *TokenService) Issue(subjectID, email string) (string, error) {
	now := s.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, tokenClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subjectID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		Email: email,
	})

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", err
	}

	return tokenString, nil
}

// Verify checks signature, algorithm and expiry. Any failure is reported as
// common.ErrInvalidToken so callers cannot tell the causes apart.
func (s *TokenService) Verify(tokenString string) (Claims, error) {
	claims := &tokenClaims{}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(s.now),
	}
	if s.issuer != "" {
		opts = append(opts, jwt.WithIssuer(s.issuer))
	}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, opts...)
	if err != nil || !token.Valid {
		return Claims{}, common.ErrInvalidToken
	}

	if claims.Subject == "" {
		return Claims{}, common.ErrInvalidToken
	}

	return Claims{
		SubjectID: claims.Subject,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}, nil
}
