package service

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/sample-intranet/identity-api/internal/core/domain"
)

// Reason codes attached to token validation failures. They are recorded in
// logs and metrics only; clients always receive a generic unauthorized
// response.
const (
	TokenReasonBadSignature = "bad_signature"
	TokenReasonMalformed    = "malformed"
	TokenReasonExpired      = "expired"
)

// TokenError is a validation failure with an observability reason code.
// It matches domain.ErrInvalidToken under errors.Is.
type TokenError struct {
	Reason string
}

func (e *TokenError) Error() string { return "invalid token: " + e.Reason }

func (e *TokenError) Is(target error) bool { return target == domain.ErrInvalidToken }

// Claims is the verified payload of a bearer token.
type Claims struct {
	UserID    string
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type tokenClaims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenService mints and validates HS256 bearer tokens. The signing secret
// and TTL are fixed at construction and never mutated, so the service is
// safe for concurrent use.
type TokenService struct {
	secret []byte
	ttl    time.Duration
}

const defaultTokenTTL = time.Hour

// NewTokenService builds a TokenService. A non-positive ttl falls back to
// one hour.
func NewTokenService(secret string, ttl time.Duration) *TokenService {
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	return &TokenService{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the given subject and returns it together with
// its lifetime in seconds.
func (s *TokenService) Issue(userID, email string) (string, int64, error) {
	now := time.Now().UTC()
	claims := tokenClaims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", 0, err
	}
	return signed, int64(s.ttl.Seconds()), nil
}

// Validate verifies signature and expiry. Failures come back as *TokenError
// with a reason code; callers must not forward the reason to the client.
func (s *TokenService) Validate(token string) (*Claims, error) {
	parsed, err := jwt.ParseWithClaims(token, &tokenClaims{},
		func(t *jwt.Token) (any, error) {
			if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
				return nil, jwt.ErrTokenSignatureInvalid
			}
			return s.secret, nil
		},
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, &TokenError{Reason: tokenFailureReason(err)}
	}

	claims, ok := parsed.Claims.(*tokenClaims)
	if !ok || claims.Subject == "" {
		return nil, &TokenError{Reason: TokenReasonMalformed}
	}

	out := &Claims{
		UserID:    claims.Subject,
		Email:     claims.Email,
		ExpiresAt: claims.ExpiresAt.Time,
	}
	if claims.IssuedAt != nil {
		out.IssuedAt = claims.IssuedAt.Time
	}
	return out, nil
}

func tokenFailureReason(err error) string {
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return TokenReasonExpired
	case errors.Is(err, jwt.ErrTokenSignatureInvalid):
		return TokenReasonBadSignature
	default:
		return TokenReasonMalformed
	}
}
