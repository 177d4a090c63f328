package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenKind discriminates the two token flavours sharing one codec.
type TokenKind string

const (
	// TokenKindAccess authorizes regular API calls. Short TTL.
	TokenKindAccess TokenKind = "access"
	// TokenKindRefresh is used solely to obtain a new token pair. Long TTL.
	TokenKindRefresh TokenKind = "refresh"
)

// Internal verification failures. The identity service collapses all of
// them to shared.ErrInvalidCredentials before anything leaves the core;
// they stay distinct here for logging and metrics.
var (
	ErrTokenMalformed = errors.New("token malformed")
	ErrTokenSignature = errors.New("token signature invalid")
	ErrTokenExpired   = errors.New("token expired")
	ErrTokenInvalid   = errors.New("token invalid")
)

// Claims is the payload signed into every token.
type Claims struct {
	jwt.RegisteredClaims
	Kind TokenKind `json:"type"`
}

// Codec signs and verifies HS256 tokens. It is deliberately agnostic about
// access-vs-refresh semantics; kind discrimination is the caller's job.
type Codec struct {
	secret []byte
	issuer string
	now    func() time.Time
}

// NewCodec constructs a Codec. now may be nil, in which case wall-clock time
// is used; tests inject a fixed clock to simulate expiry deterministically.
func NewCodec(secret []byte, issuer string, now func() time.Time) *Codec {
	if now == nil {
		now = time.Now
	}
	return &Codec{secret: secret, issuer: issuer, now: now}
}

// Issue signs a fresh token for subject. The jti claim makes every issued
// token unique even within the same second.
func (c *Codec) Issue(subject string, kind TokenKind, ttl time.Duration) (string, error) {
	now := c.now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    c.issuer,
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		Kind: kind,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return token, nil
}

// Verify checks signature and structure first, then expiry, and only then
// returns the claims. A tampered-but-expired token reports the signature
// failure, never the expiry.
func (c *Codec) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		return c.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(c.now),
		jwt.WithIssuer(c.issuer),
	)
	if err != nil {
		return nil, classifyTokenError(err)
	}
	if !token.Valid {
		return nil, ErrTokenInvalid
	}
	return claims, nil
}

func classifyTokenError(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return ErrTokenMalformed
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return ErrTokenSignature
	case errors.Is(err, jwt.ErrTokenExpired):
		return ErrTokenExpired
	default:
		return ErrTokenInvalid
	}
}
