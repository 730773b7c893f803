package exports

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// tokenAudience scopes public access tokens to the exported-asset surface.
const tokenAudience = "exported_asset"

// ErrNoSigner reports that public access is disabled (no secret configured).
var ErrNoSigner = errors.New("exports: public access tokens not configured")

// ErrBadToken reports an invalid, expired, or mis-scoped access token.
var ErrBadToken = errors.New("exports: invalid access token")

// TokenSigner mints and verifies public access tokens for assets. Issuing
// real user authentication stays outside this service; the signer only binds
// a token to one asset id for a bounded lifetime.
type TokenSigner struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenSigner builds a signer. Returns nil when secret is empty, which
// disables public URLs.
func NewTokenSigner(secret string, ttl time.Duration) *TokenSigner {
	if secret == "" {
		return nil
	}
	if ttl <= 0 {
		ttl = 365 * 24 * time.Hour
	}
	return &TokenSigner{secret: []byte(secret), ttl: ttl}
}

// Sign mints a token granting access to one asset.
func (s *TokenSigner) Sign(assetID uuid.UUID) (string, error) {
	if s == nil {
		return "", ErrNoSigner
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"id":  assetID.String(),
		"aud": tokenAudience,
		"iat": now.Unix(),
		"exp": now.Add(s.ttl).Unix(),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
}

// Verify checks the token and returns the asset id it grants access to.
func (s *TokenSigner) Verify(token string) (uuid.UUID, error) {
	if s == nil {
		return uuid.Nil, ErrNoSigner
	}
	parsed, err := jwt.Parse(token,
		func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
			}
			return s.secret, nil
		},
		jwt.WithAudience(tokenAudience),
		jwt.WithExpirationRequired(),
	)
	if err != nil || !parsed.Valid {
		return uuid.Nil, fmt.Errorf("%w: %v", ErrBadToken, err)
	}
	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return uuid.Nil, ErrBadToken
	}
	raw, _ := claims["id"].(string)
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: bad asset id", ErrBadToken)
	}
	return id, nil
}
