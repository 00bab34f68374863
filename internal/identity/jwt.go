package identity

import (
	"context"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// JWTVerifier verifies identity-provider access tokens locally using the
// project's shared HS256 secret. The subject claim carries the user ID.
type JWTVerifier struct {
	secret []byte
}

// NewJWTVerifier creates a verifier for HS256-signed tokens.
func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

type accessClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// GetUser validates the token signature and expiry and extracts the caller.
func (v *JWTVerifier) GetUser(_ context.Context, token string) (*User, error) {
	if token == "" {
		return nil, ErrUnauthorized
	}

	claims := &accessClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return v.secret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, ErrUnauthorized
	}
	if claims.Subject == "" {
		return nil, ErrUnauthorized
	}

	return &User{ID: claims.Subject, Email: claims.Email}, nil
}
