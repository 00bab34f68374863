// Package identity resolves bearer tokens to users.
//
// Auth flows themselves (sign-up, magic links, password reset) live in the
// external identity provider; this package only answers "who is calling".
// Two verifiers are provided: a local one that checks the provider's HS256
// token signature, and a remote one that asks the provider's userinfo
// endpoint.
package identity

import (
	"context"

	domerrors "github.com/flithub-ie/flithub-go/internal/errors"
)

// User is the resolved caller identity.
type User struct {
	ID    string
	Email string
}

// Verifier resolves a bearer token to a user.
// Implementations return errors.ErrUnauthorized for missing or invalid tokens.
type Verifier interface {
	GetUser(ctx context.Context, token string) (*User, error)
}

// ErrUnauthorized is re-exported for callers that only import this package.
var ErrUnauthorized = domerrors.ErrUnauthorized
