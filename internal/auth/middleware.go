// Package auth provides gin middleware gating admin endpoints.
package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"

	domerrors "github.com/flithub-ie/flithub-go/internal/errors"
	"github.com/flithub-ie/flithub-go/internal/identity"
	"github.com/gin-gonic/gin"
)

// CtxUserKey is the gin context key holding the authenticated user.
const CtxUserKey = "auth_user"

// RoleStore looks up role grants for a user.
type RoleStore interface {
	GetUserRoles(ctx context.Context, userID string) ([]string, error)
}

// FailureRecorder counts rejected requests. May be nil.
type FailureRecorder interface {
	RecordAuthFailure(reason string)
}

// Authenticate verifies the bearer token and stores the caller in the context.
func Authenticate(verifier identity.Verifier, rec FailureRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(strings.ToLower(header), "bearer ") {
			recordFailure(rec, "missing_token")
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
			return
		}

		token := strings.TrimSpace(header[len("Bearer "):])
		user, err := verifier.GetUser(c.Request.Context(), token)
		if err != nil {
			if errors.Is(err, domerrors.ErrUnauthorized) {
				recordFailure(rec, "invalid_token")
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authentication"})
				return
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify authentication"})
			return
		}

		c.Set(CtxUserKey, user)
		c.Next()
	}
}

// RequireAdmin rejects callers without an admin role grant.
// Must run after Authenticate.
func RequireAdmin(roles RoleStore, rec FailureRecorder) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := MustGetUser(c)
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization required"})
			return
		}

		granted, err := roles.GetUserRoles(c.Request.Context(), user.ID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to verify permissions"})
			return
		}

		for _, role := range granted {
			if role == "admin" {
				c.Next()
				return
			}
		}

		recordFailure(rec, "not_admin")
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
	}
}

// MustGetUser returns the authenticated user from the context, or nil.
func MustGetUser(c *gin.Context) *identity.User {
	v, ok := c.Get(CtxUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*identity.User)
	return user
}

func recordFailure(rec FailureRecorder, reason string) {
	if rec != nil {
		rec.RecordAuthFailure(reason)
	}
}
