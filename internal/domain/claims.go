package domain

import (
	"context"
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the decoded payload of a verified access token.
//
// Permissions stays nil when the token has no permissions claim, and is a
// non-nil (possibly empty) slice when the claim is present.
type Claims struct {
	Permissions []string `json:"permissions,omitempty"`
	jwt.RegisteredClaims
}

// HasPermissionsClaim reports whether the token carried a permissions claim.
func (c Claims) HasPermissionsClaim() bool {
	return c.Permissions != nil
}

// HasPermission checks if the claims grant a specific permission
func (c Claims) HasPermission(permission string) bool {
	return slices.Contains(c.Permissions, permission)
}

// TokenValidator verifies a raw bearer token and decodes its claims.
type TokenValidator interface {
	Validate(ctx context.Context, rawToken string) (Claims, error)
}

// Authorizer runs the full extract, validate and permission check pipeline
// for one inbound Authorization header.
type Authorizer interface {
	Authorize(ctx context.Context, authorizationHeader, permission string) (Claims, error)
}
