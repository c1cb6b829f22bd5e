// Package auth validates bearer tokens and resolves the owner every debt operation is scoped to.
package auth

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Claims are the JWT claims receivablesd accepts. OwnerID scopes every debt the
// caller can see; it falls back to the subject when the dedicated claim is absent.
type Claims struct {
	jwt.RegisteredClaims
	OwnerID string   `json:"owner_id,omitempty"`
	Roles   []string `json:"roles,omitempty"`
}

// Owner returns the owner identifier the caller acts for.
func (c Claims) Owner() string {
	if c.OwnerID != "" {
		return c.OwnerID
	}
	return c.Subject
}

// HasRole reports whether the claims include role.
func (c Claims) HasRole(role string) bool {
	return slices.Contains(c.Roles, role)
}

// Role constants.
const (
	RoleOwner  = "owner"  // manage own debts and record payments
	RoleViewer = "viewer" // read-only access to own debts
	RoleAdmin  = "admin"
)
