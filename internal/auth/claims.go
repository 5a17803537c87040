package auth

import (
	"slices"

	"github.com/golang-jwt/jwt/v5"
)

// Claims is the verified payload of an access token. Permissions is nil when the
// token carries no permissions claim at all, and empty when it carries an empty list.
type Claims struct {
	Permissions     []string `json:"permissions"`
	Scope           string   `json:"scope,omitempty"`
	AuthorizedParty string   `json:"azp,omitempty"`
	jwt.RegisteredClaims
}

func (c *Claims) HasPermissionsClaim() bool {
	return c != nil && c.Permissions != nil
}

func (c *Claims) HasPermission(permission string) bool {
	return c != nil && slices.Contains(c.Permissions, permission)
}
