// Package middleware contains the gin middleware used by the API: token
// verification, role gating and the central error-to-response mapping.
package middleware

import (
	"github.com/gin-gonic/gin"

	appauth "github.com/dkravchenko/schoolfood/internal/app/auth"
)

// identityKey is the gin context key carrying the verified caller identity.
const identityKey = "identity"

// IdentityFromContext returns the verified identity set by JWTAuth.
func IdentityFromContext(c *gin.Context) (appauth.Identity, bool) {
	value, exists := c.Get(identityKey)
	if !exists {
		return appauth.Identity{}, false
	}
	identity, ok := value.(appauth.Identity)
	return identity, ok
}
