package middleware

import (
	"errors"
	"net/http"
	"strings"

	"aniverse/internal/microservices/http-api/policy"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

// TokenParser resolves a bearer token to the caller it names.
type TokenParser interface {
	ParseAccessToken(tokenString string) (*policy.Identity, error)
}

// Authenticate resolves the bearer token when one is sent. Requests without an
// Authorization header continue as anonymous; a malformed or invalid token is
// rejected with 401 so a client never silently loses its identity.
func Authenticate(parser TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.Next()
			return
		}

		// format: "Bearer <token>"
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Authorization header must be 'Bearer <token>'."})
			return
		}

		identity, err := parser.ParseAccessToken(parts[1])
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Given token not valid for any token type."})
			return
		}

		c.Set(identityKey, identity)
		c.Next()
	}
}

// IdentityFrom returns the caller set by Authenticate, or nil for anonymous requests.
func IdentityFrom(c *gin.Context) *policy.Identity {
	v, ok := c.Get(identityKey)
	if !ok {
		return nil
	}
	identity, _ := v.(*policy.Identity)
	return identity
}

// RequireAuth rejects anonymous requests.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if IdentityFrom(c) == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Authentication credentials were not provided."})
			return
		}
		c.Next()
	}
}

// RequirePolicy applies the class-level rule for action on kind. Instance-level
// ownership is checked by the services once the object is loaded.
func RequirePolicy(action policy.Action, kind policy.Kind) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := policy.Evaluate(IdentityFrom(c), action, policy.Class(kind))
		switch {
		case err == nil:
			c.Next()
		case errors.Is(err, policy.ErrUnauthenticated):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Authentication credentials were not provided."})
		default:
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "You do not have permission to perform this action."})
		}
	}
}
