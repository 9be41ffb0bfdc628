package middleware

import (
	"net/http"
	"strings"

	"food-marketplace/pkg/auth"

	"github.com/gin-gonic/gin"
)

const identityKey = "identity"

type AuthMiddleware struct {
	jwtManager *auth.JWTManager
}

func NewAuthMiddleware(jwtManager *auth.JWTManager) *AuthMiddleware {
	return &AuthMiddleware{jwtManager: jwtManager}
}

func bearerToken(c *gin.Context) (string, bool) {
	tokenParts := strings.Split(c.GetHeader("Authorization"), " ")
	if len(tokenParts) != 2 || tokenParts[0] != "Bearer" || tokenParts[1] == "" {
		return "", false
	}
	return tokenParts[1], true
}

// OptionalAuth stores the caller identity when a valid access token is
// present. Anything else leaves the request anonymous.
func (a *AuthMiddleware) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := auth.Anonymous
		if token, ok := bearerToken(c); ok {
			if claims, err := a.jwtManager.ValidateAccessToken(token); err == nil {
				identity = auth.IdentityFromClaims(claims)
			}
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// AuthRequired middleware validates JWT token
func (a *AuthMiddleware) AuthRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := bearerToken(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			c.Abort()
			return
		}

		claims, err := a.jwtManager.ValidateAccessToken(token)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}

		identity := auth.IdentityFromClaims(claims)
		if !identity.IsAuthenticated() {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			c.Abort()
			return
		}
		c.Set(identityKey, identity)
		c.Next()
	}
}

// CurrentIdentity returns the identity set by OptionalAuth or AuthRequired,
// or the anonymous identity.
func CurrentIdentity(c *gin.Context) auth.Identity {
	if v, exists := c.Get(identityKey); exists {
		if identity, ok := v.(auth.Identity); ok {
			return identity
		}
	}
	return auth.Anonymous
}
