package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"userhub/web/service"
)

// Context keys populated by TokenAuth.
const (
	CtxClaims = "claims"
	CtxToken  = "token"
	CtxRole   = "role"
)

// TokenAuth gates a route behind a bearer token: 401 without a token, 403
// when the token is revoked or fails validation. On success the raw token
// and its claims are attached to the request context.
func TokenAuth(auth *service.AuthService, revoked *service.RevocationService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Unauthorized"})
			return
		}

		if revoked.IsRevoked(token) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
			return
		}

		claims, err := auth.ParseToken(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Forbidden"})
			return
		}

		c.Set(CtxClaims, claims)
		c.Set(CtxToken, token)
		c.Set(CtxRole, claims.Role)
		c.Next()
	}
}

// GetClaims returns the claims TokenAuth stored on the context.
func GetClaims(c *gin.Context) (*service.Claims, bool) {
	value, exists := c.Get(CtxClaims)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*service.Claims)
	return claims, ok
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if !strings.HasPrefix(header, prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}
