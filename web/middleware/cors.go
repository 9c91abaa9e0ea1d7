package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Cors allows the configured origin (all origins by default) and answers
// preflight requests. With a concrete origin, credentials are allowed too.
func Cors(origin string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, PATCH, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, If-None-Match")
		c.Header("Access-Control-Expose-Headers", "ETag")
		if origin != "*" {
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
