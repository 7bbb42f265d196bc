package middleware

import (
	"net/http"
	"strings"

	"lovebug/utils"

	"github.com/gin-gonic/gin"
)

// ServiceAuthMiddleware authorizes calls from other backend components using
// the shared-secret service JWT. The subject claim names the caller and is
// placed in the context for logging.
func ServiceAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		caller, err := utils.ExtractCallerFromToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set("caller", caller)
		c.Next()
	}
}
