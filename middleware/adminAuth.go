package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireAdmin runs after JWTAuthMiddleware and rejects non-admin callers.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthenticated"})
			return
		}
		if !actor.IsAdmin() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Unauthorized admin access"})
			return
		}
		c.Next()
	}
}
