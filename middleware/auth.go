package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"gymbook/config"
	"gymbook/models"
	"gymbook/utils"

	"github.com/gin-gonic/gin"
)

const actorKey = "actor"

// StaticAdminID is the actor id behind ADMIN_TOKEN requests.
const StaticAdminID = "admin"

// JWTAuthMiddleware authenticates the bearer token and stores the caller's
// models.Actor on the context. ADMIN_TOKEN, when set, is accepted as an
// admin credential for operators and scripts.
func JWTAuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		tokenString := strings.TrimPrefix(authHeader, "Bearer ")

		if static := config.AppConfig.AdminToken; static != "" &&
			subtle.ConstantTimeCompare([]byte(tokenString), []byte(static)) == 1 {
			c.Set(actorKey, models.Actor{ID: StaticAdminID, Role: models.RoleAdmin})
			c.Next()
			return
		}

		actor, err := utils.ActorFromToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}
		c.Set(actorKey, actor)
		c.Next()
	}
}

// ActorFrom returns the authenticated caller.
func ActorFrom(c *gin.Context) (models.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return models.Actor{}, false
	}
	actor, ok := v.(models.Actor)
	return actor, ok
}
