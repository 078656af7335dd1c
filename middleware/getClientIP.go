package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
)

// getClientIP keys the rate limiter. The gym app sits behind a proxy, so the
// first X-Forwarded-For hop wins, then X-Real-IP, then the socket peer.
func getClientIP(c *gin.Context) string {
	if xff := c.GetHeader("X-Forwarded-For"); xff != "" {
		if first := strings.TrimSpace(strings.Split(xff, ",")[0]); first != "" {
			return first
		}
	}
	if xri := strings.TrimSpace(c.GetHeader("X-Real-IP")); xri != "" {
		return xri
	}
	return c.RemoteIP()
}
