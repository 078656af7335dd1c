package handlers

import (
	"net/http"

	"gymbook/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the last dependency check; 503 when any failed.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	if !status.Healthy() {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
