package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"gymbook/config"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestRateLimitPerForwardedClient(t *testing.T) {
	gin.SetMode(gin.TestMode)
	config.AppConfig.MaxRequestsPerMin = 2
	t.Cleanup(func() { config.AppConfig = config.Config{} })

	r := gin.New()
	r.Use(RateLimitMiddleware())
	r.GET("/ping", func(c *gin.Context) { c.Status(http.StatusOK) })

	hit := func(xff string) int {
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set("X-Forwarded-For", xff)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	assert.Equal(t, http.StatusOK, hit("203.0.113.7, 10.0.0.1"))
	assert.Equal(t, http.StatusOK, hit("203.0.113.7"))
	assert.Equal(t, http.StatusTooManyRequests, hit("203.0.113.7, 10.0.0.2"))
	assert.Equal(t, http.StatusOK, hit("198.51.100.9"))
}
