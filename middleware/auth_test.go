package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"gymbook/config"
	"gymbook/models"
	"gymbook/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(JWTAuthMiddleware())
	r.GET("/me", func(c *gin.Context) {
		actor, _ := ActorFrom(c)
		c.JSON(http.StatusOK, actor)
	})
	r.GET("/admin", RequireAdmin(), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	return r
}

func do(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthRoles(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	config.AppConfig.AdminToken = "ops-token"
	t.Cleanup(func() { config.AppConfig = config.Config{} })
	r := newAuthRouter()

	member, err := utils.GenerateToken("member-1", models.RoleClient, time.Hour)
	require.NoError(t, err)
	admin, err := utils.GenerateToken("coach", models.RoleAdmin, time.Hour)
	require.NoError(t, err)

	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, do(r, "/me", "garbage").Code)

	w := do(r, "/me", member)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"member-1"`)

	assert.Equal(t, http.StatusForbidden, do(r, "/admin", member).Code)
	assert.Equal(t, http.StatusNoContent, do(r, "/admin", admin).Code)
	assert.Equal(t, http.StatusNoContent, do(r, "/admin", "ops-token").Code)
}

func TestStaticAdminTokenDisabledWhenUnset(t *testing.T) {
	config.AppConfig.JWTSecret = "test-secret"
	t.Cleanup(func() { config.AppConfig = config.Config{} })

	assert.Equal(t, http.StatusUnauthorized, do(newAuthRouter(), "/admin", "").Code)
}
