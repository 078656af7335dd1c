package routes

import (
	"time"

	"gymbook/handlers"
	"gymbook/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterMemberRoutes registers the endpoints members use from the app.
func RegisterMemberRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.Use(middleware.JWTAuthMiddleware())
		api.GET("/slots", hb.ListSlotsHandler)
		api.POST("/bookings", hb.BookSlotHandler)
		api.DELETE("/bookings/:id", hb.CancelBookingHandler)
		api.GET("/bookings/me", hb.MyBookingsHandler)
		api.GET("/subscriptions/me", hb.MySubscriptionHandler)
	}
}

// RegisterAdminRoutes sets up endpoints for gym staff.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.JWTAuthMiddleware(), middleware.RequireAdmin())
		adminGroup.GET("/slots", hb.AdminListSlotsHandler)
		adminGroup.PUT("/slots/:id/lock", hb.SetSlotLockHandler)
		adminGroup.POST("/bookings", hb.AdminBookHandler)
		adminGroup.DELETE("/bookings/:id", hb.AdminCancelBookingHandler)
		adminGroup.POST("/bookings/:id/checkin", hb.AdminCheckInHandler)
		adminGroup.POST("/subscriptions", hb.AssignSubscriptionHandler)
	}
}

// RegisterOpsRoutes registers health and metrics endpoints.
func RegisterOpsRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.HealthHandler)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterMemberRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
	RegisterOpsRoutes(r, hb)
}
