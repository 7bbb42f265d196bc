package routes

import (
	"net/http"
	"time"

	"lovebug/handlers"
	"lovebug/middleware"
	"lovebug/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterNotificationRoutes registers the push dispatch endpoint.
func RegisterNotificationRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/notifications")
	{
		api.Use(middleware.ServiceAuthMiddleware())
		api.POST("/send", hb.SendPushNotificationHandler)
	}
}

// RegisterPushProfileRoutes registers device-token and preference endpoints.
func RegisterPushProfileRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/profiles")
	{
		api.Use(middleware.ServiceAuthMiddleware())
		api.PUT("/:id/push-token", hb.UpdatePushTokenHandler)
		api.PUT("/:id/notification-prefs", hb.UpdateNotificationPrefsHandler)
		api.GET("/:id/push-profile", hb.GetPushProfileHandler)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "health": utils.GetHealthStatus()})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterNotificationRoutes(r, hb)
	RegisterPushProfileRoutes(r, hb)
	RegisterHealthRoute(r)
}
