package routes

import (
	"net/http"
	"time"

	"ecitizen/handlers"
	"ecitizen/middleware"
	"ecitizen/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterDialogueRoutes registers the voice/text conversation endpoints.
func RegisterDialogueRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api")
	{
		api.POST("/session", hb.CreateSession)
		api.POST("/voice/text", hb.HandleUtterance)

		session := api.Group("/session/:sessionID")
		session.Use(middleware.ValidateSessionID())
		session.GET("/status", hb.GetSessionStatus)
		session.DELETE("", hb.CancelSession)
		session.POST("/end", hb.EndSession)
	}
}

// RegisterServiceRoutes registers the public service catalog endpoints.
func RegisterServiceRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/services")
	{
		api.GET("", hb.ListServices)
		api.GET("/:serviceType", hb.GetService)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		status := utils.GetHealthStatus()
		if !status.Healthy() {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "dependencies": status})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "message": "Hi, I'm Wanjiku", "dependencies": status})
	})
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	// Setup global middleware (e.g., CORS) here.
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept-Language"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	RegisterDialogueRoutes(r, hb)
	RegisterServiceRoutes(r, hb)
	RegisterHealthRoute(r)
}
