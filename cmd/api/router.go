package api

import (
	"net/http"

	"sansynapse-backend/internal/push/delivery"

	"github.com/gin-gonic/gin"
)

func SetupRoutes(r *gin.Engine, pushHandler *delivery.PushHandler) {
	api := r.Group("/api")
	{
		// Health check (no auth required)
		api.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "ok"})
		})

		// Notification dispatch routes
		notifications := api.Group("/notifications")
		{
			notifications.POST("/dispatch", pushHandler.Dispatch)
		}
	}
}
