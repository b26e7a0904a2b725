package api

import (
	"github.com/gin-gonic/gin"

	"github.com/evencio/evencio/internal/handlers"
)

// Notification routes only require authentication: every dashboard user may
// read and acknowledge their own notifications.
func registerNotificationRoutes(api *gin.RouterGroup, handler *handlers.NotificationHandler) {
	notifications := api.Group("/notifications")
	{
		notifications.GET("", handler.List)
		notifications.GET("/unread", handler.UnreadCount)
		notifications.GET("/stream", handler.Stream)
		notifications.POST("/read_all", handler.MarkAllRead)
		notifications.POST("/:notificationId/read", handler.MarkRead)
		notifications.DELETE("/:notificationId", handler.Delete)
	}
}
