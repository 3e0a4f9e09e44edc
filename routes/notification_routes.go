package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/umt-lostfound/api-go/controllers"
)

func SetupNotificationRoutes(protected *gin.RouterGroup, notificationController *controllers.NotificationController) {
	notifications := protected.Group("/notifications")
	{
		notifications.GET("", notificationController.GetNotifications)
		notifications.PUT("/:id/read", notificationController.MarkRead)
	}
}
