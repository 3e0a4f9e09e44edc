package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/umt-lostfound/api-go/controllers"
)

func SetupItemRoutes(protected *gin.RouterGroup, itemController *controllers.ItemController, reportController *controllers.ReportController) {
	items := protected.Group("/items")
	{
		items.POST("", itemController.CreateItem)
		items.PUT("/:id", itemController.UpdateItem)
		items.POST("/:id/report", reportController.ReportItem)
	}
}
