package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/umt-lostfound/api-go/controllers"
)

func SetupAdminRoutes(admin *gin.RouterGroup, adminController *controllers.AdminController) {
	admin.GET("/stats", adminController.GetStats)
	admin.GET("/analytics", adminController.GetAnalytics)
	admin.GET("/items", adminController.GetItems)
	admin.GET("/flagged", adminController.GetFlagged)
	admin.GET("/claims", adminController.GetClaims)
	admin.GET("/disputes", adminController.GetDisputes)
	admin.GET("/reports", adminController.GetReports)
	admin.GET("/actions", adminController.GetActions)
	admin.GET("/users", adminController.GetUsers)

	admin.PUT("/users/:id/role", adminController.UpdateUserRole)
	admin.POST("/items/:id/moderate", adminController.ModerateItem)
	admin.PUT("/claims/:id", adminController.UpdateClaim)
	admin.POST("/disputes", adminController.OpenDispute)
	admin.PUT("/disputes/:id", adminController.UpdateDispute)
	admin.POST("/bulk-action", adminController.BulkAction)
}
