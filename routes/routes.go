package routes

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/umt-lostfound/api-go/config"
	"github.com/umt-lostfound/api-go/controllers"
	"github.com/umt-lostfound/api-go/middleware"
	"github.com/umt-lostfound/api-go/services"
	"gorm.io/gorm"
)

func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	// Initialize controllers
	itemController := controllers.NewItemController(db, config.GetFlagPolicy())
	claimController := controllers.NewClaimController(db)
	notificationController := controllers.NewNotificationController(db)
	reportController := controllers.NewReportController(db)
	adminController := controllers.NewAdminController(db)

	roleLookup := services.NewRoleLookup(db)

	// Public routes
	public := r.Group("/api")
	{
		public.GET("/health", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"status": "healthy", "timestamp": time.Now().UTC()})
		})
		public.GET("/items", itemController.GetItems)
		public.GET("/items/:id", itemController.GetItem)
	}

	// Protected routes
	protected := r.Group("/api")
	protected.Use(middleware.AuthMiddleware())
	{
		protected.GET("/dashboard", itemController.GetDashboard)

		SetupItemRoutes(protected, itemController, reportController)
		SetupClaimRoutes(protected, claimController)
		SetupNotificationRoutes(protected, notificationController)
	}

	// Admin routes
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthMiddleware(), middleware.AdminMiddleware(roleLookup))
	{
		SetupAdminRoutes(admin, adminController)
	}
}
