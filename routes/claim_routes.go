package routes

import (
	"github.com/gin-gonic/gin"
	"github.com/umt-lostfound/api-go/controllers"
)

func SetupClaimRoutes(protected *gin.RouterGroup, claimController *controllers.ClaimController) {
	claims := protected.Group("/claims")
	{
		claims.POST("", claimController.CreateClaim)
		claims.GET("", claimController.GetMyClaims)
		claims.PUT("/:id", claimController.ResolveClaim)
	}
}
