package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/umt-lostfound/api-go/services"
	"github.com/umt-lostfound/api-go/utils"
)

// AdminMiddleware gates the admin dashboard routes. The role is resolved
// per request through the role lookup, never from a cached profile field.
func AdminMiddleware(roles services.RoleLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := utils.GetUser(c)
		if user == nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			c.Abort()
			return
		}

		isAdmin, err := roles.IsAdmin(user.UserID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve user role"})
			c.Abort()
			return
		}
		if !isAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			c.Abort()
			return
		}

		c.Next()
	}
}
