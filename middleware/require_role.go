package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/mixroom/mixroom-backend/models"
)

// RequireRole chỉ cho qua user đang có role tương ứng (vd "admin").
// Phải đứng sau AuthMiddleware.
func RequireRole(db *gorm.DB, roleName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetString("user_id")
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			c.Abort()
			return
		}

		var user models.User
		if err := db.Preload("Roles").First(&user, "id = ?", userID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "user not found"})
			c.Abort()
			return
		}

		if !user.HasRole(roleName) {
			c.JSON(http.StatusForbidden, gin.H{"error": "you do not have permission to access this resource"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireUserTypes chỉ cho qua các loại tài khoản được liệt kê.
func RequireUserTypes(allowed ...models.UserType) gin.HandlerFunc {
	return func(c *gin.Context) {
		userType := c.GetString("user_type")
		for _, t := range allowed {
			if userType == string(t) {
				c.Next()
				return
			}
		}
		c.JSON(http.StatusForbidden, gin.H{"error": "you do not have permission to access this resource"})
		c.Abort()
	}
}
