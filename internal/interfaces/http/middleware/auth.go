// internal/interfaces/http/middleware/auth.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/your-org/restaurant-backend/internal/config"
	"github.com/your-org/restaurant-backend/internal/domain/staff"
	"github.com/your-org/restaurant-backend/internal/pkg/auth"
)

// StaffAuth creates JWT authentication middleware for staff endpoints
func StaffAuth(cfg *config.Config) gin.HandlerFunc {
	jwtManager := auth.NewJWTManager(cfg)

	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authorization header required",
			})
			c.Abort()
			return
		}

		tokenString := auth.ExtractTokenFromHeader(authHeader)
		if tokenString == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid authorization header format",
			})
			c.Abort()
			return
		}

		claims, err := jwtManager.ValidateToken(tokenString)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Invalid or expired token",
			})
			c.Abort()
			return
		}

		// Store staff information in context
		c.Set("staff_id", claims.StaffID)
		c.Set("staff_email", claims.Email)
		c.Set("role_tier", claims.RoleTier)
		c.Set("store_id", claims.StoreID)
		c.Set("token_claims", claims)

		c.Next()
	}
}

// RequireTier ensures the authenticated staff member holds at least the
// given role tier. Must run after StaffAuth.
func RequireTier(min staff.RoleTier) gin.HandlerFunc {
	return func(c *gin.Context) {
		tier, exists := c.Get("role_tier")
		if !exists {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": "Authentication required",
			})
			c.Abort()
			return
		}

		if !tier.(staff.RoleTier).AtLeast(min) {
			c.JSON(http.StatusForbidden, gin.H{
				"error": "Insufficient role for this operation",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// GetStaffIDFromContext extracts the staff id from gin context
func GetStaffIDFromContext(c *gin.Context) (uint, bool) {
	staffID, exists := c.Get("staff_id")
	if !exists {
		return 0, false
	}
	return staffID.(uint), true
}

// GetRoleTierFromContext extracts the role tier from gin context
func GetRoleTierFromContext(c *gin.Context) (staff.RoleTier, bool) {
	tier, exists := c.Get("role_tier")
	if !exists {
		return 0, false
	}
	return tier.(staff.RoleTier), true
}

// GetStoreIDFromContext extracts the store id from gin context
func GetStoreIDFromContext(c *gin.Context) (uint, bool) {
	storeID, exists := c.Get("store_id")
	if !exists {
		return 0, false
	}
	return storeID.(uint), true
}
