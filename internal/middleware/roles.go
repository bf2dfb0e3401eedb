package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/kvistberg/work_order_app/internal/core/domain"
)

// AdminOnly rejects requests whose principal is not an admin. Must run after
// AuthMiddleware.
func AdminOnly() gin.HandlerFunc {
	return requireRole(domain.RoleAdmin, "This route is restricted to admin users")
}

// PartnerOnly rejects requests whose principal is not a partner. Must run
// after AuthMiddleware.
func PartnerOnly() gin.HandlerFunc {
	return requireRole(domain.RolePartner, "This route is restricted to partner users")
}

func requireRole(role domain.Role, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := GetPrincipalFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		if principal.Role != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": message})
			return
		}
		c.Next()
	}
}
