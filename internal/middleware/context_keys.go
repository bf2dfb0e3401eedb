package middleware

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/kvistberg/work_order_app/internal/core/domain"
)

// principalKey is the key used to store the authenticated principal in the
// request context.
const principalKey = contextKey("principal")

// GetPrincipalFromContext retrieves the authenticated principal from the Gin
// context. It returns the principal and a boolean indicating if it was found.
func GetPrincipalFromContext(c *gin.Context) (domain.Principal, bool) {
	return PrincipalFromCtx(c.Request.Context())
}

// PrincipalFromCtx retrieves the authenticated principal from a standard context.
func PrincipalFromCtx(ctx context.Context) (domain.Principal, bool) {
	p, ok := ctx.Value(principalKey).(domain.Principal)
	return p, ok
}
