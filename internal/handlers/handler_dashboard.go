package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/kvistberg/work_order_app/internal/core/ports/services"
	"github.com/kvistberg/work_order_app/internal/dto"
	"github.com/kvistberg/work_order_app/internal/middleware"
)

// dashboardHandler serves the nested partner/customer/unit/report trees.
type dashboardHandler struct {
	partnerService portssvc.PartnerSvcFacade
}

// registerDashboardRoutes registers the dashboard tree route.
func registerDashboardRoutes(rg *gin.RouterGroup, partnerService portssvc.PartnerSvcFacade) {
	h := &dashboardHandler{partnerService: partnerService}
	rg.GET("/dashboard", h.getDashboard)
}

// getDashboard godoc
// @Summary Get the dashboard tree
// @Description Admins get a tree per owned partner; a partner gets its own tree. Rows carry names and flags only.
// @Tags dashboard
// @Produce json
// @Success 200 {array} dto.NestedPartner
// @Failure 401 {object} ErrorResponse
// @Security BearerAuth
// @Router /dashboard [get]
func (h *dashboardHandler) getDashboard(c *gin.Context) {
	principal, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var (
		trees []dto.NestedPartner
		err   error
	)
	if principal.IsAdmin() {
		trees, err = h.partnerService.GetAdminNestedTree(c.Request.Context(), principal.ID)
	} else {
		trees, err = h.partnerService.GetPartnerNestedTree(c.Request.Context(), principal.ID)
	}
	if err != nil {
		respondServiceError(c, err, "Failed to build dashboard")
		return
	}
	c.JSON(http.StatusOK, trees)
}
