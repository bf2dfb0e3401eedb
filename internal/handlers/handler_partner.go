package handlers

import (
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"

	portssvc "github.com/kvistberg/work_order_app/internal/core/ports/services"
	"github.com/kvistberg/work_order_app/internal/dto"
	"github.com/kvistberg/work_order_app/internal/middleware"
)

// partnerHandler handles HTTP requests related to partners.
type partnerHandler struct {
	partnerService  portssvc.PartnerSvcFacade
	customerService portssvc.CustomerSvcFacade
	unitService     portssvc.UnitSvcFacade
}

func newPartnerHandler(ps portssvc.PartnerSvcFacade, cs portssvc.CustomerSvcFacade, us portssvc.UnitSvcFacade) *partnerHandler {
	return &partnerHandler{partnerService: ps, customerService: cs, unitService: us}
}

// registerPartnerRoutes registers routes related to partners.
func registerPartnerRoutes(rg *gin.RouterGroup, partnerService portssvc.PartnerSvcFacade, customerService portssvc.CustomerSvcFacade, unitService portssvc.UnitSvcFacade) {
	h := newPartnerHandler(partnerService, customerService, unitService)

	partners := rg.Group("/partners")
	{
		partners.POST("", middleware.AdminOnly(), h.createPartner)
		partners.GET("", middleware.AdminOnly(), h.listPartners)
		partners.GET("/:partnerID", h.getPartnerByID)
		partners.PUT("/:partnerID", h.updatePartner)
		partners.PUT("/:partnerID/password", middleware.AdminOnly(), h.updatePartnerPassword)
		partners.DELETE("/:partnerID", middleware.AdminOnly(), h.deletePartner)
		partners.GET("/:partnerID/customers", h.listPartnerCustomers)
		partners.GET("/:partnerID/units", h.listPartnerUnits)
	}
}

// listPartnerCustomers godoc
// @Summary List a partner's customers
// @Description Lists the customers of one partner after an ownership check.
// @Tags partners
// @Produce json
// @Param partnerID path string true "Partner ID"
// @Success 200 {object} dto.ListCustomersResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /partners/{partnerID}/customers [get]
func (h *partnerHandler) listPartnerCustomers(c *gin.Context) {
	principal, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	customers, err := h.customerService.ListPartnerCustomers(c.Request.Context(), principal, c.Param("partnerID"))
	if err != nil {
		respondServiceError(c, err, "Failed to list customers")
		return
	}
	c.JSON(http.StatusOK, dto.ToListCustomersResponse(customers))
}

// listPartnerUnits godoc
// @Summary List a partner's direct units
// @Description Lists units attached directly to the partner, without a customer in between.
// @Tags partners
// @Produce json
// @Param partnerID path string true "Partner ID"
// @Success 200 {object} dto.ListUnitsResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /partners/{partnerID}/units [get]
func (h *partnerHandler) listPartnerUnits(c *gin.Context) {
	principal, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	units, err := h.unitService.ListPartnerUnits(c.Request.Context(), principal, c.Param("partnerID"))
	if err != nil {
		respondServiceError(c, err, "Failed to list units")
		return
	}
	c.JSON(http.StatusOK, dto.ToListUnitsResponse(units))
}

// createPartner godoc
// @Summary Create a new partner
// @Description Creates a partner account owned by the calling admin.
// @Tags partners
// @Accept json
// @Produce json
// @Param partner body dto.CreatePartnerRequest true "Partner details"
// @Success 201 {object} dto.PartnerResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Email already registered"
// @Security BearerAuth
// @Router /partners [post]
func (h *partnerHandler) createPartner(c *gin.Context) {
	principal, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	partner, err := h.partnerService.CreatePartner(c.Request.Context(), principal.ID, req)
	if err != nil {
		respondServiceError(c, err, "Failed to create partner")
		return
	}
	c.JSON(http.StatusCreated, dto.ToPartnerResponse(partner))
}

// listPartners godoc
// @Summary List partners
// @Description Lists all partners owned by the calling admin.
// @Tags partners
// @Produce json
// @Success 200 {object} dto.ListPartnersResponse
// @Security BearerAuth
// @Router /partners [get]
func (h *partnerHandler) listPartners(c *gin.Context) {
	principal, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	partners, err := h.partnerService.ListPartners(c.Request.Context(), principal.ID)
	if err != nil {
		respondServiceError(c, err, "Failed to list partners")
		return
	}
	c.JSON(http.StatusOK, dto.ToListPartnersResponse(partners))
}

// getPartnerByID godoc
// @Summary Get a partner
// @Description Retrieves one partner. Admins see their own partners; a partner sees itself.
// @Tags partners
// @Produce json
// @Param partnerID path string true "Partner ID"
// @Success 200 {object} dto.PartnerResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /partners/{partnerID} [get]
func (h *partnerHandler) getPartnerByID(c *gin.Context) {
	principal, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	partner, err := h.partnerService.GetPartnerByID(c.Request.Context(), principal, c.Param("partnerID"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve partner")
		return
	}
	c.JSON(http.StatusOK, dto.ToPartnerResponse(partner))
}

// updatePartner godoc
// @Summary Update a partner
// @Description Updates partner details after an ownership check.
// @Tags partners
// @Accept json
// @Produce json
// @Param partnerID path string true "Partner ID"
// @Param partner body dto.UpdatePartnerRequest true "Fields to update"
// @Success 200 {object} dto.PartnerResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /partners/{partnerID} [put]
func (h *partnerHandler) updatePartner(c *gin.Context) {
	principal, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	partner, err := h.partnerService.UpdatePartner(c.Request.Context(), principal, c.Param("partnerID"), req)
	if err != nil {
		respondServiceError(c, err, "Failed to update partner")
		return
	}
	c.JSON(http.StatusOK, dto.ToPartnerResponse(partner))
}

// updatePartnerPassword godoc
// @Summary Replace a partner's password
// @Description Admin-driven password replacement for a partner account.
// @Tags partners
// @Accept json
// @Param partnerID path string true "Partner ID"
// @Param password body dto.UpdatePartnerPasswordRequest true "New password"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /partners/{partnerID}/password [put]
func (h *partnerHandler) updatePartnerPassword(c *gin.Context) {
	principal, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdatePartnerPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	if err := h.partnerService.UpdatePartnerPassword(c.Request.Context(), principal, c.Param("partnerID"), req.Password); err != nil {
		respondServiceError(c, err, "Failed to update password")
		return
	}
	c.Status(http.StatusNoContent)
}

// deletePartner godoc
// @Summary Delete a partner
// @Description Deletes the partner and every descendant customer, unit and report.
// @Tags partners
// @Param partnerID path string true "Partner ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /partners/{partnerID} [delete]
func (h *partnerHandler) deletePartner(c *gin.Context) {
	principal, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	partnerID := c.Param("partnerID")
	if err := h.partnerService.DeletePartner(c.Request.Context(), principal, partnerID); err != nil {
		respondServiceError(c, err, "Failed to delete partner")
		return
	}

	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	logger.Info("Partner deleted", slog.String("partner_id", partnerID))
	c.Status(http.StatusNoContent)
}
