package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/kvistberg/work_order_app/internal/core/ports/services"
	"github.com/kvistberg/work_order_app/internal/dto"
	"github.com/kvistberg/work_order_app/internal/middleware"
)

// unitHandler handles HTTP requests related to units.
type unitHandler struct {
	unitService portssvc.UnitSvcFacade
}

func newUnitHandler(us portssvc.UnitSvcFacade) *unitHandler {
	return &unitHandler{unitService: us}
}

// registerUnitRoutes registers routes related to units.
func registerUnitRoutes(rg *gin.RouterGroup, unitService portssvc.UnitSvcFacade) {
	h := newUnitHandler(unitService)

	units := rg.Group("/units")
	{
		units.POST("", middleware.AdminOnly(), h.createUnit)
		units.GET("/:unitID", h.getUnitByID)
		units.PUT("/:unitID", middleware.AdminOnly(), h.updateUnit)
		units.DELETE("/:unitID", middleware.AdminOnly(), h.deleteUnit)
	}
}

// createUnit godoc
// @Summary Create a new unit
// @Description Creates a unit under exactly one customer or one partner.
// @Tags units
// @Accept json
// @Produce json
// @Param unit body dto.CreateUnitRequest true "Unit details"
// @Success 201 {object} dto.UnitResponse
// @Failure 400 {object} ErrorResponse "Both or neither parent supplied"
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /units [post]
func (h *unitHandler) createUnit(c *gin.Context) {
	principal, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	unit, err := h.unitService.CreateUnit(c.Request.Context(), principal.ID, req)
	if err != nil {
		respondServiceError(c, err, "Failed to create unit")
		return
	}
	c.JSON(http.StatusCreated, dto.ToUnitResponse(unit))
}

// getUnitByID godoc
// @Summary Get a unit
// @Description Retrieves one unit with its reports after an ownership check.
// @Tags units
// @Produce json
// @Param unitID path string true "Unit ID"
// @Success 200 {object} dto.UnitDetailResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /units/{unitID} [get]
func (h *unitHandler) getUnitByID(c *gin.Context) {
	principal, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	unit, reports, err := h.unitService.GetUnitByID(c.Request.Context(), principal, c.Param("unitID"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve unit")
		return
	}
	c.JSON(http.StatusOK, dto.ToUnitDetailResponse(unit, reports))
}

// updateUnit godoc
// @Summary Update a unit
// @Description Renames or reassigns a unit. Reassignment atomically clears the other parent link.
// @Tags units
// @Accept json
// @Produce json
// @Param unitID path string true "Unit ID"
// @Param unit body dto.UpdateUnitRequest true "Fields to update"
// @Success 200 {object} dto.UnitResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Customer does not belong to the named partner"
// @Security BearerAuth
// @Router /units/{unitID} [put]
func (h *unitHandler) updateUnit(c *gin.Context) {
	principal, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdateUnitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	unit, err := h.unitService.UpdateUnit(c.Request.Context(), principal.ID, c.Param("unitID"), req)
	if err != nil {
		respondServiceError(c, err, "Failed to update unit")
		return
	}
	c.JSON(http.StatusOK, dto.ToUnitResponse(unit))
}

// deleteUnit godoc
// @Summary Delete a unit
// @Description Deletes the unit and every report attached to it.
// @Tags units
// @Param unitID path string true "Unit ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /units/{unitID} [delete]
func (h *unitHandler) deleteUnit(c *gin.Context) {
	principal, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.unitService.DeleteUnit(c.Request.Context(), principal.ID, c.Param("unitID")); err != nil {
		respondServiceError(c, err, "Failed to delete unit")
		return
	}
	c.Status(http.StatusNoContent)
}
