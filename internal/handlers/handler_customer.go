package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/kvistberg/work_order_app/internal/core/ports/services"
	"github.com/kvistberg/work_order_app/internal/dto"
	"github.com/kvistberg/work_order_app/internal/middleware"
)

// customerHandler handles HTTP requests related to customers.
type customerHandler struct {
	customerService portssvc.CustomerSvcFacade
	unitService     portssvc.UnitSvcFacade
}

func newCustomerHandler(cs portssvc.CustomerSvcFacade, us portssvc.UnitSvcFacade) *customerHandler {
	return &customerHandler{customerService: cs, unitService: us}
}

// registerCustomerRoutes registers routes related to customers.
func registerCustomerRoutes(rg *gin.RouterGroup, customerService portssvc.CustomerSvcFacade, unitService portssvc.UnitSvcFacade) {
	h := newCustomerHandler(customerService, unitService)

	customers := rg.Group("/customers")
	{
		customers.POST("", middleware.AdminOnly(), h.createCustomer)
		customers.GET("/:customerID", h.getCustomerByID)
		customers.PUT("/:customerID", h.updateCustomer)
		customers.DELETE("/:customerID", middleware.AdminOnly(), h.deleteCustomer)
		customers.GET("/:customerID/units", h.listCustomerUnits)
	}
}

// createCustomer godoc
// @Summary Create a new customer
// @Description Creates a customer under a partner the calling admin owns.
// @Tags customers
// @Accept json
// @Produce json
// @Param customer body dto.CreateCustomerRequest true "Customer details"
// @Success 201 {object} dto.CustomerResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Security BearerAuth
// @Router /customers [post]
func (h *customerHandler) createCustomer(c *gin.Context) {
	principal, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	customer, err := h.customerService.CreateCustomer(c.Request.Context(), principal.ID, req)
	if err != nil {
		respondServiceError(c, err, "Failed to create customer")
		return
	}
	c.JSON(http.StatusCreated, dto.ToCustomerResponse(customer))
}

// getCustomerByID godoc
// @Summary Get a customer
// @Description Retrieves one customer after an ownership check.
// @Tags customers
// @Produce json
// @Param customerID path string true "Customer ID"
// @Success 200 {object} dto.CustomerResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /customers/{customerID} [get]
func (h *customerHandler) getCustomerByID(c *gin.Context) {
	principal, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	customer, err := h.customerService.GetCustomerByID(c.Request.Context(), principal, c.Param("customerID"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve customer")
		return
	}
	c.JSON(http.StatusOK, dto.ToCustomerResponse(customer))
}

// updateCustomer godoc
// @Summary Update a customer
// @Description Updates customer details after an ownership check.
// @Tags customers
// @Accept json
// @Produce json
// @Param customerID path string true "Customer ID"
// @Param customer body dto.UpdateCustomerRequest true "Fields to update"
// @Success 200 {object} dto.CustomerResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /customers/{customerID} [put]
func (h *customerHandler) updateCustomer(c *gin.Context) {
	principal, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	customer, err := h.customerService.UpdateCustomer(c.Request.Context(), principal, c.Param("customerID"), req)
	if err != nil {
		respondServiceError(c, err, "Failed to update customer")
		return
	}
	c.JSON(http.StatusOK, dto.ToCustomerResponse(customer))
}

// deleteCustomer godoc
// @Summary Delete a customer
// @Description Deletes the customer, its units and every report under them.
// @Tags customers
// @Param customerID path string true "Customer ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /customers/{customerID} [delete]
func (h *customerHandler) deleteCustomer(c *gin.Context) {
	principal, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.customerService.DeleteCustomer(c.Request.Context(), principal, c.Param("customerID")); err != nil {
		respondServiceError(c, err, "Failed to delete customer")
		return
	}
	c.Status(http.StatusNoContent)
}

// listCustomerUnits godoc
// @Summary List a customer's units
// @Description Lists the units under one customer after an ownership check.
// @Tags customers
// @Produce json
// @Param customerID path string true "Customer ID"
// @Success 200 {object} dto.ListUnitsResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /customers/{customerID}/units [get]
func (h *customerHandler) listCustomerUnits(c *gin.Context) {
	principal, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	units, err := h.unitService.ListCustomerUnits(c.Request.Context(), principal, c.Param("customerID"))
	if err != nil {
		respondServiceError(c, err, "Failed to list units")
		return
	}
	c.JSON(http.StatusOK, dto.ToListUnitsResponse(units))
}
