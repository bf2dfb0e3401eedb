package dto

import (
	"github.com/kvistberg/work_order_app/internal/core/domain"
)

// CreateCustomerRequest defines the payload for creating a customer.
type CreateCustomerRequest struct {
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email" binding:"required,email"`
	PartnerID string `json:"partnerID" binding:"required"`
}

// UpdateCustomerRequest defines the data allowed for updating a customer.
type UpdateCustomerRequest struct {
	Name  *string `json:"name"`
	Email *string `json:"email" binding:"omitempty,email"`
}

// CustomerResponse is the public view of a customer.
type CustomerResponse struct {
	CustomerID string `json:"customerID"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	PartnerID  string `json:"partnerID"`
}

// ListCustomersResponse wraps the list of customers.
type ListCustomersResponse struct {
	Customers []CustomerResponse `json:"customers"`
}

// ToCustomerResponse converts a domain.Customer to its response DTO.
func ToCustomerResponse(c *domain.Customer) CustomerResponse {
	return CustomerResponse{
		CustomerID: c.CustomerID,
		Name:       c.Name,
		Email:      c.Email,
		PartnerID:  c.PartnerID,
	}
}

// ToListCustomersResponse converts a slice of customers to the list DTO.
func ToListCustomersResponse(customers []domain.Customer) ListCustomersResponse {
	out := make([]CustomerResponse, len(customers))
	for i := range customers {
		out[i] = ToCustomerResponse(&customers[i])
	}
	return ListCustomersResponse{Customers: out}
}
