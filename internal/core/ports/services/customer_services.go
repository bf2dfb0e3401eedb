package services

import (
	"context"

	"github.com/kvistberg/work_order_app/internal/core/domain"
	"github.com/kvistberg/work_order_app/internal/dto"
)

// CustomerSvcFacade manages customers under partners.
type CustomerSvcFacade interface {
	// CreateCustomer creates a customer under a partner the admin owns.
	CreateCustomer(ctx context.Context, adminID string, req dto.CreateCustomerRequest) (*domain.Customer, error)

	// GetCustomerByID retrieves a customer after an ownership check.
	GetCustomerByID(ctx context.Context, principal domain.Principal, customerID string) (*domain.Customer, error)

	// ListPartnerCustomers lists the customers of one partner after an
	// ownership check on that partner.
	ListPartnerCustomers(ctx context.Context, principal domain.Principal, partnerID string) ([]domain.Customer, error)

	// UpdateCustomer updates customer details after an ownership check.
	UpdateCustomer(ctx context.Context, principal domain.Principal, customerID string, req dto.UpdateCustomerRequest) (*domain.Customer, error)

	// DeleteCustomer cascade-deletes the customer, its units and their reports.
	DeleteCustomer(ctx context.Context, principal domain.Principal, customerID string) error
}
