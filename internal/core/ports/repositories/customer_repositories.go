package repositories

import (
	"context"

	"github.com/kvistberg/work_order_app/internal/core/domain"
)

// CustomerReader defines read operations for customer data.
type CustomerReader interface {
	// FindCustomerByID retrieves a specific customer by ID.
	FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error)

	// ListCustomersByPartnerID retrieves all customers of one partner.
	ListCustomersByPartnerID(ctx context.Context, partnerID string) ([]domain.Customer, error)

	// ListCustomersByPartnerIDs batch-retrieves customers for the nested
	// dashboard views.
	ListCustomersByPartnerIDs(ctx context.Context, partnerIDs []string) ([]domain.Customer, error)
}

// CustomerWriter defines write operations for customer data.
type CustomerWriter interface {
	// SaveCustomer persists a new customer.
	SaveCustomer(ctx context.Context, customer domain.Customer) error

	// UpdateCustomer updates an existing customer's details.
	UpdateCustomer(ctx context.Context, customer domain.Customer) error
}

// CustomerLifecycleManager defines destructive lifecycle operations.
type CustomerLifecycleManager interface {
	// DeleteCustomerCascade deletes the customer, its units and every report
	// referencing either, in one transaction. A mid-cascade failure rolls back
	// and surfaces as apperrors.ErrPartialCascade.
	DeleteCustomerCascade(ctx context.Context, customerID string) error
}

// CustomerRepositoryFacade combines all customer repository interfaces.
type CustomerRepositoryFacade interface {
	CustomerReader
	CustomerWriter
	CustomerLifecycleManager
}
