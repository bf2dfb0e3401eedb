package repositories

import (
	"context"

	"github.com/kvistberg/work_order_app/internal/core/domain"
)

// UnitReader defines read operations for unit data.
type UnitReader interface {
	// FindUnitByID retrieves a specific unit by ID.
	FindUnitByID(ctx context.Context, unitID string) (*domain.Unit, error)

	// ListUnitsByCustomerID retrieves all units under one customer.
	ListUnitsByCustomerID(ctx context.Context, customerID string) ([]domain.Unit, error)

	// ListUnitsByPartnerID retrieves all partner-level units of one partner.
	ListUnitsByPartnerID(ctx context.Context, partnerID string) ([]domain.Unit, error)

	// ListUnitsByCustomerIDs batch-retrieves units for the nested dashboard views.
	ListUnitsByCustomerIDs(ctx context.Context, customerIDs []string) ([]domain.Unit, error)

	// ListUnitsByPartnerIDs batch-retrieves partner-level units for the nested
	// dashboard views.
	ListUnitsByPartnerIDs(ctx context.Context, partnerIDs []string) ([]domain.Unit, error)
}

// UnitWriter defines write operations for unit data.
type UnitWriter interface {
	// SaveUnit persists a new unit.
	SaveUnit(ctx context.Context, unit domain.Unit) error

	// UpdateUnit updates a unit, writing both association columns in a single
	// statement so a reassignment can never be observed half-applied.
	UpdateUnit(ctx context.Context, unit domain.Unit) error
}

// UnitLifecycleManager defines destructive lifecycle operations.
type UnitLifecycleManager interface {
	// DeleteUnitCascade deletes the unit and all reports referencing it in one
	// transaction. A mid-cascade failure rolls back and surfaces as
	// apperrors.ErrPartialCascade.
	DeleteUnitCascade(ctx context.Context, unitID string) error
}

// UnitRepositoryFacade combines all unit repository interfaces.
type UnitRepositoryFacade interface {
	UnitReader
	UnitWriter
	UnitLifecycleManager
}
