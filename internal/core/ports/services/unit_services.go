package services

import (
	"context"

	"github.com/kvistberg/work_order_app/internal/core/domain"
	"github.com/kvistberg/work_order_app/internal/dto"
)

// UnitSvcFacade manages units and their single-parent association invariant.
type UnitSvcFacade interface {
	// CreateUnit creates a unit under exactly one customer or one partner.
	CreateUnit(ctx context.Context, adminID string, req dto.CreateUnitRequest) (*domain.Unit, error)

	// GetUnitByID retrieves a unit and its reports after an ownership check.
	GetUnitByID(ctx context.Context, principal domain.Principal, unitID string) (*domain.Unit, []domain.Report, error)

	// ListCustomerUnits lists the units of one customer after an ownership
	// check on that customer.
	ListCustomerUnits(ctx context.Context, principal domain.Principal, customerID string) ([]domain.Unit, error)

	// ListPartnerUnits lists the partner-level units of one partner.
	ListPartnerUnits(ctx context.Context, principal domain.Principal, partnerID string) ([]domain.Unit, error)

	// UpdateUnit renames or reassigns a unit. Reassignment atomically clears
	// the other association column.
	UpdateUnit(ctx context.Context, adminID string, unitID string, req dto.UpdateUnitRequest) (*domain.Unit, error)

	// DeleteUnit cascade-deletes the unit and its reports.
	DeleteUnit(ctx context.Context, adminID string, unitID string) error
}
