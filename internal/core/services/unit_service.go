package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/kvistberg/work_order_app/internal/apperrors"
	"github.com/kvistberg/work_order_app/internal/core/domain"
	portsrepo "github.com/kvistberg/work_order_app/internal/core/ports/repositories"
	portssvc "github.com/kvistberg/work_order_app/internal/core/ports/services"
	"github.com/kvistberg/work_order_app/internal/dto"
)

// unitService manages units. Every write re-validates the exactly-one-parent
// invariant and the admin's ownership of the chosen parent.
type unitService struct {
	BaseService
	unitRepo     portsrepo.UnitRepositoryFacade
	customerRepo portsrepo.CustomerReader
	partnerRepo  portsrepo.PartnerReader
	reportRepo   portsrepo.ReportReader
	ownership    portssvc.OwnershipResolverSvc
	blobs        portssvc.BlobStore
}

// NewUnitService creates a new instance of unitService.
func NewUnitService(
	unitRepo portsrepo.UnitRepositoryFacade,
	customerRepo portsrepo.CustomerReader,
	partnerRepo portsrepo.PartnerReader,
	reportRepo portsrepo.ReportReader,
	ownership portssvc.OwnershipResolverSvc,
	blobs portssvc.BlobStore,
) portssvc.UnitSvcFacade {
	return &unitService{
		unitRepo:     unitRepo,
		customerRepo: customerRepo,
		partnerRepo:  partnerRepo,
		reportRepo:   reportRepo,
		ownership:    ownership,
		blobs:        blobs,
	}
}

var _ portssvc.UnitSvcFacade = (*unitService)(nil)

func (s *unitService) CreateUnit(ctx context.Context, adminID string, req dto.CreateUnitRequest) (*domain.Unit, error) {
	now := time.Now()
	unit := domain.Unit{
		UnitID:     uuid.NewString(),
		UnitName:   req.UnitName,
		CustomerID: req.CustomerID,
		PartnerID:  req.PartnerID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}
	if err := unit.ValidateAssociation(); err != nil {
		return nil, err
	}

	principal := domain.Principal{ID: adminID, Role: domain.RoleAdmin}
	if err := s.authorizeParent(ctx, principal, unit.CustomerID, unit.PartnerID); err != nil {
		return nil, err
	}

	if err := s.unitRepo.SaveUnit(ctx, unit); err != nil {
		s.LogError(ctx, err, "failed to save unit", slog.String("unit_id", unit.UnitID))
		return nil, fmt.Errorf("failed to create unit: %w", err)
	}
	s.LogInfo(ctx, "unit created", slog.String("unit_id", unit.UnitID))
	return &unit, nil
}

func (s *unitService) GetUnitByID(ctx context.Context, principal domain.Principal, unitID string) (*domain.Unit, []domain.Report, error) {
	unit, err := s.unitRepo.FindUnitByID(ctx, unitID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.ownership.AuthorizeUnit(ctx, principal, unit); err != nil {
		return nil, nil, err
	}
	reports, err := s.reportRepo.ListReportsByUnitIDs(ctx, []string{unitID})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load unit reports: %w", err)
	}
	return unit, reports, nil
}

func (s *unitService) ListCustomerUnits(ctx context.Context, principal domain.Principal, customerID string) ([]domain.Unit, error) {
	customer, err := s.customerRepo.FindCustomerByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if err := s.ownership.AuthorizeCustomer(ctx, principal, customer); err != nil {
		return nil, err
	}
	units, err := s.unitRepo.ListUnitsByCustomerID(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list customer units: %w", err)
	}
	return units, nil
}

func (s *unitService) ListPartnerUnits(ctx context.Context, principal domain.Principal, partnerID string) ([]domain.Unit, error) {
	partner, err := s.partnerRepo.FindPartnerByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	if err := s.ownership.AuthorizePartner(ctx, principal, partner); err != nil {
		return nil, err
	}
	units, err := s.unitRepo.ListUnitsByPartnerID(ctx, partnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list partner units: %w", err)
	}
	return units, nil
}

func (s *unitService) UpdateUnit(ctx context.Context, adminID string, unitID string, req dto.UpdateUnitRequest) (*domain.Unit, error) {
	unit, err := s.unitRepo.FindUnitByID(ctx, unitID)
	if err != nil {
		return nil, err
	}
	principal := domain.Principal{ID: adminID, Role: domain.RoleAdmin}
	if err := s.ownership.AuthorizeUnit(ctx, principal, unit); err != nil {
		return nil, err
	}

	if req.UnitName != nil {
		unit.UnitName = *req.UnitName
	}

	hasCustomer := req.CustomerID != nil && *req.CustomerID != ""
	hasPartner := req.PartnerID != nil && *req.PartnerID != ""
	switch {
	case hasCustomer && hasPartner:
		// Customer wins, but it must actually belong to the named partner.
		customer, err := s.customerRepo.FindCustomerByID(ctx, *req.CustomerID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: customer %s does not exist", apperrors.ErrValidation, *req.CustomerID)
			}
			return nil, err
		}
		if customer.PartnerID != *req.PartnerID {
			return nil, fmt.Errorf("%w: customer %s does not belong to partner %s", apperrors.ErrConflict, *req.CustomerID, *req.PartnerID)
		}
		unit.CustomerID = req.CustomerID
		unit.PartnerID = nil
	case hasCustomer:
		unit.CustomerID = req.CustomerID
		unit.PartnerID = nil
	case hasPartner:
		unit.PartnerID = req.PartnerID
		unit.CustomerID = nil
	}

	if err := unit.ValidateAssociation(); err != nil {
		return nil, err
	}
	// The admin must own the target parent too, not just the current one.
	if err := s.authorizeParent(ctx, principal, unit.CustomerID, unit.PartnerID); err != nil {
		return nil, err
	}

	unit.LastUpdatedAt = time.Now()
	if err := s.unitRepo.UpdateUnit(ctx, *unit); err != nil {
		s.LogError(ctx, err, "failed to update unit", slog.String("unit_id", unitID))
		return nil, fmt.Errorf("failed to update unit: %w", err)
	}
	return unit, nil
}

func (s *unitService) DeleteUnit(ctx context.Context, adminID string, unitID string) error {
	unit, err := s.unitRepo.FindUnitByID(ctx, unitID)
	if err != nil {
		return err
	}
	principal := domain.Principal{ID: adminID, Role: domain.RoleAdmin}
	if err := s.ownership.AuthorizeUnit(ctx, principal, unit); err != nil {
		return err
	}

	// Snapshot the reports before the cascade removes their file rows, so the
	// backing blobs can still be found afterwards.
	reports, err := s.reportRepo.ListReportsByUnitIDs(ctx, []string{unitID})
	if err != nil {
		s.LogError(ctx, err, "failed to list unit reports before delete", slog.String("unit_id", unitID))
		reports = nil
	}

	if err := s.unitRepo.DeleteUnitCascade(ctx, unitID); err != nil {
		s.LogError(ctx, err, "unit cascade delete failed", slog.String("unit_id", unitID))
		return err
	}
	releaseBlobs(ctx, &s.BaseService, s.blobs, collectReportFiles(reports))
	s.LogInfo(ctx, "unit deleted with its reports", slog.String("unit_id", unitID))
	return nil
}

// authorizeParent checks the principal's ownership of whichever parent the
// unit points at.
func (s *unitService) authorizeParent(ctx context.Context, principal domain.Principal, customerID, partnerID *string) error {
	if customerID != nil && *customerID != "" {
		customer, err := s.customerRepo.FindCustomerByID(ctx, *customerID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: customer %s does not exist", apperrors.ErrValidation, *customerID)
			}
			return err
		}
		return s.ownership.AuthorizeCustomer(ctx, principal, customer)
	}
	if partnerID != nil && *partnerID != "" {
		partner, err := s.partnerRepo.FindPartnerByID(ctx, *partnerID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: partner %s does not exist", apperrors.ErrValidation, *partnerID)
			}
			return err
		}
		return s.ownership.AuthorizePartner(ctx, principal, partner)
	}
	return fmt.Errorf("%w: unit must reference a customer or a partner", apperrors.ErrValidation)
}
