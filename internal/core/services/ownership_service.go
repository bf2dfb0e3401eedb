package services

import (
	"context"
	"errors"
	"fmt"

	"log/slog"

	"github.com/kvistberg/work_order_app/internal/apperrors"
	"github.com/kvistberg/work_order_app/internal/core/domain"
	portsrepo "github.com/kvistberg/work_order_app/internal/core/ports/repositories"
	portssvc "github.com/kvistberg/work_order_app/internal/core/ports/services"
)

// ownershipResolverService walks the admin -> partner -> customer -> unit ->
// report chain against fresh records on every call. Results are never cached:
// a reassignment is visible to the very next authorization decision.
type ownershipResolverService struct {
	BaseService
	partnerRepo  portsrepo.PartnerReader
	customerRepo portsrepo.CustomerReader
}

// NewOwnershipResolverService creates the chain-walking authorizer.
func NewOwnershipResolverService(partnerRepo portsrepo.PartnerReader, customerRepo portsrepo.CustomerReader) portssvc.OwnershipResolverSvc {
	return &ownershipResolverService{
		partnerRepo:  partnerRepo,
		customerRepo: customerRepo,
	}
}

var _ portssvc.OwnershipResolverSvc = (*ownershipResolverService)(nil)

func (s *ownershipResolverService) AuthorizePartner(ctx context.Context, principal domain.Principal, partner *domain.Partner) error {
	if partner == nil {
		return apperrors.ErrNotFound
	}
	if principal.IsPartner() {
		if principal.ID == partner.PartnerID {
			return nil
		}
		return apperrors.ErrForbidden
	}
	if principal.IsAdmin() {
		if partner.AdminID == principal.ID {
			return nil
		}
		return apperrors.ErrForbidden
	}
	return apperrors.ErrForbidden
}

func (s *ownershipResolverService) AuthorizeCustomer(ctx context.Context, principal domain.Principal, customer *domain.Customer) error {
	if customer == nil {
		return apperrors.ErrNotFound
	}
	if principal.IsPartner() {
		if principal.ID == customer.PartnerID {
			return nil
		}
		return apperrors.ErrForbidden
	}
	partner, err := s.resolvePartner(ctx, customer.PartnerID, "customer", customer.CustomerID)
	if err != nil {
		return err
	}
	return s.AuthorizePartner(ctx, principal, partner)
}

func (s *ownershipResolverService) AuthorizeUnit(ctx context.Context, principal domain.Principal, unit *domain.Unit) error {
	if unit == nil {
		return apperrors.ErrNotFound
	}
	if unit.CustomerID != nil && *unit.CustomerID != "" {
		customer, err := s.customerRepo.FindCustomerByID(ctx, *unit.CustomerID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				s.LogError(ctx, err, "unit references a missing customer",
					slog.String("unit_id", unit.UnitID),
					slog.String("customer_id", *unit.CustomerID))
				return fmt.Errorf("%w: unit %s references missing customer %s", apperrors.ErrBrokenReference, unit.UnitID, *unit.CustomerID)
			}
			return err
		}
		return s.AuthorizeCustomer(ctx, principal, customer)
	}
	if unit.PartnerID != nil && *unit.PartnerID != "" {
		if principal.IsPartner() {
			if principal.ID == *unit.PartnerID {
				return nil
			}
			return apperrors.ErrForbidden
		}
		partner, err := s.resolvePartner(ctx, *unit.PartnerID, "unit", unit.UnitID)
		if err != nil {
			return err
		}
		return s.AuthorizePartner(ctx, principal, partner)
	}
	return fmt.Errorf("%w: unit %s has no owning customer or partner", apperrors.ErrBrokenReference, unit.UnitID)
}

func (s *ownershipResolverService) AuthorizeReport(ctx context.Context, principal domain.Principal, report *domain.Report) error {
	if report == nil {
		return apperrors.ErrNotFound
	}
	// The owning partner is always Report.PartnerID. Customer/unit links narrow
	// delivery, not ownership.
	if principal.IsPartner() {
		if principal.ID == report.PartnerID {
			return nil
		}
		return apperrors.ErrForbidden
	}
	partner, err := s.resolvePartner(ctx, report.PartnerID, "report", report.ReportID)
	if err != nil {
		return err
	}
	return s.AuthorizePartner(ctx, principal, partner)
}

// resolvePartner fetches a parent partner, converting a missing row into a
// broken-reference deny rather than a plain not-found.
func (s *ownershipResolverService) resolvePartner(ctx context.Context, partnerID, childKind, childID string) (*domain.Partner, error) {
	partner, err := s.partnerRepo.FindPartnerByID(ctx, partnerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "entity references a missing partner",
				slog.String("kind", childKind),
				slog.String("id", childID),
				slog.String("partner_id", partnerID))
			return nil, fmt.Errorf("%w: %s %s references missing partner %s", apperrors.ErrBrokenReference, childKind, childID, partnerID)
		}
		return nil, err
	}
	return partner, nil
}
