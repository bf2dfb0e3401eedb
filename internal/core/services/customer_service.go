package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/kvistberg/work_order_app/internal/apperrors"
	"github.com/kvistberg/work_order_app/internal/core/domain"
	portsrepo "github.com/kvistberg/work_order_app/internal/core/ports/repositories"
	portssvc "github.com/kvistberg/work_order_app/internal/core/ports/services"
	"github.com/kvistberg/work_order_app/internal/dto"
)

type customerService struct {
	BaseService
	customerRepo portsrepo.CustomerRepositoryFacade
	partnerRepo  portsrepo.PartnerReader
	unitRepo     portsrepo.UnitReader
	reportRepo   portsrepo.ReportReader
	ownership    portssvc.OwnershipResolverSvc
	blobs        portssvc.BlobStore
}

// NewCustomerService creates a new instance of customerService.
func NewCustomerService(
	customerRepo portsrepo.CustomerRepositoryFacade,
	partnerRepo portsrepo.PartnerReader,
	unitRepo portsrepo.UnitReader,
	reportRepo portsrepo.ReportReader,
	ownership portssvc.OwnershipResolverSvc,
	blobs portssvc.BlobStore,
) portssvc.CustomerSvcFacade {
	return &customerService{
		customerRepo: customerRepo,
		partnerRepo:  partnerRepo,
		unitRepo:     unitRepo,
		reportRepo:   reportRepo,
		ownership:    ownership,
		blobs:        blobs,
	}
}

var _ portssvc.CustomerSvcFacade = (*customerService)(nil)

func (s *customerService) CreateCustomer(ctx context.Context, adminID string, req dto.CreateCustomerRequest) (*domain.Customer, error) {
	partner, err := s.partnerRepo.FindPartnerByID(ctx, req.PartnerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: partner %s does not exist", apperrors.ErrValidation, req.PartnerID)
		}
		return nil, err
	}
	principal := domain.Principal{ID: adminID, Role: domain.RoleAdmin}
	if err := s.ownership.AuthorizePartner(ctx, principal, partner); err != nil {
		return nil, err
	}

	now := time.Now()
	customer := domain.Customer{
		CustomerID: uuid.NewString(),
		Name:       req.Name,
		Email:      strings.ToLower(strings.TrimSpace(req.Email)),
		PartnerID:  req.PartnerID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.customerRepo.SaveCustomer(ctx, customer); err != nil {
		s.LogError(ctx, err, "failed to save customer", slog.String("partner_id", req.PartnerID))
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	s.LogInfo(ctx, "customer created", slog.String("customer_id", customer.CustomerID), slog.String("partner_id", req.PartnerID))
	return &customer, nil
}

func (s *customerService) GetCustomerByID(ctx context.Context, principal domain.Principal, customerID string) (*domain.Customer, error) {
	customer, err := s.customerRepo.FindCustomerByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if err := s.ownership.AuthorizeCustomer(ctx, principal, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

func (s *customerService) ListPartnerCustomers(ctx context.Context, principal domain.Principal, partnerID string) ([]domain.Customer, error) {
	partner, err := s.partnerRepo.FindPartnerByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	if err := s.ownership.AuthorizePartner(ctx, principal, partner); err != nil {
		return nil, err
	}
	customers, err := s.customerRepo.ListCustomersByPartnerID(ctx, partnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

func (s *customerService) UpdateCustomer(ctx context.Context, principal domain.Principal, customerID string, req dto.UpdateCustomerRequest) (*domain.Customer, error) {
	customer, err := s.customerRepo.FindCustomerByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if err := s.ownership.AuthorizeCustomer(ctx, principal, customer); err != nil {
		return nil, err
	}

	if req.Name != nil {
		customer.Name = *req.Name
	}
	if req.Email != nil {
		customer.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	customer.LastUpdatedAt = time.Now()

	if err := s.customerRepo.UpdateCustomer(ctx, *customer); err != nil {
		s.LogError(ctx, err, "failed to update customer", slog.String("customer_id", customerID))
		return nil, fmt.Errorf("failed to update customer: %w", err)
	}
	return customer, nil
}

func (s *customerService) DeleteCustomer(ctx context.Context, principal domain.Principal, customerID string) error {
	customer, err := s.customerRepo.FindCustomerByID(ctx, customerID)
	if err != nil {
		return err
	}
	if err := s.ownership.AuthorizeCustomer(ctx, principal, customer); err != nil {
		return err
	}

	// Snapshot every report the cascade will remove, so the backing blobs can
	// still be released once the rows are gone.
	reports := s.doomedReports(ctx, customerID)

	if err := s.customerRepo.DeleteCustomerCascade(ctx, customerID); err != nil {
		s.LogError(ctx, err, "customer cascade delete failed", slog.String("customer_id", customerID))
		return err
	}
	releaseBlobs(ctx, &s.BaseService, s.blobs, collectReportFiles(reports))
	s.LogInfo(ctx, "customer deleted with descendants", slog.String("customer_id", customerID))
	return nil
}

// doomedReports collects the reports a customer cascade will delete: those on
// the customer's units plus those linked to the customer directly. Listing
// failures are logged and skipped; blob release stays best effort.
func (s *customerService) doomedReports(ctx context.Context, customerID string) []domain.Report {
	var reports []domain.Report

	units, err := s.unitRepo.ListUnitsByCustomerID(ctx, customerID)
	if err != nil {
		s.LogError(ctx, err, "failed to list customer units before delete", slog.String("customer_id", customerID))
	} else if len(units) > 0 {
		unitIDs := make([]string, 0, len(units))
		for _, u := range units {
			unitIDs = append(unitIDs, u.UnitID)
		}
		unitReports, err := s.reportRepo.ListReportsByUnitIDs(ctx, unitIDs)
		if err != nil {
			s.LogError(ctx, err, "failed to list unit reports before delete", slog.String("customer_id", customerID))
		} else {
			reports = append(reports, unitReports...)
		}
	}

	directReports, err := s.reportRepo.ListDirectCustomerReports(ctx, []string{customerID})
	if err != nil {
		s.LogError(ctx, err, "failed to list customer reports before delete", slog.String("customer_id", customerID))
	} else {
		reports = append(reports, directReports...)
	}
	return reports
}
