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
	"github.com/kvistberg/work_order_app/internal/utils"
)

// partnerService manages partner accounts and assembles the nested dashboard
// trees from batch lookups.
type partnerService struct {
	BaseService
	partnerRepo  portsrepo.PartnerRepositoryFacade
	customerRepo portsrepo.CustomerReader
	unitRepo     portsrepo.UnitReader
	reportRepo   portsrepo.ReportReader
	ownership    portssvc.OwnershipResolverSvc
	blobs        portssvc.BlobStore
}

// NewPartnerService creates a new instance of partnerService.
func NewPartnerService(
	partnerRepo portsrepo.PartnerRepositoryFacade,
	customerRepo portsrepo.CustomerReader,
	unitRepo portsrepo.UnitReader,
	reportRepo portsrepo.ReportReader,
	ownership portssvc.OwnershipResolverSvc,
	blobs portssvc.BlobStore,
) portssvc.PartnerSvcFacade {
	return &partnerService{
		partnerRepo:  partnerRepo,
		customerRepo: customerRepo,
		unitRepo:     unitRepo,
		reportRepo:   reportRepo,
		ownership:    ownership,
		blobs:        blobs,
	}
}

var _ portssvc.PartnerSvcFacade = (*partnerService)(nil)

func (s *partnerService) CreatePartner(ctx context.Context, adminID string, req dto.CreatePartnerRequest) (*domain.Partner, error) {
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash partner password: %w", err)
	}

	now := time.Now()
	partner := domain.Partner{
		PartnerID:     uuid.NewString(),
		Name:          req.Name,
		Email:         strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash:  hash,
		PersonName:    req.PersonName,
		PersonContact: req.PersonContact,
		AdminID:       adminID,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.partnerRepo.SavePartner(ctx, partner); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.ErrDuplicate
		}
		s.LogError(ctx, err, "failed to save partner", slog.String("email", partner.Email))
		return nil, fmt.Errorf("failed to create partner: %w", err)
	}

	s.LogInfo(ctx, "partner created", slog.String("partner_id", partner.PartnerID), slog.String("admin_id", adminID))
	return &partner, nil
}

func (s *partnerService) GetPartnerByID(ctx context.Context, principal domain.Principal, partnerID string) (*domain.Partner, error) {
	partner, err := s.partnerRepo.FindPartnerByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	if err := s.ownership.AuthorizePartner(ctx, principal, partner); err != nil {
		return nil, err
	}
	return partner, nil
}

func (s *partnerService) ListPartners(ctx context.Context, adminID string) ([]domain.Partner, error) {
	partners, err := s.partnerRepo.ListPartnersByAdminID(ctx, adminID)
	if err != nil {
		return nil, fmt.Errorf("failed to list partners: %w", err)
	}
	return partners, nil
}

func (s *partnerService) UpdatePartner(ctx context.Context, principal domain.Principal, partnerID string, req dto.UpdatePartnerRequest) (*domain.Partner, error) {
	partner, err := s.partnerRepo.FindPartnerByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	if err := s.ownership.AuthorizePartner(ctx, principal, partner); err != nil {
		return nil, err
	}

	if req.Name != nil {
		partner.Name = *req.Name
	}
	if req.Email != nil {
		partner.Email = strings.ToLower(strings.TrimSpace(*req.Email))
	}
	if req.PersonName != nil {
		partner.PersonName = req.PersonName
	}
	if req.PersonContact != nil {
		partner.PersonContact = req.PersonContact
	}
	partner.LastUpdatedAt = time.Now()

	if err := s.partnerRepo.UpdatePartner(ctx, *partner); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.ErrDuplicate
		}
		s.LogError(ctx, err, "failed to update partner", slog.String("partner_id", partnerID))
		return nil, fmt.Errorf("failed to update partner: %w", err)
	}
	return partner, nil
}

func (s *partnerService) UpdatePartnerPassword(ctx context.Context, principal domain.Principal, partnerID string, newPassword string) error {
	partner, err := s.partnerRepo.FindPartnerByID(ctx, partnerID)
	if err != nil {
		return err
	}
	if err := s.ownership.AuthorizePartner(ctx, principal, partner); err != nil {
		return err
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash partner password: %w", err)
	}
	if err := s.partnerRepo.UpdatePartnerPassword(ctx, partnerID, hash); err != nil {
		s.LogError(ctx, err, "failed to update partner password", slog.String("partner_id", partnerID))
		return fmt.Errorf("failed to update partner password: %w", err)
	}
	s.LogInfo(ctx, "partner password replaced", slog.String("partner_id", partnerID))
	return nil
}

func (s *partnerService) DeletePartner(ctx context.Context, principal domain.Principal, partnerID string) error {
	partner, err := s.partnerRepo.FindPartnerByID(ctx, partnerID)
	if err != nil {
		return err
	}
	if err := s.ownership.AuthorizePartner(ctx, principal, partner); err != nil {
		return err
	}

	// Every report carries the owning partner's ID, so one listing covers the
	// whole subtree. Snapshot it before the cascade removes the file rows.
	reports, err := s.reportRepo.ListReportsByPartnerID(ctx, partnerID)
	if err != nil {
		s.LogError(ctx, err, "failed to list partner reports before delete", slog.String("partner_id", partnerID))
		reports = nil
	}

	if err := s.partnerRepo.DeletePartnerCascade(ctx, partnerID); err != nil {
		s.LogError(ctx, err, "partner cascade delete failed", slog.String("partner_id", partnerID))
		return err
	}
	releaseBlobs(ctx, &s.BaseService, s.blobs, collectReportFiles(reports))
	s.LogInfo(ctx, "partner deleted with descendants", slog.String("partner_id", partnerID))
	return nil
}

func (s *partnerService) GetAdminNestedTree(ctx context.Context, adminID string) ([]dto.NestedPartner, error) {
	partners, err := s.partnerRepo.ListPartnersByAdminID(ctx, adminID)
	if err != nil {
		return nil, fmt.Errorf("failed to list partners for tree: %w", err)
	}
	return s.buildNestedTrees(ctx, partners)
}

func (s *partnerService) GetPartnerNestedTree(ctx context.Context, partnerID string) ([]dto.NestedPartner, error) {
	partner, err := s.partnerRepo.FindPartnerByID(ctx, partnerID)
	if err != nil {
		return nil, err
	}
	return s.buildNestedTrees(ctx, []domain.Partner{*partner})
}

// buildNestedTrees assembles partner -> customers -> units -> reports trees
// with one batch query per level instead of per-row lookups.
func (s *partnerService) buildNestedTrees(ctx context.Context, partners []domain.Partner) ([]dto.NestedPartner, error) {
	partnerIDs := make([]string, len(partners))
	for i := range partners {
		partnerIDs[i] = partners[i].PartnerID
	}

	customers, err := s.customerRepo.ListCustomersByPartnerIDs(ctx, partnerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to batch-load customers: %w", err)
	}
	customerIDs := make([]string, len(customers))
	for i := range customers {
		customerIDs[i] = customers[i].CustomerID
	}

	customerUnits, err := s.unitRepo.ListUnitsByCustomerIDs(ctx, customerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to batch-load customer units: %w", err)
	}
	partnerUnits, err := s.unitRepo.ListUnitsByPartnerIDs(ctx, partnerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to batch-load partner units: %w", err)
	}

	unitIDs := make([]string, 0, len(customerUnits)+len(partnerUnits))
	for i := range customerUnits {
		unitIDs = append(unitIDs, customerUnits[i].UnitID)
	}
	for i := range partnerUnits {
		unitIDs = append(unitIDs, partnerUnits[i].UnitID)
	}

	unitReports, err := s.reportRepo.ListReportsByUnitIDs(ctx, unitIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to batch-load unit reports: %w", err)
	}
	directCustomerReports, err := s.reportRepo.ListDirectCustomerReports(ctx, customerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to batch-load customer reports: %w", err)
	}
	directPartnerReports, err := s.reportRepo.ListDirectPartnerReports(ctx, partnerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to batch-load partner reports: %w", err)
	}

	reportsByUnit := make(map[string][]dto.NestedReport)
	for i := range unitReports {
		r := &unitReports[i]
		if r.UnitID == nil {
			continue
		}
		reportsByUnit[*r.UnitID] = append(reportsByUnit[*r.UnitID], dto.ToNestedReport(r))
	}

	unitsByCustomer := make(map[string][]dto.NestedUnit)
	for i := range customerUnits {
		u := &customerUnits[i]
		if u.CustomerID == nil {
			continue
		}
		unitsByCustomer[*u.CustomerID] = append(unitsByCustomer[*u.CustomerID], toNestedUnit(u, reportsByUnit))
	}

	unitsByPartner := make(map[string][]dto.NestedUnit)
	for i := range partnerUnits {
		u := &partnerUnits[i]
		if u.PartnerID == nil {
			continue
		}
		unitsByPartner[*u.PartnerID] = append(unitsByPartner[*u.PartnerID], toNestedUnit(u, reportsByUnit))
	}

	reportsByCustomer := make(map[string][]dto.NestedReport)
	for i := range directCustomerReports {
		r := &directCustomerReports[i]
		if r.CustomerID == nil {
			continue
		}
		reportsByCustomer[*r.CustomerID] = append(reportsByCustomer[*r.CustomerID], dto.ToNestedReport(r))
	}

	reportsByPartner := make(map[string][]dto.NestedReport)
	for i := range directPartnerReports {
		r := &directPartnerReports[i]
		reportsByPartner[r.PartnerID] = append(reportsByPartner[r.PartnerID], dto.ToNestedReport(r))
	}

	customersByPartner := make(map[string][]dto.NestedCustomer)
	for i := range customers {
		c := &customers[i]
		customersByPartner[c.PartnerID] = append(customersByPartner[c.PartnerID], dto.NestedCustomer{
			CustomerID: c.CustomerID,
			Name:       c.Name,
			Units:      orEmptyUnits(unitsByCustomer[c.CustomerID]),
			Reports:    orEmptyReports(reportsByCustomer[c.CustomerID]),
		})
	}

	trees := make([]dto.NestedPartner, len(partners))
	for i := range partners {
		p := &partners[i]
		customersOf := customersByPartner[p.PartnerID]
		if customersOf == nil {
			customersOf = []dto.NestedCustomer{}
		}
		trees[i] = dto.NestedPartner{
			PartnerID: p.PartnerID,
			Name:      p.Name,
			Customers: customersOf,
			Units:     orEmptyUnits(unitsByPartner[p.PartnerID]),
			Reports:   orEmptyReports(reportsByPartner[p.PartnerID]),
		}
	}
	return trees, nil
}

func toNestedUnit(u *domain.Unit, reportsByUnit map[string][]dto.NestedReport) dto.NestedUnit {
	return dto.NestedUnit{
		UnitID:   u.UnitID,
		UnitName: u.UnitName,
		Reports:  orEmptyReports(reportsByUnit[u.UnitID]),
	}
}

func orEmptyReports(reports []dto.NestedReport) []dto.NestedReport {
	if reports == nil {
		return []dto.NestedReport{}
	}
	return reports
}

func orEmptyUnits(units []dto.NestedUnit) []dto.NestedUnit {
	if units == nil {
		return []dto.NestedUnit{}
	}
	return units
}
