package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/kvistberg/work_order_app/internal/apperrors"
	"github.com/kvistberg/work_order_app/internal/core/domain"
	portsrepo "github.com/kvistberg/work_order_app/internal/core/ports/repositories"
	portssvc "github.com/kvistberg/work_order_app/internal/core/ports/services"
	"github.com/kvistberg/work_order_app/internal/dto"
)

// reportService owns the report lifecycle: creation with uploads, admin and
// partner updates, the unread flag and delivery to partner or end customer.
type reportService struct {
	BaseService
	reportRepo      portsrepo.ReportRepositoryFacade
	partnerRepo     portsrepo.PartnerReader
	customerRepo    portsrepo.CustomerReader
	unitRepo        portsrepo.UnitReader
	ownership       portssvc.OwnershipResolverSvc
	deliverer       portssvc.Deliverer
	blobs           portssvc.BlobStore
	deliveryTimeout time.Duration
}

// NewReportService creates a new instance of reportService.
func NewReportService(
	reportRepo portsrepo.ReportRepositoryFacade,
	partnerRepo portsrepo.PartnerReader,
	customerRepo portsrepo.CustomerReader,
	unitRepo portsrepo.UnitReader,
	ownership portssvc.OwnershipResolverSvc,
	deliverer portssvc.Deliverer,
	blobs portssvc.BlobStore,
	deliveryTimeout time.Duration,
) portssvc.ReportSvcFacade {
	return &reportService{
		reportRepo:      reportRepo,
		partnerRepo:     partnerRepo,
		customerRepo:    customerRepo,
		unitRepo:        unitRepo,
		ownership:       ownership,
		deliverer:       deliverer,
		blobs:           blobs,
		deliveryTimeout: deliveryTimeout,
	}
}

var _ portssvc.ReportSvcFacade = (*reportService)(nil)

func (s *reportService) CreateReport(ctx context.Context, adminID string, req dto.CreateReportRequest, uploads []dto.UploadedFile) (*portssvc.CreateReportResult, error) {
	principal := domain.Principal{ID: adminID, Role: domain.RoleAdmin}

	partner, err := s.partnerRepo.FindPartnerByID(ctx, req.PartnerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: partner %s does not exist", apperrors.ErrValidation, req.PartnerID)
		}
		return nil, err
	}
	if err := s.ownership.AuthorizePartner(ctx, principal, partner); err != nil {
		return nil, err
	}

	status := domain.ReportStatus(req.Status)
	if status == "" {
		status = domain.ReportStatusActive
	}
	if err := domain.ValidateReportStatus(status); err != nil {
		return nil, err
	}

	if err := s.validateAssociations(ctx, req.PartnerID, req.CustomerID, req.UnitID); err != nil {
		return nil, err
	}

	now := time.Now()
	report := domain.Report{
		ReportID:     uuid.NewString(),
		ReportNumber: domain.NormalizeReportNumber(req.ReportNumber),
		VNNumber:     req.VNNumber,
		Status:       status,
		IsNew:        true,
		AdminNote:    req.AdminNote,
		PartnerID:    req.PartnerID,
		CustomerID:   req.CustomerID,
		UnitID:       req.UnitID,
		Files:        []domain.ReportFile{},
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	for _, up := range uploads {
		file, err := s.storeUpload(ctx, report.ReportNumber, up)
		if err != nil {
			s.cleanupBlobs(ctx, report.Files)
			return nil, err
		}
		report.Files = append(report.Files, *file)
	}

	if err := s.reportRepo.SaveReport(ctx, report); err != nil {
		s.cleanupBlobs(ctx, report.Files)
		s.LogError(ctx, err, "failed to save report", slog.String("report_number", report.ReportNumber))
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	s.LogInfo(ctx, "report created",
		slog.String("report_id", report.ReportID),
		slog.String("report_number", report.ReportNumber),
		slog.Int("files", len(report.Files)))

	result := &portssvc.CreateReportResult{Report: &report}
	if req.SendEmail {
		if err := s.notifyPartner(ctx, &report, partner); err != nil {
			// The report stays; the handler reports the partial success.
			s.LogError(ctx, err, "partner notification failed after create",
				slog.String("report_id", report.ReportID),
				slog.String("partner_id", partner.PartnerID))
			result.NotifyFailed = true
		}
	}
	return result, nil
}

func (s *reportService) GetReportByID(ctx context.Context, principal domain.Principal, reportID string) (*domain.Report, error) {
	report, err := s.reportRepo.FindReportByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if err := s.ownership.AuthorizeReport(ctx, principal, report); err != nil {
		return nil, err
	}
	return report, nil
}

func (s *reportService) ListReports(ctx context.Context, adminID string) ([]domain.Report, error) {
	reports, err := s.reportRepo.ListReportsByAdminID(ctx, adminID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return reports, nil
}

func (s *reportService) ListPartnerReports(ctx context.Context, partnerID string) ([]domain.Report, error) {
	reports, err := s.reportRepo.ListReportsByPartnerID(ctx, partnerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list partner reports: %w", err)
	}
	return reports, nil
}

func (s *reportService) UpdateReport(ctx context.Context, adminID string, reportID string, req dto.UpdateReportRequest) (*domain.Report, error) {
	principal := domain.Principal{ID: adminID, Role: domain.RoleAdmin}
	report, err := s.reportRepo.FindReportByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if err := s.ownership.AuthorizeReport(ctx, principal, report); err != nil {
		return nil, err
	}

	if req.ReportNumber != nil {
		report.ReportNumber = domain.NormalizeReportNumber(*req.ReportNumber)
	}
	if req.VNNumber != nil {
		report.VNNumber = *req.VNNumber
	}
	if req.AdminNote != nil {
		report.AdminNote = req.AdminNote
	}
	if req.PartnerNote != nil {
		report.PartnerNote = req.PartnerNote
	}
	if req.Status != nil {
		status := domain.ReportStatus(*req.Status)
		if err := domain.ValidateReportStatus(status); err != nil {
			return nil, err
		}
		report.Status = status
	}

	if req.PartnerID != nil && *req.PartnerID != report.PartnerID {
		newPartner, err := s.partnerRepo.FindPartnerByID(ctx, *req.PartnerID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: partner %s does not exist", apperrors.ErrValidation, *req.PartnerID)
			}
			return nil, err
		}
		if err := s.ownership.AuthorizePartner(ctx, principal, newPartner); err != nil {
			return nil, err
		}
		report.PartnerID = *req.PartnerID
	}
	if req.CustomerID != nil {
		if *req.CustomerID == "" {
			report.CustomerID = nil
		} else {
			report.CustomerID = req.CustomerID
		}
	}
	if req.UnitID != nil {
		if *req.UnitID == "" {
			report.UnitID = nil
		} else {
			report.UnitID = req.UnitID
		}
	}

	if err := s.validateAssociations(ctx, report.PartnerID, report.CustomerID, report.UnitID); err != nil {
		return nil, err
	}

	report.LastUpdatedAt = time.Now()
	if err := s.reportRepo.UpdateReport(ctx, *report); err != nil {
		s.LogError(ctx, err, "failed to update report", slog.String("report_id", reportID))
		return nil, fmt.Errorf("failed to update report: %w", err)
	}
	return report, nil
}

func (s *reportService) UpdatePartnerNote(ctx context.Context, partnerID string, reportID string, note string) (*domain.Report, error) {
	report, err := s.ownedPartnerReport(ctx, partnerID, reportID)
	if err != nil {
		return nil, err
	}
	report.PartnerNote = &note
	report.LastUpdatedAt = time.Now()
	if err := s.reportRepo.UpdateReport(ctx, *report); err != nil {
		s.LogError(ctx, err, "failed to update partner note", slog.String("report_id", reportID))
		return nil, fmt.Errorf("failed to update partner note: %w", err)
	}
	return report, nil
}

func (s *reportService) MarkReportRead(ctx context.Context, partnerID string, reportID string) error {
	if _, err := s.ownedPartnerReport(ctx, partnerID, reportID); err != nil {
		return err
	}
	if err := s.reportRepo.MarkReportRead(ctx, reportID); err != nil {
		s.LogError(ctx, err, "failed to mark report read", slog.String("report_id", reportID))
		return err
	}
	return nil
}

func (s *reportService) SendReportToCustomer(ctx context.Context, partnerID string, reportID string) error {
	report, err := s.ownedPartnerReport(ctx, partnerID, reportID)
	if err != nil {
		return err
	}

	recipient, err := s.resolveRecipient(ctx, report)
	if err != nil {
		return err
	}

	if err := s.deliverReport(ctx, report, recipient.Email, fmt.Sprintf("Work order %s", report.ReportNumber)); err != nil {
		// Delivery failed; the unread flag stays as it was.
		s.LogError(ctx, err, "customer delivery failed",
			slog.String("report_id", reportID),
			slog.String("customer_id", recipient.CustomerID))
		return err
	}

	// The flag flips only after the relay accepted the message.
	if err := s.reportRepo.MarkReportRead(ctx, reportID); err != nil {
		s.LogError(ctx, err, "failed to clear unread flag after delivery", slog.String("report_id", reportID))
		return err
	}
	s.LogInfo(ctx, "report delivered to customer",
		slog.String("report_id", reportID),
		slog.String("customer_id", recipient.CustomerID))
	return nil
}

func (s *reportService) SendReportToPartner(ctx context.Context, adminID string, reportID string) error {
	principal := domain.Principal{ID: adminID, Role: domain.RoleAdmin}
	report, err := s.reportRepo.FindReportByID(ctx, reportID)
	if err != nil {
		return err
	}
	if err := s.ownership.AuthorizeReport(ctx, principal, report); err != nil {
		return err
	}
	partner, err := s.partnerRepo.FindPartnerByID(ctx, report.PartnerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return fmt.Errorf("%w: report %s references missing partner %s", apperrors.ErrBrokenReference, reportID, report.PartnerID)
		}
		return err
	}
	if err := s.notifyPartner(ctx, report, partner); err != nil {
		s.LogError(ctx, err, "partner delivery failed", slog.String("report_id", reportID))
		return err
	}
	s.LogInfo(ctx, "report delivered to partner",
		slog.String("report_id", reportID),
		slog.String("partner_id", partner.PartnerID))
	return nil
}

func (s *reportService) AddReportFiles(ctx context.Context, adminID string, reportID string, uploads []dto.UploadedFile) (*domain.Report, error) {
	principal := domain.Principal{ID: adminID, Role: domain.RoleAdmin}
	report, err := s.reportRepo.FindReportByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	if err := s.ownership.AuthorizeReport(ctx, principal, report); err != nil {
		return nil, err
	}

	for _, up := range uploads {
		file, err := s.storeUpload(ctx, report.ReportNumber, up)
		if err != nil {
			return nil, err
		}
		if err := s.reportRepo.AddReportFile(ctx, reportID, *file); err != nil {
			if delErr := s.blobs.Delete(ctx, file.StoragePath); delErr != nil {
				s.LogError(ctx, delErr, "failed to release orphaned blob", slog.String("storage_path", file.StoragePath))
			}
			s.LogError(ctx, err, "failed to attach report file", slog.String("report_id", reportID))
			return nil, fmt.Errorf("failed to attach file: %w", err)
		}
		report.Files = append(report.Files, *file)
	}
	return report, nil
}

func (s *reportService) DeleteReportFile(ctx context.Context, adminID string, reportID string, fileID string) error {
	principal := domain.Principal{ID: adminID, Role: domain.RoleAdmin}
	report, err := s.reportRepo.FindReportByID(ctx, reportID)
	if err != nil {
		return err
	}
	if err := s.ownership.AuthorizeReport(ctx, principal, report); err != nil {
		return err
	}

	file, err := s.reportRepo.FindReportFile(ctx, reportID, fileID)
	if err != nil {
		return err
	}
	if err := s.reportRepo.DeleteReportFile(ctx, reportID, fileID); err != nil {
		return err
	}
	// The record is gone; a blob left behind is logged, not surfaced.
	if err := s.blobs.Delete(ctx, file.StoragePath); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		s.LogError(ctx, err, "failed to release blob of deleted file", slog.String("storage_path", file.StoragePath))
	}
	return nil
}

func (s *reportService) OpenReportFile(ctx context.Context, principal domain.Principal, reportID string, fileID string) (*domain.ReportFile, io.ReadCloser, error) {
	report, err := s.reportRepo.FindReportByID(ctx, reportID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.ownership.AuthorizeReport(ctx, principal, report); err != nil {
		return nil, nil, err
	}
	file, err := s.reportRepo.FindReportFile(ctx, reportID, fileID)
	if err != nil {
		return nil, nil, err
	}
	rc, err := s.blobs.Open(ctx, file.StoragePath)
	if err != nil {
		return nil, nil, err
	}
	return file, rc, nil
}

func (s *reportService) DeleteReport(ctx context.Context, adminID string, reportID string) error {
	principal := domain.Principal{ID: adminID, Role: domain.RoleAdmin}
	report, err := s.reportRepo.FindReportByID(ctx, reportID)
	if err != nil {
		return err
	}
	if err := s.ownership.AuthorizeReport(ctx, principal, report); err != nil {
		return err
	}

	if err := s.reportRepo.DeleteReport(ctx, reportID); err != nil {
		s.LogError(ctx, err, "failed to delete report", slog.String("report_id", reportID))
		return err
	}
	s.cleanupBlobs(ctx, report.Files)
	s.LogInfo(ctx, "report deleted", slog.String("report_id", reportID))
	return nil
}

// ownedPartnerReport fetches a report and checks the calling partner owns it.
func (s *reportService) ownedPartnerReport(ctx context.Context, partnerID string, reportID string) (*domain.Report, error) {
	report, err := s.reportRepo.FindReportByID(ctx, reportID)
	if err != nil {
		return nil, err
	}
	principal := domain.Principal{ID: partnerID, Role: domain.RolePartner}
	if err := s.ownership.AuthorizeReport(ctx, principal, report); err != nil {
		return nil, err
	}
	return report, nil
}

// validateAssociations checks that a customer link belongs to the owning
// partner and a unit link resolves into the same partner's subtree.
func (s *reportService) validateAssociations(ctx context.Context, partnerID string, customerID, unitID *string) error {
	if customerID != nil && *customerID != "" {
		customer, err := s.customerRepo.FindCustomerByID(ctx, *customerID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: customer %s does not exist", apperrors.ErrValidation, *customerID)
			}
			return err
		}
		if customer.PartnerID != partnerID {
			return fmt.Errorf("%w: customer %s does not belong to partner %s", apperrors.ErrConflict, *customerID, partnerID)
		}
	}
	if unitID != nil && *unitID != "" {
		unit, err := s.unitRepo.FindUnitByID(ctx, *unitID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return fmt.Errorf("%w: unit %s does not exist", apperrors.ErrValidation, *unitID)
			}
			return err
		}
		owner, err := s.unitOwningPartner(ctx, unit)
		if err != nil {
			return err
		}
		if owner != partnerID {
			return fmt.Errorf("%w: unit %s does not belong to partner %s", apperrors.ErrConflict, *unitID, partnerID)
		}
	}
	return nil
}

// unitOwningPartner resolves the partner a unit ultimately belongs to.
func (s *reportService) unitOwningPartner(ctx context.Context, unit *domain.Unit) (string, error) {
	if unit.CustomerID != nil && *unit.CustomerID != "" {
		customer, err := s.customerRepo.FindCustomerByID(ctx, *unit.CustomerID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return "", fmt.Errorf("%w: unit %s references missing customer %s", apperrors.ErrBrokenReference, unit.UnitID, *unit.CustomerID)
			}
			return "", err
		}
		return customer.PartnerID, nil
	}
	if unit.PartnerID != nil && *unit.PartnerID != "" {
		return *unit.PartnerID, nil
	}
	return "", fmt.Errorf("%w: unit %s has no owning customer or partner", apperrors.ErrBrokenReference, unit.UnitID)
}

// resolveRecipient picks the customer a report is sent to. A unit-linked
// report goes to the unit's customer; a partner-level unit is never
// deliverable through this path, even when the report also carries a direct
// customer link. Only unit-less reports fall back to their own customer link.
func (s *reportService) resolveRecipient(ctx context.Context, report *domain.Report) (*domain.Customer, error) {
	var customerID string
	if report.UnitID != nil && *report.UnitID != "" {
		unit, err := s.unitRepo.FindUnitByID(ctx, *report.UnitID)
		if err != nil {
			if errors.Is(err, apperrors.ErrNotFound) {
				return nil, fmt.Errorf("%w: report %s references missing unit %s", apperrors.ErrBrokenReference, report.ReportID, *report.UnitID)
			}
			return nil, err
		}
		switch {
		case unit.CustomerID != nil && *unit.CustomerID != "":
			customerID = *unit.CustomerID
		case unit.PartnerID != nil && *unit.PartnerID != "":
			return nil, fmt.Errorf("%w: cannot deliver to a partner via the customer-send path", apperrors.ErrValidation)
		default:
			return nil, fmt.Errorf("%w: unit %s has no owning customer or partner", apperrors.ErrBrokenReference, unit.UnitID)
		}
	}
	if customerID == "" && report.CustomerID != nil && *report.CustomerID != "" {
		customerID = *report.CustomerID
	}
	if customerID == "" {
		return nil, fmt.Errorf("%w: report %s has no deliverable recipient", apperrors.ErrValidation, report.ReportID)
	}

	customer, err := s.customerRepo.FindCustomerByID(ctx, customerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: report %s resolves to missing customer %s", apperrors.ErrBrokenReference, report.ReportID, customerID)
		}
		return nil, err
	}
	return customer, nil
}

// deliverReport sends the report with all attachments, bounded by the
// configured delivery timeout.
func (s *reportService) deliverReport(ctx context.Context, report *domain.Report, to string, subject string) error {
	attachments := make([]portssvc.Attachment, 0, len(report.Files))
	closers := make([]io.Closer, 0, len(report.Files))
	defer func() {
		for _, c := range closers {
			c.Close()
		}
	}()

	for _, f := range report.Files {
		rc, err := s.blobs.Open(ctx, f.StoragePath)
		if err != nil {
			return fmt.Errorf("failed to open attachment %s: %w", f.OriginalName, err)
		}
		closers = append(closers, rc)
		attachments = append(attachments, portssvc.Attachment{
			Filename: f.OriginalName,
			MimeType: f.MimeType,
			Content:  rc,
		})
	}

	sendCtx := ctx
	if s.deliveryTimeout > 0 {
		var cancel context.CancelFunc
		sendCtx, cancel = context.WithTimeout(ctx, s.deliveryTimeout)
		defer cancel()
	}
	return s.deliverer.Send(sendCtx, to, subject, reportEmailBody(report), attachments)
}

func (s *reportService) notifyPartner(ctx context.Context, report *domain.Report, partner *domain.Partner) error {
	subject := fmt.Sprintf("New work order %s", report.ReportNumber)
	return s.deliverReport(ctx, report, partner.Email, subject)
}

// storeUpload writes one upload to blob storage and builds its file record.
// Storage names carry a timestamp so re-uploads of the same original name
// never collide.
func (s *reportService) storeUpload(ctx context.Context, reportNumber string, up dto.UploadedFile) (*domain.ReportFile, error) {
	ext := filepath.Ext(up.OriginalName)
	suggested := fmt.Sprintf("%s_%d%s", reportNumber, time.Now().UnixNano(), ext)
	storagePath, err := s.blobs.Put(ctx, up.Content, suggested)
	if err != nil {
		return nil, err
	}
	return &domain.ReportFile{
		FileID:       uuid.NewString(),
		OriginalName: up.OriginalName,
		StoragePath:  storagePath,
		MimeType:     up.MimeType,
		Size:         up.Size,
		UploadedAt:   time.Now(),
	}, nil
}

// cleanupBlobs best-effort releases blobs after a failed save or a delete.
func (s *reportService) cleanupBlobs(ctx context.Context, files []domain.ReportFile) {
	releaseBlobs(ctx, &s.BaseService, s.blobs, files)
}

func reportEmailBody(report *domain.Report) string {
	body := fmt.Sprintf("<p>Work order <strong>%s</strong> (VN %s) is attached.</p><p>Status: %s</p>",
		report.ReportNumber, report.VNNumber, report.Status)
	if report.AdminNote != nil && *report.AdminNote != "" {
		body += fmt.Sprintf("<p>%s</p>", *report.AdminNote)
	}
	return body
}
