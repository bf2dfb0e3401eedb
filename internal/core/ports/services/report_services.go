package services

import (
	"context"
	"io"

	"github.com/kvistberg/work_order_app/internal/core/domain"
	"github.com/kvistberg/work_order_app/internal/dto"
)

// CreateReportResult reports the outcome of a report creation. A delivery
// failure never rolls back the created report; NotifyFailed signals the
// "report saved, notification failed" partial success to the handler.
type CreateReportResult struct {
	Report       *domain.Report
	NotifyFailed bool
}

// ReportSvcFacade governs the report lifecycle: status, unread flag, file set
// and delivery to partner or end customer.
type ReportSvcFacade interface {
	// CreateReport creates a report with uploaded files and optionally
	// notifies the owning partner by email.
	CreateReport(ctx context.Context, adminID string, req dto.CreateReportRequest, uploads []dto.UploadedFile) (*CreateReportResult, error)

	// GetReportByID retrieves a report after an ownership check.
	GetReportByID(ctx context.Context, principal domain.Principal, reportID string) (*domain.Report, error)

	// ListReports lists every report under the admin's partners.
	ListReports(ctx context.Context, adminID string) ([]domain.Report, error)

	// ListPartnerReports lists the calling partner's reports.
	ListPartnerReports(ctx context.Context, partnerID string) ([]domain.Report, error)

	// UpdateReport overwrites report fields (admin action). Association changes
	// re-validate ownership of the new partner, customer or unit.
	UpdateReport(ctx context.Context, adminID string, reportID string, req dto.UpdateReportRequest) (*domain.Report, error)

	// UpdatePartnerNote sets the partner-facing note (partner action).
	UpdatePartnerNote(ctx context.Context, partnerID string, reportID string, note string) (*domain.Report, error)

	// MarkReportRead clears the unread flag (partner action). The flag never
	// reverts to unread.
	MarkReportRead(ctx context.Context, partnerID string, reportID string) error

	// SendReportToCustomer emails the report with attachments to the resolved
	// customer recipient, then clears the unread flag. Delivery failure leaves
	// the flag untouched.
	SendReportToCustomer(ctx context.Context, partnerID string, reportID string) error

	// SendReportToPartner emails the report to its owning partner (admin action).
	SendReportToPartner(ctx context.Context, adminID string, reportID string) error

	// AddReportFiles attaches uploaded files to a report (admin action).
	AddReportFiles(ctx context.Context, adminID string, reportID string, uploads []dto.UploadedFile) (*domain.Report, error)

	// DeleteReportFile detaches one file and releases its backing storage.
	DeleteReportFile(ctx context.Context, adminID string, reportID string, fileID string) error

	// OpenReportFile opens one attachment for download after an ownership check.
	OpenReportFile(ctx context.Context, principal domain.Principal, reportID string, fileID string) (*domain.ReportFile, io.ReadCloser, error)

	// DeleteReport removes the report, its file records and their blobs.
	DeleteReport(ctx context.Context, adminID string, reportID string) error
}
