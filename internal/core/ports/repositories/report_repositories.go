package repositories

import (
	"context"

	"github.com/kvistberg/work_order_app/internal/core/domain"
)

// ReportReader defines read operations for report data. Reads always include
// the attached file records, ordered by upload time.
type ReportReader interface {
	// FindReportByID retrieves a specific report by ID.
	FindReportByID(ctx context.Context, reportID string) (*domain.Report, error)

	// ListReportsByAdminID retrieves every report whose owning partner belongs
	// to the admin.
	ListReportsByAdminID(ctx context.Context, adminID string) ([]domain.Report, error)

	// ListReportsByPartnerID retrieves all reports owned by one partner.
	ListReportsByPartnerID(ctx context.Context, partnerID string) ([]domain.Report, error)

	// ListReportsByUnitIDs batch-retrieves reports attached to units.
	ListReportsByUnitIDs(ctx context.Context, unitIDs []string) ([]domain.Report, error)

	// ListDirectCustomerReports batch-retrieves reports linked to customers
	// without a unit.
	ListDirectCustomerReports(ctx context.Context, customerIDs []string) ([]domain.Report, error)

	// ListDirectPartnerReports batch-retrieves reports under the partners with
	// neither customer nor unit association.
	ListDirectPartnerReports(ctx context.Context, partnerIDs []string) ([]domain.Report, error)
}

// ReportWriter defines write operations for report data.
type ReportWriter interface {
	// SaveReport persists a new report together with its initial file records.
	SaveReport(ctx context.Context, report domain.Report) error

	// UpdateReport updates a report's scalar fields (not its files).
	UpdateReport(ctx context.Context, report domain.Report) error

	// MarkReportRead clears the isNew flag. It never sets the flag back.
	MarkReportRead(ctx context.Context, reportID string) error

	// DeleteReport removes the report and its file records.
	DeleteReport(ctx context.Context, reportID string) error
}

// ReportFileWriter defines mutations of a report's attached file set.
type ReportFileWriter interface {
	// AddReportFile appends one file record to a report.
	AddReportFile(ctx context.Context, reportID string, file domain.ReportFile) error

	// FindReportFile retrieves one file record of a report.
	FindReportFile(ctx context.Context, reportID string, fileID string) (*domain.ReportFile, error)

	// DeleteReportFile removes one file record by ID.
	DeleteReportFile(ctx context.Context, reportID string, fileID string) error
}

// ReportRepositoryFacade combines all report repository interfaces.
type ReportRepositoryFacade interface {
	ReportReader
	ReportWriter
	ReportFileWriter
}
