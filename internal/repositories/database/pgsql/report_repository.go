package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kvistberg/work_order_app/internal/apperrors"
	"github.com/kvistberg/work_order_app/internal/core/domain"
	portsrepo "github.com/kvistberg/work_order_app/internal/core/ports/repositories"
	"github.com/kvistberg/work_order_app/internal/models"
)

type PgxReportRepository struct {
	db *pgxpool.Pool
}

func newPgxReportRepository(db *pgxpool.Pool) portsrepo.ReportRepositoryFacade {
	return &PgxReportRepository{db: db}
}

var _ portsrepo.ReportRepositoryFacade = (*PgxReportRepository)(nil)

func toDomainReport(m models.Report) domain.Report {
	return domain.Report{
		ReportID:     m.ReportID,
		ReportNumber: m.ReportNumber,
		VNNumber:     m.VNNumber,
		Status:       domain.ReportStatus(m.Status),
		IsNew:        m.IsNew,
		AdminNote:    m.AdminNote,
		PartnerNote:  m.PartnerNote,
		PartnerID:    m.PartnerID,
		CustomerID:   m.CustomerID,
		UnitID:       m.UnitID,
		Files:        []domain.ReportFile{},
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
}

func toDomainReportFile(m models.ReportFile) domain.ReportFile {
	return domain.ReportFile{
		FileID:       m.FileID,
		OriginalName: m.OriginalName,
		StoragePath:  m.StoragePath,
		MimeType:     m.MimeType,
		Size:         m.Size,
		UploadedAt:   m.UploadedAt,
	}
}

const reportColumns = `report_id, report_number, vn_number, status, is_new, admin_note, partner_note, partner_id, customer_id, unit_id, created_at, last_updated_at`

func scanReportRow(row pgx.Row) (*domain.Report, error) {
	var m models.Report
	err := row.Scan(&m.ReportID, &m.ReportNumber, &m.VNNumber, &m.Status, &m.IsNew, &m.AdminNote, &m.PartnerNote, &m.PartnerID, &m.CustomerID, &m.UnitID, &m.CreatedAt, &m.LastUpdatedAt)
	if err != nil {
		return nil, err
	}
	d := toDomainReport(m)
	return &d, nil
}

func (r *PgxReportRepository) SaveReport(ctx context.Context, report domain.Report) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin save transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := `
        INSERT INTO reports (report_id, report_number, vn_number, status, is_new, admin_note, partner_note, partner_id, customer_id, unit_id, created_at, last_updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12);
    `
	_, err = tx.Exec(ctx, query,
		report.ReportID, report.ReportNumber, report.VNNumber, string(report.Status), report.IsNew,
		report.AdminNote, report.PartnerNote, report.PartnerID, report.CustomerID, report.UnitID,
		report.CreatedAt, report.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}

	for _, f := range report.Files {
		if err := insertReportFile(ctx, tx, report.ReportID, f); err != nil {
			return err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit report save: %w", err)
	}
	return nil
}

func insertReportFile(ctx context.Context, tx pgx.Tx, reportID string, f domain.ReportFile) error {
	query := `
        INSERT INTO report_files (file_id, report_id, original_name, storage_path, mime_type, size_bytes, uploaded_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7);
    `
	_, err := tx.Exec(ctx, query, f.FileID, reportID, f.OriginalName, f.StoragePath, f.MimeType, f.Size, f.UploadedAt)
	if err != nil {
		return fmt.Errorf("failed to save report file %s: %w", f.FileID, err)
	}
	return nil
}

func (r *PgxReportRepository) FindReportByID(ctx context.Context, reportID string) (*domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE report_id = $1;`
	report, err := scanReportRow(r.db.QueryRow(ctx, query, reportID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find report by ID %s: %w", reportID, err)
	}

	reports := []domain.Report{*report}
	if err := r.attachFiles(ctx, reports); err != nil {
		return nil, err
	}
	return &reports[0], nil
}

func (r *PgxReportRepository) ListReportsByAdminID(ctx context.Context, adminID string) ([]domain.Report, error) {
	query := `
        SELECT r.report_id, r.report_number, r.vn_number, r.status, r.is_new, r.admin_note, r.partner_note, r.partner_id, r.customer_id, r.unit_id, r.created_at, r.last_updated_at
        FROM reports r
        JOIN partners p ON p.partner_id = r.partner_id
        WHERE p.admin_id = $1
        ORDER BY r.created_at DESC;
    `
	return r.queryReports(ctx, query, adminID)
}

func (r *PgxReportRepository) ListReportsByPartnerID(ctx context.Context, partnerID string) ([]domain.Report, error) {
	query := `SELECT ` + reportColumns + ` FROM reports WHERE partner_id = $1 ORDER BY created_at DESC;`
	return r.queryReports(ctx, query, partnerID)
}

func (r *PgxReportRepository) ListReportsByUnitIDs(ctx context.Context, unitIDs []string) ([]domain.Report, error) {
	if len(unitIDs) == 0 {
		return []domain.Report{}, nil
	}
	query := `SELECT ` + reportColumns + ` FROM reports WHERE unit_id = ANY($1) ORDER BY created_at DESC;`
	return r.queryReports(ctx, query, unitIDs)
}

func (r *PgxReportRepository) ListDirectCustomerReports(ctx context.Context, customerIDs []string) ([]domain.Report, error) {
	if len(customerIDs) == 0 {
		return []domain.Report{}, nil
	}
	query := `SELECT ` + reportColumns + ` FROM reports WHERE customer_id = ANY($1) AND unit_id IS NULL ORDER BY created_at DESC;`
	return r.queryReports(ctx, query, customerIDs)
}

func (r *PgxReportRepository) ListDirectPartnerReports(ctx context.Context, partnerIDs []string) ([]domain.Report, error) {
	if len(partnerIDs) == 0 {
		return []domain.Report{}, nil
	}
	query := `SELECT ` + reportColumns + ` FROM reports WHERE partner_id = ANY($1) AND customer_id IS NULL AND unit_id IS NULL ORDER BY created_at DESC;`
	return r.queryReports(ctx, query, partnerIDs)
}

func (r *PgxReportRepository) queryReports(ctx context.Context, query string, arg any) ([]domain.Report, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query reports: %w", err)
	}
	defer rows.Close()

	reports := []domain.Report{}
	for rows.Next() {
		rep, err := scanReportRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan report row: %w", err)
		}
		reports = append(reports, *rep)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating report rows: %w", rows.Err())
	}

	if err := r.attachFiles(ctx, reports); err != nil {
		return nil, err
	}
	return reports, nil
}

// attachFiles batch-loads file records for the given reports, ordered by
// upload time within each report.
func (r *PgxReportRepository) attachFiles(ctx context.Context, reports []domain.Report) error {
	if len(reports) == 0 {
		return nil
	}
	ids := make([]string, len(reports))
	index := make(map[string]int, len(reports))
	for i := range reports {
		ids[i] = reports[i].ReportID
		index[reports[i].ReportID] = i
	}

	query := `
        SELECT file_id, report_id, original_name, storage_path, mime_type, size_bytes, uploaded_at
        FROM report_files
        WHERE report_id = ANY($1)
        ORDER BY uploaded_at ASC;
    `
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		return fmt.Errorf("failed to query report files: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var m models.ReportFile
		if err := rows.Scan(&m.FileID, &m.ReportID, &m.OriginalName, &m.StoragePath, &m.MimeType, &m.Size, &m.UploadedAt); err != nil {
			return fmt.Errorf("failed to scan report file row: %w", err)
		}
		if i, ok := index[m.ReportID]; ok {
			reports[i].Files = append(reports[i].Files, toDomainReportFile(m))
		}
	}
	if rows.Err() != nil {
		return fmt.Errorf("error iterating report file rows: %w", rows.Err())
	}
	return nil
}

func (r *PgxReportRepository) UpdateReport(ctx context.Context, report domain.Report) error {
	query := `
        UPDATE reports
        SET report_number = $2, vn_number = $3, status = $4, admin_note = $5, partner_note = $6,
            partner_id = $7, customer_id = $8, unit_id = $9, last_updated_at = $10
        WHERE report_id = $1;
    `
	tag, err := r.db.Exec(ctx, query,
		report.ReportID, report.ReportNumber, report.VNNumber, string(report.Status),
		report.AdminNote, report.PartnerNote, report.PartnerID, report.CustomerID, report.UnitID,
		report.LastUpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update report %s: %w", report.ReportID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// MarkReportRead clears the unread flag. The statement only ever writes false,
// so the flag cannot revert to unread through this path.
func (r *PgxReportRepository) MarkReportRead(ctx context.Context, reportID string) error {
	query := `UPDATE reports SET is_new = FALSE, last_updated_at = now() WHERE report_id = $1;`
	tag, err := r.db.Exec(ctx, query, reportID)
	if err != nil {
		return fmt.Errorf("failed to mark report %s read: %w", reportID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxReportRepository) DeleteReport(ctx context.Context, reportID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin delete transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, `DELETE FROM report_files WHERE report_id = $1;`, reportID); err != nil {
		return fmt.Errorf("failed to delete report files %s: %w", reportID, err)
	}
	tag, err := tx.Exec(ctx, `DELETE FROM reports WHERE report_id = $1;`, reportID)
	if err != nil {
		return fmt.Errorf("failed to delete report %s: %w", reportID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit report delete: %w", err)
	}
	return nil
}

func (r *PgxReportRepository) AddReportFile(ctx context.Context, reportID string, file domain.ReportFile) error {
	query := `
        INSERT INTO report_files (file_id, report_id, original_name, storage_path, mime_type, size_bytes, uploaded_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7);
    `
	_, err := r.db.Exec(ctx, query, file.FileID, reportID, file.OriginalName, file.StoragePath, file.MimeType, file.Size, file.UploadedAt)
	if err != nil {
		return fmt.Errorf("failed to add report file: %w", err)
	}
	return nil
}

func (r *PgxReportRepository) FindReportFile(ctx context.Context, reportID string, fileID string) (*domain.ReportFile, error) {
	query := `
        SELECT file_id, report_id, original_name, storage_path, mime_type, size_bytes, uploaded_at
        FROM report_files
        WHERE report_id = $1 AND file_id = $2;
    `
	var m models.ReportFile
	err := r.db.QueryRow(ctx, query, reportID, fileID).Scan(&m.FileID, &m.ReportID, &m.OriginalName, &m.StoragePath, &m.MimeType, &m.Size, &m.UploadedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find report file %s: %w", fileID, err)
	}
	f := toDomainReportFile(m)
	return &f, nil
}

func (r *PgxReportRepository) DeleteReportFile(ctx context.Context, reportID string, fileID string) error {
	query := `DELETE FROM report_files WHERE report_id = $1 AND file_id = $2;`
	tag, err := r.db.Exec(ctx, query, reportID, fileID)
	if err != nil {
		return fmt.Errorf("failed to delete report file %s: %w", fileID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
