package services

import (
	"context"
	"errors"

	"log/slog"

	"github.com/kvistberg/work_order_app/internal/apperrors"
	"github.com/kvistberg/work_order_app/internal/core/domain"
	portssvc "github.com/kvistberg/work_order_app/internal/core/ports/services"
)

// releaseBlobs best-effort deletes backing blobs once their file rows are
// gone. Missing blobs are ignored; other failures are logged and skipped so
// an already-committed delete is never reported as failed.
func releaseBlobs(ctx context.Context, base *BaseService, store portssvc.BlobStore, files []domain.ReportFile) {
	for _, f := range files {
		if err := store.Delete(ctx, f.StoragePath); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
			base.LogError(ctx, err, "failed to release blob", slog.String("storage_path", f.StoragePath))
		}
	}
}

// collectReportFiles flattens the file records of a report set so the blobs
// can be released after a cascade delete removes the rows.
func collectReportFiles(reports []domain.Report) []domain.ReportFile {
	var files []domain.ReportFile
	for _, r := range reports {
		files = append(files, r.Files...)
	}
	return files
}
