package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/kvistberg/work_order_app/internal/apperrors"
)

// ReportStatus is the workflow status of a report. The status field is freely
// overwritten by admin updates; only enum membership is validated.
type ReportStatus string

const (
	ReportStatusActive    ReportStatus = "Active"
	ReportStatusRejected  ReportStatus = "Rejected"
	ReportStatusCompleted ReportStatus = "Completed"
)

// ReportNumberPrefix is prepended to report numbers that do not already carry it.
const ReportNumberPrefix = "WO"

// ReportFile is one attachment of a report. Files are ordered by upload time.
type ReportFile struct {
	FileID       string    `json:"fileID"` // Primary Key (UUID)
	OriginalName string    `json:"originalName"`
	StoragePath  string    `json:"storagePath"`
	MimeType     string    `json:"mimeType"`
	Size         int64     `json:"size"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

// Report is a work order record routed between admin, partner and customer.
// PartnerID is always set; CustomerID and UnitID narrow the association for
// recipient resolution.
type Report struct {
	ReportID     string       `json:"reportID"` // Primary Key (UUID)
	ReportNumber string       `json:"reportNumber"`
	VNNumber     string       `json:"vnNumber"`
	Status       ReportStatus `json:"status"`
	IsNew        bool         `json:"isNew"` // unread flag, partner-facing
	AdminNote    *string      `json:"adminNote,omitempty"`
	PartnerNote  *string      `json:"partnerNote,omitempty"`
	PartnerID    string       `json:"partnerID"`
	CustomerID   *string      `json:"customerID,omitempty"`
	UnitID       *string      `json:"unitID,omitempty"`
	Files        []ReportFile `json:"files"`
	AuditFields
}

// NormalizeReportNumber ensures the "WO" prefix. Idempotent: an input that
// already carries the prefix is returned unchanged.
func NormalizeReportNumber(reportNumber string) string {
	trimmed := strings.TrimSpace(reportNumber)
	if strings.HasPrefix(trimmed, ReportNumberPrefix) {
		return trimmed
	}
	return ReportNumberPrefix + trimmed
}

// ValidateReportStatus checks enum membership. An empty status is valid input
// at creation time and defaults to Active.
func ValidateReportStatus(status ReportStatus) error {
	switch status {
	case ReportStatusActive, ReportStatusRejected, ReportStatusCompleted:
		return nil
	}
	return fmt.Errorf("%w: invalid report status %q", apperrors.ErrValidation, status)
}
