package dto

import (
	"io"
	"time"

	"github.com/kvistberg/work_order_app/internal/core/domain"
)

// CreateReportRequest carries the multipart form fields of report creation.
// The report number is normalized to the "WO" prefix before persistence.
type CreateReportRequest struct {
	ReportNumber string  `form:"reportNumber" binding:"required"`
	VNNumber     string  `form:"vnNumber" binding:"required"`
	AdminNote    *string `form:"adminNote"`
	Status       string  `form:"status" binding:"omitempty,reportstatus"`
	PartnerID    string  `form:"partnerID" binding:"required"`
	CustomerID   *string `form:"customerID"`
	UnitID       *string `form:"unitID"`
	SendEmail    bool    `form:"sendEmail"`
}

// UpdateReportRequest defines admin-driven report updates. The status field is
// freely overwritten; only enum membership is checked.
type UpdateReportRequest struct {
	ReportNumber *string `json:"reportNumber"`
	VNNumber     *string `json:"vnNumber"`
	AdminNote    *string `json:"adminNote"`
	PartnerNote  *string `json:"partnerNote"`
	Status       *string `json:"status" binding:"omitempty,reportstatus"`
	PartnerID    *string `json:"partnerID"`
	CustomerID   *string `json:"customerID"`
	UnitID       *string `json:"unitID"` // empty string detaches the unit
}

// UpdatePartnerNoteRequest defines the partner-facing note update.
type UpdatePartnerNoteRequest struct {
	PartnerNote string `json:"partnerNote" binding:"required"`
}

// UploadedFile is one multipart upload handed from handler to service.
type UploadedFile struct {
	OriginalName string
	MimeType     string
	Size         int64
	Content      io.Reader
}

// ReportFileResponse is the public view of one attachment.
type ReportFileResponse struct {
	FileID       string    `json:"fileID"`
	OriginalName string    `json:"originalName"`
	MimeType     string    `json:"mimeType"`
	Size         int64     `json:"size"`
	UploadedAt   time.Time `json:"uploadedAt"`
}

// ReportResponse is the public view of a report.
type ReportResponse struct {
	ReportID     string               `json:"reportID"`
	ReportNumber string               `json:"reportNumber"`
	VNNumber     string               `json:"vnNumber"`
	Status       string               `json:"status"`
	IsNew        bool                 `json:"isNew"`
	AdminNote    *string              `json:"adminNote,omitempty"`
	PartnerNote  *string              `json:"partnerNote,omitempty"`
	PartnerID    string               `json:"partnerID"`
	CustomerID   *string              `json:"customerID,omitempty"`
	UnitID       *string              `json:"unitID,omitempty"`
	Files        []ReportFileResponse `json:"files"`
	CreatedAt    time.Time            `json:"createdAt"`
}

// CreateReportResponse reports creation together with the notification
// outcome; a failed partner notification is a partial success, never an error.
type CreateReportResponse struct {
	Message string         `json:"message"`
	Report  ReportResponse `json:"report"`
}

// ListReportsResponse wraps the list of reports.
type ListReportsResponse struct {
	Reports []ReportResponse `json:"reports"`
}

// ToReportFileResponse converts one attachment record.
func ToReportFileResponse(f domain.ReportFile) ReportFileResponse {
	return ReportFileResponse{
		FileID:       f.FileID,
		OriginalName: f.OriginalName,
		MimeType:     f.MimeType,
		Size:         f.Size,
		UploadedAt:   f.UploadedAt,
	}
}

// ToReportResponse converts a domain.Report to its response DTO.
func ToReportResponse(r *domain.Report) ReportResponse {
	files := make([]ReportFileResponse, len(r.Files))
	for i, f := range r.Files {
		files[i] = ToReportFileResponse(f)
	}
	return ReportResponse{
		ReportID:     r.ReportID,
		ReportNumber: r.ReportNumber,
		VNNumber:     r.VNNumber,
		Status:       string(r.Status),
		IsNew:        r.IsNew,
		AdminNote:    r.AdminNote,
		PartnerNote:  r.PartnerNote,
		PartnerID:    r.PartnerID,
		CustomerID:   r.CustomerID,
		UnitID:       r.UnitID,
		Files:        files,
		CreatedAt:    r.CreatedAt,
	}
}

// ToListReportsResponse converts a slice of reports to the list DTO.
func ToListReportsResponse(reports []domain.Report) ListReportsResponse {
	out := make([]ReportResponse, len(reports))
	for i := range reports {
		out[i] = ToReportResponse(&reports[i])
	}
	return ListReportsResponse{Reports: out}
}
