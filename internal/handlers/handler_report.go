package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/kvistberg/work_order_app/internal/core/domain"
	portssvc "github.com/kvistberg/work_order_app/internal/core/ports/services"
	"github.com/kvistberg/work_order_app/internal/dto"
	"github.com/kvistberg/work_order_app/internal/middleware"
	"github.com/kvistberg/work_order_app/internal/platform/config"
)

// reportHandler handles HTTP requests related to reports.
type reportHandler struct {
	reportService  portssvc.ReportSvcFacade
	maxUploadSize  int64
	maxUploadFiles int
}

func newReportHandler(rs portssvc.ReportSvcFacade, cfg *config.Config) *reportHandler {
	return &reportHandler{
		reportService:  rs,
		maxUploadSize:  cfg.MaxUploadSize,
		maxUploadFiles: cfg.MaxUploadFiles,
	}
}

// RegisterReportRoutes registers routes related to reports.
func RegisterReportRoutes(rg *gin.RouterGroup, reportService portssvc.ReportSvcFacade, cfg *config.Config) {
	h := newReportHandler(reportService, cfg)

	reports := rg.Group("/reports")
	{
		reports.POST("", middleware.AdminOnly(), h.createReport)
		reports.GET("", h.listReports)
		reports.GET("/:reportID", h.getReportByID)
		reports.PUT("/:reportID", middleware.AdminOnly(), h.updateReport)
		reports.DELETE("/:reportID", middleware.AdminOnly(), h.deleteReport)
		reports.PATCH("/:reportID/partner-note", middleware.PartnerOnly(), h.updatePartnerNote)
		reports.POST("/:reportID/read", middleware.PartnerOnly(), h.markReportRead)
		reports.POST("/:reportID/send-customer", middleware.PartnerOnly(), h.sendReportToCustomer)
		reports.POST("/:reportID/send-partner", middleware.AdminOnly(), h.sendReportToPartner)
		reports.POST("/:reportID/files", middleware.AdminOnly(), h.addReportFiles)
		reports.GET("/:reportID/files/:fileID", h.downloadReportFile)
		reports.DELETE("/:reportID/files/:fileID", middleware.AdminOnly(), h.deleteReportFile)
	}
}

// createReport godoc
// @Summary Create a new report
// @Description Creates a report with uploaded files. With sendEmail=true the owning partner is notified; a failed notification still returns 201.
// @Tags reports
// @Accept multipart/form-data
// @Produce json
// @Param reportNumber formData string true "Report number; WO prefix added when missing"
// @Param vnNumber formData string true "VN number"
// @Param partnerID formData string true "Owning partner"
// @Param customerID formData string false "Customer association"
// @Param unitID formData string false "Unit association"
// @Param adminNote formData string false "Admin note"
// @Param status formData string false "Active, Rejected or Completed"
// @Param sendEmail formData bool false "Notify the partner by email"
// @Param files formData file false "Attachments"
// @Success 201 {object} dto.CreateReportResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Association outside the partner's subtree"
// @Security BearerAuth
// @Router /reports [post]
func (h *reportHandler) createReport(c *gin.Context) {
	principal, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.CreateReportRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	uploads, cleanup, err := h.collectUploads(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	defer cleanup()

	result, err := h.reportService.CreateReport(c.Request.Context(), principal.ID, req, uploads)
	if err != nil {
		respondServiceError(c, err, "Failed to create report")
		return
	}

	msg := "Report created"
	if result.NotifyFailed {
		msg = "Report created, but the partner notification could not be sent"
	}
	c.JSON(http.StatusCreated, dto.CreateReportResponse{
		Message: msg,
		Report:  dto.ToReportResponse(result.Report),
	})
}

// listReports godoc
// @Summary List reports
// @Description Admins get every report under their partners; a partner gets its own reports.
// @Tags reports
// @Produce json
// @Success 200 {object} dto.ListReportsResponse
// @Security BearerAuth
// @Router /reports [get]
func (h *reportHandler) listReports(c *gin.Context) {
	principal, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var (
		reports []domain.Report
		err     error
	)
	if principal.IsAdmin() {
		reports, err = h.reportService.ListReports(c.Request.Context(), principal.ID)
	} else {
		reports, err = h.reportService.ListPartnerReports(c.Request.Context(), principal.ID)
	}
	if err != nil {
		respondServiceError(c, err, "Failed to list reports")
		return
	}
	c.JSON(http.StatusOK, dto.ToListReportsResponse(reports))
}

// getReportByID godoc
// @Summary Get a report
// @Description Retrieves one report after an ownership check.
// @Tags reports
// @Produce json
// @Param reportID path string true "Report ID"
// @Success 200 {object} dto.ReportResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/{reportID} [get]
func (h *reportHandler) getReportByID(c *gin.Context) {
	principal, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	report, err := h.reportService.GetReportByID(c.Request.Context(), principal, c.Param("reportID"))
	if err != nil {
		respondServiceError(c, err, "Failed to retrieve report")
		return
	}
	c.JSON(http.StatusOK, dto.ToReportResponse(report))
}

// updateReport godoc
// @Summary Update a report
// @Description Overwrites report fields. Association changes re-validate ownership of the new partner, customer or unit.
// @Tags reports
// @Accept json
// @Produce json
// @Param reportID path string true "Report ID"
// @Param report body dto.UpdateReportRequest true "Fields to update"
// @Success 200 {object} dto.ReportResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/{reportID} [put]
func (h *reportHandler) updateReport(c *gin.Context) {
	principal, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdateReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	report, err := h.reportService.UpdateReport(c.Request.Context(), principal.ID, c.Param("reportID"), req)
	if err != nil {
		respondServiceError(c, err, "Failed to update report")
		return
	}
	c.JSON(http.StatusOK, dto.ToReportResponse(report))
}

// updatePartnerNote godoc
// @Summary Set the partner note
// @Description Updates the partner-facing note on the partner's own report.
// @Tags reports
// @Accept json
// @Produce json
// @Param reportID path string true "Report ID"
// @Param note body dto.UpdatePartnerNoteRequest true "Partner note"
// @Success 200 {object} dto.ReportResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/{reportID}/partner-note [patch]
func (h *reportHandler) updatePartnerNote(c *gin.Context) {
	principal, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	var req dto.UpdatePartnerNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	report, err := h.reportService.UpdatePartnerNote(c.Request.Context(), principal.ID, c.Param("reportID"), req.PartnerNote)
	if err != nil {
		respondServiceError(c, err, "Failed to update partner note")
		return
	}
	c.JSON(http.StatusOK, dto.ToReportResponse(report))
}

// markReportRead godoc
// @Summary Mark a report read
// @Description Clears the unread flag on the partner's own report. The flag never reverts.
// @Tags reports
// @Param reportID path string true "Report ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/{reportID}/read [post]
func (h *reportHandler) markReportRead(c *gin.Context) {
	principal, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.reportService.MarkReportRead(c.Request.Context(), principal.ID, c.Param("reportID")); err != nil {
		respondServiceError(c, err, "Failed to mark report read")
		return
	}
	c.Status(http.StatusNoContent)
}

// sendReportToCustomer godoc
// @Summary Send a report to its customer
// @Description Emails the report with attachments to the resolved customer, then clears the unread flag. A delivery failure leaves the flag untouched.
// @Tags reports
// @Param reportID path string true "Report ID"
// @Success 204
// @Failure 400 {object} ErrorResponse "No customer recipient"
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse "Delivery failed"
// @Security BearerAuth
// @Router /reports/{reportID}/send-customer [post]
func (h *reportHandler) sendReportToCustomer(c *gin.Context) {
	principal, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.reportService.SendReportToCustomer(c.Request.Context(), principal.ID, c.Param("reportID")); err != nil {
		respondServiceError(c, err, "Failed to send report")
		return
	}
	c.Status(http.StatusNoContent)
}

// sendReportToPartner godoc
// @Summary Send a report to its partner
// @Description Emails the report with attachments to the owning partner.
// @Tags reports
// @Param reportID path string true "Report ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Failure 502 {object} ErrorResponse "Delivery failed"
// @Security BearerAuth
// @Router /reports/{reportID}/send-partner [post]
func (h *reportHandler) sendReportToPartner(c *gin.Context) {
	principal, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.reportService.SendReportToPartner(c.Request.Context(), principal.ID, c.Param("reportID")); err != nil {
		respondServiceError(c, err, "Failed to send report")
		return
	}
	c.Status(http.StatusNoContent)
}

// addReportFiles godoc
// @Summary Attach files to a report
// @Description Uploads additional files onto an existing report.
// @Tags reports
// @Accept multipart/form-data
// @Produce json
// @Param reportID path string true "Report ID"
// @Param files formData file true "Attachments"
// @Success 200 {object} dto.ReportResponse
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/{reportID}/files [post]
func (h *reportHandler) addReportFiles(c *gin.Context) {
	principal, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	uploads, cleanup, err := h.collectUploads(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error()})
		return
	}
	defer cleanup()
	if len(uploads) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "No files uploaded"})
		return
	}

	report, err := h.reportService.AddReportFiles(c.Request.Context(), principal.ID, c.Param("reportID"), uploads)
	if err != nil {
		respondServiceError(c, err, "Failed to attach files")
		return
	}
	c.JSON(http.StatusOK, dto.ToReportResponse(report))
}

// downloadReportFile godoc
// @Summary Download a report attachment
// @Description Streams one attachment after an ownership check.
// @Tags reports
// @Produce octet-stream
// @Param reportID path string true "Report ID"
// @Param fileID path string true "File ID"
// @Success 200 {file} binary
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/{reportID}/files/{fileID} [get]
func (h *reportHandler) downloadReportFile(c *gin.Context) {
	principal, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	file, rc, err := h.reportService.OpenReportFile(c.Request.Context(), principal, c.Param("reportID"), c.Param("fileID"))
	if err != nil {
		respondServiceError(c, err, "Failed to open file")
		return
	}
	defer rc.Close()

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.OriginalName))
	c.Header("Content-Length", strconv.FormatInt(file.Size, 10))
	c.DataFromReader(http.StatusOK, file.Size, file.MimeType, rc, nil)
}

// deleteReportFile godoc
// @Summary Delete a report attachment
// @Description Detaches one file and releases its backing storage.
// @Tags reports
// @Param reportID path string true "Report ID"
// @Param fileID path string true "File ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/{reportID}/files/{fileID} [delete]
func (h *reportHandler) deleteReportFile(c *gin.Context) {
	principal, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.reportService.DeleteReportFile(c.Request.Context(), principal.ID, c.Param("reportID"), c.Param("fileID")); err != nil {
		respondServiceError(c, err, "Failed to delete file")
		return
	}
	c.Status(http.StatusNoContent)
}

// deleteReport godoc
// @Summary Delete a report
// @Description Removes the report, its file records and their stored blobs.
// @Tags reports
// @Param reportID path string true "Report ID"
// @Success 204
// @Failure 403 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Security BearerAuth
// @Router /reports/{reportID} [delete]
func (h *reportHandler) deleteReport(c *gin.Context) {
	principal, ok := middleware.GetPrincipalFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	if err := h.reportService.DeleteReport(c.Request.Context(), principal.ID, c.Param("reportID")); err != nil {
		respondServiceError(c, err, "Failed to delete report")
		return
	}
	c.Status(http.StatusNoContent)
}

// collectUploads opens the "files" multipart field, enforcing per-file size
// and file-count limits. The returned cleanup closes every opened file.
func (h *reportHandler) collectUploads(c *gin.Context) ([]dto.UploadedFile, func(), error) {
	cleanup := func() {}
	form, err := c.MultipartForm()
	if err != nil {
		if err == http.ErrNotMultipart {
			return nil, cleanup, nil
		}
		return nil, cleanup, fmt.Errorf("invalid multipart form: %w", err)
	}

	headers := form.File["files"]
	if len(headers) > h.maxUploadFiles {
		return nil, cleanup, fmt.Errorf("too many files: at most %d allowed", h.maxUploadFiles)
	}

	uploads := make([]dto.UploadedFile, 0, len(headers))
	opened := make([]interface{ Close() error }, 0, len(headers))
	cleanup = func() {
		for _, f := range opened {
			f.Close()
		}
	}

	for _, fh := range headers {
		if fh.Size > h.maxUploadSize {
			cleanup()
			return nil, func() {}, fmt.Errorf("file %s exceeds the %d byte limit", fh.Filename, h.maxUploadSize)
		}
		f, err := fh.Open()
		if err != nil {
			cleanup()
			return nil, func() {}, fmt.Errorf("failed to open upload %s: %w", fh.Filename, err)
		}
		opened = append(opened, f)
		uploads = append(uploads, dto.UploadedFile{
			OriginalName: fh.Filename,
			MimeType:     fh.Header.Get("Content-Type"),
			Size:         fh.Size,
			Content:      f,
		})
	}
	return uploads, cleanup, nil
}
