package dto

import (
	"github.com/kvistberg/work_order_app/internal/core/domain"
)

// Nested dashboard views: names and flags only, assembled from batch lookups.

// NestedReport is the slim report row shown in the dashboard trees.
type NestedReport struct {
	ReportID     string `json:"reportID"`
	ReportNumber string `json:"reportNumber"`
	VNNumber     string `json:"vnNumber"`
	Status       string `json:"status"`
	IsNew        bool   `json:"isNew"`
}

// NestedUnit is a unit with its reports.
type NestedUnit struct {
	UnitID   string         `json:"unitID"`
	UnitName string         `json:"unitName"`
	Reports  []NestedReport `json:"reports"`
}

// NestedCustomer is a customer with its units and direct reports.
type NestedCustomer struct {
	CustomerID string         `json:"customerID"`
	Name       string         `json:"name"`
	Units      []NestedUnit   `json:"units"`
	Reports    []NestedReport `json:"reports"`
}

// NestedPartner is the root of a dashboard tree: one partner with customers,
// partner-level units and direct partner reports.
type NestedPartner struct {
	PartnerID string           `json:"partnerID"`
	Name      string           `json:"name"`
	Customers []NestedCustomer `json:"customers"`
	Units     []NestedUnit     `json:"units"`
	Reports   []NestedReport   `json:"reports"`
}

// ToNestedReport converts one report to its slim tree row.
func ToNestedReport(r *domain.Report) NestedReport {
	return NestedReport{
		ReportID:     r.ReportID,
		ReportNumber: r.ReportNumber,
		VNNumber:     r.VNNumber,
		Status:       string(r.Status),
		IsNew:        r.IsNew,
	}
}

// ToNestedReports converts a slice of reports to tree rows.
func ToNestedReports(reports []domain.Report) []NestedReport {
	out := make([]NestedReport, len(reports))
	for i := range reports {
		out[i] = ToNestedReport(&reports[i])
	}
	return out
}
