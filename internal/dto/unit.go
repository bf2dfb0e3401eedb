package dto

import (
	"github.com/kvistberg/work_order_app/internal/core/domain"
)

// CreateUnitRequest defines the payload for creating a unit. Exactly one of
// CustomerID/PartnerID must be set; the service enforces the invariant.
type CreateUnitRequest struct {
	UnitName   string  `json:"unitName" binding:"required"`
	CustomerID *string `json:"customerID"`
	PartnerID  *string `json:"partnerID"`
}

// UpdateUnitRequest defines renames and reassignments. Supplying CustomerID
// moves the unit under that customer and clears the partner link; supplying
// PartnerID does the opposite. Supplying both assigns to the customer after
// verifying it belongs to the named partner.
type UpdateUnitRequest struct {
	UnitName   *string `json:"unitName"`
	CustomerID *string `json:"customerID"`
	PartnerID  *string `json:"partnerID"`
}

// UnitResponse is the public view of a unit.
type UnitResponse struct {
	UnitID     string  `json:"unitID"`
	UnitName   string  `json:"unitName"`
	CustomerID *string `json:"customerID,omitempty"`
	PartnerID  *string `json:"partnerID,omitempty"`
}

// UnitDetailResponse adds the unit's reports for the unit detail view.
type UnitDetailResponse struct {
	UnitResponse
	Reports []NestedReport `json:"reports"`
}

// ListUnitsResponse wraps the list of units.
type ListUnitsResponse struct {
	Units []UnitResponse `json:"units"`
}

// ToUnitResponse converts a domain.Unit to its response DTO.
func ToUnitResponse(u *domain.Unit) UnitResponse {
	return UnitResponse{
		UnitID:     u.UnitID,
		UnitName:   u.UnitName,
		CustomerID: u.CustomerID,
		PartnerID:  u.PartnerID,
	}
}

// ToUnitDetailResponse converts a unit and its reports to the detail DTO.
func ToUnitDetailResponse(u *domain.Unit, reports []domain.Report) UnitDetailResponse {
	return UnitDetailResponse{
		UnitResponse: ToUnitResponse(u),
		Reports:      ToNestedReports(reports),
	}
}

// ToListUnitsResponse converts a slice of units to the list DTO.
func ToListUnitsResponse(units []domain.Unit) ListUnitsResponse {
	out := make([]UnitResponse, len(units))
	for i := range units {
		out[i] = ToUnitResponse(&units[i])
	}
	return ListUnitsResponse{Units: out}
}
