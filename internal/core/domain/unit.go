package domain

import (
	"fmt"

	"github.com/kvistberg/work_order_app/internal/apperrors"
)

// Unit groups reports either under a customer or directly under a partner.
// Exactly one of CustomerID/PartnerID is set; ValidateAssociation enforces the
// invariant at write time, and the schema carries a matching CHECK constraint.
type Unit struct {
	UnitID     string  `json:"unitID"` // Primary Key (UUID)
	UnitName   string  `json:"unitName"`
	CustomerID *string `json:"customerID,omitempty"`
	PartnerID  *string `json:"partnerID,omitempty"`
	AuditFields
}

// ValidateAssociation rejects units associated with both a customer and a
// partner, or with neither.
func (u Unit) ValidateAssociation() error {
	hasCustomer := u.CustomerID != nil && *u.CustomerID != ""
	hasPartner := u.PartnerID != nil && *u.PartnerID != ""
	if hasCustomer && hasPartner {
		return fmt.Errorf("%w: unit cannot be associated with both a customer and a partner", apperrors.ErrValidation)
	}
	if !hasCustomer && !hasPartner {
		return fmt.Errorf("%w: unit must be associated with either a customer or a partner", apperrors.ErrValidation)
	}
	return nil
}
