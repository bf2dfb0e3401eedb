package dto

import (
	"github.com/kvistberg/work_order_app/internal/core/domain"
)

// CreatePartnerRequest defines the payload for creating a partner account.
type CreatePartnerRequest struct {
	Name          string  `json:"name" binding:"required"`
	Email         string  `json:"email" binding:"required,email"`
	Password      string  `json:"password" binding:"required,min=8"`
	PersonName    *string `json:"personName"`
	PersonContact *string `json:"personContact"`
}

// UpdatePartnerRequest defines the data allowed for updating a partner.
// Pointers differentiate omitted fields from zero values; PersonName and
// PersonContact may be cleared by sending empty strings.
type UpdatePartnerRequest struct {
	Name          *string `json:"name"`
	Email         *string `json:"email" binding:"omitempty,email"`
	PersonName    *string `json:"personName"`
	PersonContact *string `json:"personContact"`
}

// UpdatePartnerPasswordRequest defines the admin-driven password replacement.
type UpdatePartnerPasswordRequest struct {
	Password string `json:"password" binding:"required,min=8"`
}

// PartnerResponse is the public view of a partner (never the password hash).
type PartnerResponse struct {
	PartnerID     string  `json:"partnerID"`
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	PersonName    *string `json:"personName,omitempty"`
	PersonContact *string `json:"personContact,omitempty"`
	AdminID       string  `json:"adminID"`
}

// ListPartnersResponse wraps the list of partners.
type ListPartnersResponse struct {
	Partners []PartnerResponse `json:"partners"`
}

// ToPartnerResponse converts a domain.Partner to its response DTO.
func ToPartnerResponse(p *domain.Partner) PartnerResponse {
	return PartnerResponse{
		PartnerID:     p.PartnerID,
		Name:          p.Name,
		Email:         p.Email,
		PersonName:    p.PersonName,
		PersonContact: p.PersonContact,
		AdminID:       p.AdminID,
	}
}

// ToListPartnersResponse converts a slice of partners to the list DTO.
func ToListPartnersResponse(partners []domain.Partner) ListPartnersResponse {
	out := make([]PartnerResponse, len(partners))
	for i := range partners {
		out[i] = ToPartnerResponse(&partners[i])
	}
	return ListPartnersResponse{Partners: out}
}
