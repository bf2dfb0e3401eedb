package dto

import (
	"time"

	"github.com/kvistberg/work_order_app/internal/core/domain"
)

// AdminSignupRequest defines the payload for creating an admin account.
type AdminSignupRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// LoginRequest defines the credentials payload for both admin and partner login.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// PrincipalResponse is the public view of the logged-in account.
type PrincipalResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// LoginResponse carries the bearer token and the account it belongs to.
// ExpiresAt is omitted when token expiry is disabled by configuration.
type LoginResponse struct {
	Token     string            `json:"token"`
	ExpiresAt *time.Time        `json:"expiresAt,omitempty"`
	User      PrincipalResponse `json:"user"`
}

// ToAdminPrincipalResponse converts an admin to its public login view.
func ToAdminPrincipalResponse(a *domain.Admin) PrincipalResponse {
	return PrincipalResponse{ID: a.AdminID, Name: a.Name, Email: a.Email, Role: string(domain.RoleAdmin)}
}

// ToPartnerPrincipalResponse converts a partner to its public login view.
func ToPartnerPrincipalResponse(p *domain.Partner) PrincipalResponse {
	return PrincipalResponse{ID: p.PartnerID, Name: p.Name, Email: p.Email, Role: string(domain.RolePartner)}
}
