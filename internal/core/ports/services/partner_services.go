package services

import (
	"context"

	"github.com/kvistberg/work_order_app/internal/core/domain"
	"github.com/kvistberg/work_order_app/internal/dto"
)

// PartnerSvcFacade manages partner accounts and the nested dashboard trees.
type PartnerSvcFacade interface {
	// CreatePartner creates a partner owned by the admin.
	CreatePartner(ctx context.Context, adminID string, req dto.CreatePartnerRequest) (*domain.Partner, error)

	// GetPartnerByID retrieves a partner after an ownership check.
	GetPartnerByID(ctx context.Context, principal domain.Principal, partnerID string) (*domain.Partner, error)

	// ListPartners retrieves all partners of the admin.
	ListPartners(ctx context.Context, adminID string) ([]domain.Partner, error)

	// UpdatePartner updates partner details after an ownership check.
	UpdatePartner(ctx context.Context, principal domain.Principal, partnerID string, req dto.UpdatePartnerRequest) (*domain.Partner, error)

	// UpdatePartnerPassword replaces a partner's password (admin action).
	UpdatePartnerPassword(ctx context.Context, principal domain.Principal, partnerID string, newPassword string) error

	// DeletePartner cascade-deletes the partner and all descendant data.
	DeletePartner(ctx context.Context, principal domain.Principal, partnerID string) error

	// GetAdminNestedTree builds the admin dashboard tree: every partner with
	// its customers, units and reports, names and flags only.
	GetAdminNestedTree(ctx context.Context, adminID string) ([]dto.NestedPartner, error)

	// GetPartnerNestedTree builds the same tree for a single partner's dashboard.
	GetPartnerNestedTree(ctx context.Context, partnerID string) ([]dto.NestedPartner, error)
}
