package repositories

import (
	"context"

	"github.com/kvistberg/work_order_app/internal/core/domain"
)

// PartnerReader defines read operations for partner data.
type PartnerReader interface {
	// FindPartnerByID retrieves a specific partner by ID.
	FindPartnerByID(ctx context.Context, partnerID string) (*domain.Partner, error)

	// FindPartnerByEmail retrieves a partner by lowercase email.
	FindPartnerByEmail(ctx context.Context, email string) (*domain.Partner, error)

	// ListPartnersByAdminID retrieves all partners owned by an admin.
	ListPartnersByAdminID(ctx context.Context, adminID string) ([]domain.Partner, error)
}

// PartnerWriter defines write operations for partner data.
type PartnerWriter interface {
	// SavePartner persists a new partner.
	SavePartner(ctx context.Context, partner domain.Partner) error

	// UpdatePartner updates an existing partner's details.
	UpdatePartner(ctx context.Context, partner domain.Partner) error

	// UpdatePartnerPassword replaces the partner's password hash.
	UpdatePartnerPassword(ctx context.Context, partnerID string, passwordHash string) error
}

// PartnerLifecycleManager defines destructive lifecycle operations.
type PartnerLifecycleManager interface {
	// DeletePartnerCascade deletes the partner and every descendant customer,
	// unit and report in one transaction. A mid-cascade failure rolls back and
	// surfaces as apperrors.ErrPartialCascade.
	DeletePartnerCascade(ctx context.Context, partnerID string) error
}

// PartnerRepositoryFacade combines all partner repository interfaces.
type PartnerRepositoryFacade interface {
	PartnerReader
	PartnerWriter
	PartnerLifecycleManager
}
