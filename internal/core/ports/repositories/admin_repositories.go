package repositories

import (
	"context"

	"github.com/kvistberg/work_order_app/internal/core/domain"
)

// AdminReader defines read operations for admin principals.
type AdminReader interface {
	// FindAdminByID retrieves a specific admin by ID.
	FindAdminByID(ctx context.Context, adminID string) (*domain.Admin, error)

	// FindAdminByEmail retrieves an admin by lowercase email.
	FindAdminByEmail(ctx context.Context, email string) (*domain.Admin, error)
}

// AdminWriter defines write operations for admin principals.
type AdminWriter interface {
	// SaveAdmin persists a new admin. Returns apperrors.ErrDuplicate when the
	// email is already taken.
	SaveAdmin(ctx context.Context, admin domain.Admin) error
}

// AdminRepositoryFacade combines all admin repository interfaces.
type AdminRepositoryFacade interface {
	AdminReader
	AdminWriter
}
