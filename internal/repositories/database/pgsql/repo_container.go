package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/kvistberg/work_order_app/internal/core/ports/repositories"
)

// NewRepositoryProvider wires the pgx-backed repositories into the provider
// consumed by the service layer.
func NewRepositoryProvider(db *pgxpool.Pool) *portsrepo.RepositoryProvider {
	return &portsrepo.RepositoryProvider{
		AdminRepo:    newPgxAdminRepository(db),
		PartnerRepo:  newPgxPartnerRepository(db),
		CustomerRepo: newPgxCustomerRepository(db),
		UnitRepo:     newPgxUnitRepository(db),
		ReportRepo:   newPgxReportRepository(db),
	}
}
