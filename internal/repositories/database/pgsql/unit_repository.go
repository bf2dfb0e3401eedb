package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kvistberg/work_order_app/internal/apperrors"
	"github.com/kvistberg/work_order_app/internal/core/domain"
	portsrepo "github.com/kvistberg/work_order_app/internal/core/ports/repositories"
	"github.com/kvistberg/work_order_app/internal/models"
)

type PgxUnitRepository struct {
	db *pgxpool.Pool
}

func newPgxUnitRepository(db *pgxpool.Pool) portsrepo.UnitRepositoryFacade {
	return &PgxUnitRepository{db: db}
}

var _ portsrepo.UnitRepositoryFacade = (*PgxUnitRepository)(nil)

func toDomainUnit(m models.Unit) domain.Unit {
	return domain.Unit{
		UnitID:     m.UnitID,
		UnitName:   m.UnitName,
		CustomerID: m.CustomerID,
		PartnerID:  m.PartnerID,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
}

const unitColumns = `unit_id, unit_name, customer_id, partner_id, created_at, last_updated_at`

func scanUnitRow(row pgx.Row) (*domain.Unit, error) {
	var m models.Unit
	err := row.Scan(&m.UnitID, &m.UnitName, &m.CustomerID, &m.PartnerID, &m.CreatedAt, &m.LastUpdatedAt)
	if err != nil {
		return nil, err
	}
	d := toDomainUnit(m)
	return &d, nil
}

func (r *PgxUnitRepository) SaveUnit(ctx context.Context, unit domain.Unit) error {
	query := `
        INSERT INTO units (unit_id, unit_name, customer_id, partner_id, created_at, last_updated_at)
        VALUES ($1, $2, $3, $4, $5, $6);
    `
	_, err := r.db.Exec(ctx, query, unit.UnitID, unit.UnitName, unit.CustomerID, unit.PartnerID, unit.CreatedAt, unit.LastUpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save unit: %w", err)
	}
	return nil
}

func (r *PgxUnitRepository) FindUnitByID(ctx context.Context, unitID string) (*domain.Unit, error) {
	query := `SELECT ` + unitColumns + ` FROM units WHERE unit_id = $1;`
	u, err := scanUnitRow(r.db.QueryRow(ctx, query, unitID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find unit by ID %s: %w", unitID, err)
	}
	return u, nil
}

func (r *PgxUnitRepository) ListUnitsByCustomerID(ctx context.Context, customerID string) ([]domain.Unit, error) {
	query := `SELECT ` + unitColumns + ` FROM units WHERE customer_id = $1 ORDER BY created_at DESC;`
	return r.queryUnits(ctx, query, customerID)
}

func (r *PgxUnitRepository) ListUnitsByPartnerID(ctx context.Context, partnerID string) ([]domain.Unit, error) {
	query := `SELECT ` + unitColumns + ` FROM units WHERE partner_id = $1 ORDER BY created_at DESC;`
	return r.queryUnits(ctx, query, partnerID)
}

func (r *PgxUnitRepository) ListUnitsByCustomerIDs(ctx context.Context, customerIDs []string) ([]domain.Unit, error) {
	if len(customerIDs) == 0 {
		return []domain.Unit{}, nil
	}
	query := `SELECT ` + unitColumns + ` FROM units WHERE customer_id = ANY($1) ORDER BY created_at DESC;`
	return r.queryUnits(ctx, query, customerIDs)
}

func (r *PgxUnitRepository) ListUnitsByPartnerIDs(ctx context.Context, partnerIDs []string) ([]domain.Unit, error) {
	if len(partnerIDs) == 0 {
		return []domain.Unit{}, nil
	}
	query := `SELECT ` + unitColumns + ` FROM units WHERE partner_id = ANY($1) ORDER BY created_at DESC;`
	return r.queryUnits(ctx, query, partnerIDs)
}

func (r *PgxUnitRepository) queryUnits(ctx context.Context, query string, arg any) ([]domain.Unit, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query units: %w", err)
	}
	defer rows.Close()

	units := []domain.Unit{}
	for rows.Next() {
		u, err := scanUnitRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan unit row: %w", err)
		}
		units = append(units, *u)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating unit rows: %w", rows.Err())
	}
	return units, nil
}

// UpdateUnit writes both association columns in one statement so a
// reassignment can never be observed half-applied.
func (r *PgxUnitRepository) UpdateUnit(ctx context.Context, unit domain.Unit) error {
	query := `
        UPDATE units
        SET unit_name = $2, customer_id = $3, partner_id = $4, last_updated_at = $5
        WHERE unit_id = $1;
    `
	tag, err := r.db.Exec(ctx, query, unit.UnitID, unit.UnitName, unit.CustomerID, unit.PartnerID, unit.LastUpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update unit %s: %w", unit.UnitID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteUnitCascade removes the unit and all reports referencing it in one
// transaction.
func (r *PgxUnitRepository) DeleteUnitCascade(ctx context.Context, unitID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin cascade transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	steps := []string{
		`DELETE FROM report_files WHERE report_id IN (SELECT report_id FROM reports WHERE unit_id = $1);`,
		`DELETE FROM reports WHERE unit_id = $1;`,
	}
	for _, step := range steps {
		if _, err := tx.Exec(ctx, step, unitID); err != nil {
			return fmt.Errorf("%w: unit %s: %v", apperrors.ErrPartialCascade, unitID, err)
		}
	}

	tag, err := tx.Exec(ctx, `DELETE FROM units WHERE unit_id = $1;`, unitID)
	if err != nil {
		return fmt.Errorf("%w: unit %s: %v", apperrors.ErrPartialCascade, unitID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: unit %s: %v", apperrors.ErrPartialCascade, unitID, err)
	}
	return nil
}
