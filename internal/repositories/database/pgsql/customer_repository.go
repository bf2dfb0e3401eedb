package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kvistberg/work_order_app/internal/apperrors"
	"github.com/kvistberg/work_order_app/internal/core/domain"
	portsrepo "github.com/kvistberg/work_order_app/internal/core/ports/repositories"
	"github.com/kvistberg/work_order_app/internal/models"
)

type PgxCustomerRepository struct {
	db *pgxpool.Pool
}

func newPgxCustomerRepository(db *pgxpool.Pool) portsrepo.CustomerRepositoryFacade {
	return &PgxCustomerRepository{db: db}
}

var _ portsrepo.CustomerRepositoryFacade = (*PgxCustomerRepository)(nil)

func toModelCustomer(d domain.Customer) models.Customer {
	return models.Customer{
		CustomerID: d.CustomerID,
		Name:       d.Name,
		Email:      strings.ToLower(d.Email),
		PartnerID:  d.PartnerID,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			LastUpdatedAt: d.LastUpdatedAt,
		},
	}
}

func toDomainCustomer(m models.Customer) domain.Customer {
	return domain.Customer{
		CustomerID: m.CustomerID,
		Name:       m.Name,
		Email:      m.Email,
		PartnerID:  m.PartnerID,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
}

const customerColumns = `customer_id, name, email, partner_id, created_at, last_updated_at`

func scanCustomerRow(row pgx.Row) (*domain.Customer, error) {
	var m models.Customer
	err := row.Scan(&m.CustomerID, &m.Name, &m.Email, &m.PartnerID, &m.CreatedAt, &m.LastUpdatedAt)
	if err != nil {
		return nil, err
	}
	d := toDomainCustomer(m)
	return &d, nil
}

func (r *PgxCustomerRepository) SaveCustomer(ctx context.Context, customer domain.Customer) error {
	m := toModelCustomer(customer)
	query := `
        INSERT INTO customers (customer_id, name, email, partner_id, created_at, last_updated_at)
        VALUES ($1, $2, $3, $4, $5, $6);
    `
	_, err := r.db.Exec(ctx, query, m.CustomerID, m.Name, m.Email, m.PartnerID, m.CreatedAt, m.LastUpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save customer: %w", err)
	}
	return nil
}

func (r *PgxCustomerRepository) FindCustomerByID(ctx context.Context, customerID string) (*domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE customer_id = $1;`
	c, err := scanCustomerRow(r.db.QueryRow(ctx, query, customerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find customer by ID %s: %w", customerID, err)
	}
	return c, nil
}

func (r *PgxCustomerRepository) ListCustomersByPartnerID(ctx context.Context, partnerID string) ([]domain.Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE partner_id = $1 ORDER BY created_at DESC;`
	return r.queryCustomers(ctx, query, partnerID)
}

func (r *PgxCustomerRepository) ListCustomersByPartnerIDs(ctx context.Context, partnerIDs []string) ([]domain.Customer, error) {
	if len(partnerIDs) == 0 {
		return []domain.Customer{}, nil
	}
	query := `SELECT ` + customerColumns + ` FROM customers WHERE partner_id = ANY($1) ORDER BY created_at DESC;`
	return r.queryCustomers(ctx, query, partnerIDs)
}

func (r *PgxCustomerRepository) queryCustomers(ctx context.Context, query string, arg any) ([]domain.Customer, error) {
	rows, err := r.db.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	customers := []domain.Customer{}
	for rows.Next() {
		c, err := scanCustomerRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer row: %w", err)
		}
		customers = append(customers, *c)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating customer rows: %w", rows.Err())
	}
	return customers, nil
}

func (r *PgxCustomerRepository) UpdateCustomer(ctx context.Context, customer domain.Customer) error {
	m := toModelCustomer(customer)
	query := `
        UPDATE customers
        SET name = $2, email = $3, last_updated_at = $4
        WHERE customer_id = $1;
    `
	tag, err := r.db.Exec(ctx, query, m.CustomerID, m.Name, m.Email, m.LastUpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to update customer %s: %w", m.CustomerID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteCustomerCascade removes the customer, its units and every report
// referencing either, in one transaction.
func (r *PgxCustomerRepository) DeleteCustomerCascade(ctx context.Context, customerID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin cascade transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	steps := []string{
		`DELETE FROM report_files WHERE report_id IN (
			SELECT report_id FROM reports
			WHERE customer_id = $1 OR unit_id IN (SELECT unit_id FROM units WHERE customer_id = $1)
		);`,
		`DELETE FROM reports WHERE customer_id = $1 OR unit_id IN (SELECT unit_id FROM units WHERE customer_id = $1);`,
		`DELETE FROM units WHERE customer_id = $1;`,
	}
	for _, step := range steps {
		if _, err := tx.Exec(ctx, step, customerID); err != nil {
			return fmt.Errorf("%w: customer %s: %v", apperrors.ErrPartialCascade, customerID, err)
		}
	}

	tag, err := tx.Exec(ctx, `DELETE FROM customers WHERE customer_id = $1;`, customerID)
	if err != nil {
		return fmt.Errorf("%w: customer %s: %v", apperrors.ErrPartialCascade, customerID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: customer %s: %v", apperrors.ErrPartialCascade, customerID, err)
	}
	return nil
}
