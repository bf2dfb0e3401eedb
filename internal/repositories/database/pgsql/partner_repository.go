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

type PgxPartnerRepository struct {
	db *pgxpool.Pool
}

func newPgxPartnerRepository(db *pgxpool.Pool) portsrepo.PartnerRepositoryFacade {
	return &PgxPartnerRepository{db: db}
}

var _ portsrepo.PartnerRepositoryFacade = (*PgxPartnerRepository)(nil)

func toModelPartner(d domain.Partner) models.Partner {
	return models.Partner{
		PartnerID:     d.PartnerID,
		Name:          d.Name,
		Email:         strings.ToLower(d.Email),
		PasswordHash:  d.PasswordHash,
		PersonName:    d.PersonName,
		PersonContact: d.PersonContact,
		AdminID:       d.AdminID,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			LastUpdatedAt: d.LastUpdatedAt,
		},
	}
}

func toDomainPartner(m models.Partner) domain.Partner {
	return domain.Partner{
		PartnerID:     m.PartnerID,
		Name:          m.Name,
		Email:         m.Email,
		PasswordHash:  m.PasswordHash,
		PersonName:    m.PersonName,
		PersonContact: m.PersonContact,
		AdminID:       m.AdminID,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
}

const partnerColumns = `partner_id, name, email, password_hash, person_name, person_contact, admin_id, created_at, last_updated_at`

func scanPartnerRow(row pgx.Row) (*domain.Partner, error) {
	var m models.Partner
	err := row.Scan(&m.PartnerID, &m.Name, &m.Email, &m.PasswordHash, &m.PersonName, &m.PersonContact, &m.AdminID, &m.CreatedAt, &m.LastUpdatedAt)
	if err != nil {
		return nil, err
	}
	d := toDomainPartner(m)
	return &d, nil
}

func (r *PgxPartnerRepository) SavePartner(ctx context.Context, partner domain.Partner) error {
	m := toModelPartner(partner)
	query := `
        INSERT INTO partners (partner_id, name, email, password_hash, person_name, person_contact, admin_id, created_at, last_updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9);
    `
	_, err := r.db.Exec(ctx, query, m.PartnerID, m.Name, m.Email, m.PasswordHash, m.PersonName, m.PersonContact, m.AdminID, m.CreatedAt, m.LastUpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: partner email %s", apperrors.ErrDuplicate, m.Email)
		}
		return fmt.Errorf("failed to save partner: %w", err)
	}
	return nil
}

func (r *PgxPartnerRepository) FindPartnerByID(ctx context.Context, partnerID string) (*domain.Partner, error) {
	query := `SELECT ` + partnerColumns + ` FROM partners WHERE partner_id = $1;`
	p, err := scanPartnerRow(r.db.QueryRow(ctx, query, partnerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find partner by ID %s: %w", partnerID, err)
	}
	return p, nil
}

func (r *PgxPartnerRepository) FindPartnerByEmail(ctx context.Context, email string) (*domain.Partner, error) {
	query := `SELECT ` + partnerColumns + ` FROM partners WHERE email = $1;`
	p, err := scanPartnerRow(r.db.QueryRow(ctx, query, strings.ToLower(email)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find partner by email: %w", err)
	}
	return p, nil
}

func (r *PgxPartnerRepository) ListPartnersByAdminID(ctx context.Context, adminID string) ([]domain.Partner, error) {
	query := `SELECT ` + partnerColumns + ` FROM partners WHERE admin_id = $1 ORDER BY created_at DESC;`
	rows, err := r.db.Query(ctx, query, adminID)
	if err != nil {
		return nil, fmt.Errorf("failed to query partners: %w", err)
	}
	defer rows.Close()

	partners := []domain.Partner{}
	for rows.Next() {
		p, err := scanPartnerRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan partner row: %w", err)
		}
		partners = append(partners, *p)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("error iterating partner rows: %w", rows.Err())
	}
	return partners, nil
}

func (r *PgxPartnerRepository) UpdatePartner(ctx context.Context, partner domain.Partner) error {
	m := toModelPartner(partner)
	query := `
        UPDATE partners
        SET name = $2, email = $3, person_name = $4, person_contact = $5, last_updated_at = $6
        WHERE partner_id = $1;
    `
	tag, err := r.db.Exec(ctx, query, m.PartnerID, m.Name, m.Email, m.PersonName, m.PersonContact, m.LastUpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: partner email %s", apperrors.ErrDuplicate, m.Email)
		}
		return fmt.Errorf("failed to update partner %s: %w", m.PartnerID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

func (r *PgxPartnerRepository) UpdatePartnerPassword(ctx context.Context, partnerID string, passwordHash string) error {
	query := `UPDATE partners SET password_hash = $2, last_updated_at = now() WHERE partner_id = $1;`
	tag, err := r.db.Exec(ctx, query, partnerID, passwordHash)
	if err != nil {
		return fmt.Errorf("failed to update partner password %s: %w", partnerID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeletePartnerCascade removes the partner and every descendant customer, unit
// and report in one transaction. The cascade either completes or rolls back;
// a failure surfaces as ErrPartialCascade so callers know not to assume it ran.
func (r *PgxPartnerRepository) DeletePartnerCascade(ctx context.Context, partnerID string) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin cascade transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	steps := []string{
		// Reports under the partner's customers' units, the partner's own
		// units, its customers, or the partner directly.
		`DELETE FROM report_files WHERE report_id IN (SELECT report_id FROM reports WHERE partner_id = $1);`,
		`DELETE FROM reports WHERE partner_id = $1;`,
		`DELETE FROM units WHERE partner_id = $1 OR customer_id IN (SELECT customer_id FROM customers WHERE partner_id = $1);`,
		`DELETE FROM customers WHERE partner_id = $1;`,
	}
	for _, step := range steps {
		if _, err := tx.Exec(ctx, step, partnerID); err != nil {
			return fmt.Errorf("%w: partner %s: %v", apperrors.ErrPartialCascade, partnerID, err)
		}
	}

	tag, err := tx.Exec(ctx, `DELETE FROM partners WHERE partner_id = $1;`, partnerID)
	if err != nil {
		return fmt.Errorf("%w: partner %s: %v", apperrors.ErrPartialCascade, partnerID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: partner %s: %v", apperrors.ErrPartialCascade, partnerID, err)
	}
	return nil
}
