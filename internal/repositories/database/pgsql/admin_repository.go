package pgsql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/kvistberg/work_order_app/internal/apperrors"
	"github.com/kvistberg/work_order_app/internal/core/domain"
	portsrepo "github.com/kvistberg/work_order_app/internal/core/ports/repositories"
	"github.com/kvistberg/work_order_app/internal/models"
)

type PgxAdminRepository struct {
	db *pgxpool.Pool
}

func newPgxAdminRepository(db *pgxpool.Pool) portsrepo.AdminRepositoryFacade {
	return &PgxAdminRepository{db: db}
}

var _ portsrepo.AdminRepositoryFacade = (*PgxAdminRepository)(nil)

func toModelAdmin(d domain.Admin) models.Admin {
	return models.Admin{
		AdminID:      d.AdminID,
		Name:         d.Name,
		Email:        strings.ToLower(d.Email),
		PasswordHash: d.PasswordHash,
		AuditFields: models.AuditFields{
			CreatedAt:     d.CreatedAt,
			LastUpdatedAt: d.LastUpdatedAt,
		},
	}
}

func toDomainAdmin(m models.Admin) domain.Admin {
	return domain.Admin{
		AdminID:      m.AdminID,
		Name:         m.Name,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		AuditFields: domain.AuditFields{
			CreatedAt:     m.CreatedAt,
			LastUpdatedAt: m.LastUpdatedAt,
		},
	}
}

// isUniqueViolation reports whether err is a Postgres unique constraint error.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

func (r *PgxAdminRepository) SaveAdmin(ctx context.Context, admin domain.Admin) error {
	m := toModelAdmin(admin)
	query := `
        INSERT INTO admins (admin_id, name, email, password_hash, created_at, last_updated_at)
        VALUES ($1, $2, $3, $4, $5, $6);
    `
	_, err := r.db.Exec(ctx, query, m.AdminID, m.Name, m.Email, m.PasswordHash, m.CreatedAt, m.LastUpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: admin email %s", apperrors.ErrDuplicate, m.Email)
		}
		return fmt.Errorf("failed to save admin: %w", err)
	}
	return nil
}

func (r *PgxAdminRepository) FindAdminByID(ctx context.Context, adminID string) (*domain.Admin, error) {
	query := `
		SELECT admin_id, name, email, password_hash, created_at, last_updated_at
		FROM admins
		WHERE admin_id = $1;
	`
	return r.scanAdmin(r.db.QueryRow(ctx, query, adminID), adminID)
}

func (r *PgxAdminRepository) FindAdminByEmail(ctx context.Context, email string) (*domain.Admin, error) {
	query := `
		SELECT admin_id, name, email, password_hash, created_at, last_updated_at
		FROM admins
		WHERE email = $1;
	`
	return r.scanAdmin(r.db.QueryRow(ctx, query, strings.ToLower(email)), email)
}

func (r *PgxAdminRepository) scanAdmin(row pgx.Row, key string) (*domain.Admin, error) {
	var m models.Admin
	err := row.Scan(&m.AdminID, &m.Name, &m.Email, &m.PasswordHash, &m.CreatedAt, &m.LastUpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find admin %s: %w", key, err)
	}
	d := toDomainAdmin(m)
	return &d, nil
}
