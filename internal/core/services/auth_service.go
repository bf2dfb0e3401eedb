package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"log/slog"

	"github.com/google/uuid"

	"github.com/kvistberg/work_order_app/internal/apperrors"
	"github.com/kvistberg/work_order_app/internal/core/domain"
	portsrepo "github.com/kvistberg/work_order_app/internal/core/ports/repositories"
	portssvc "github.com/kvistberg/work_order_app/internal/core/ports/services"
	"github.com/kvistberg/work_order_app/internal/dto"
	"github.com/kvistberg/work_order_app/internal/utils"
)

// authService verifies credentials against the admin and partner stores.
type authService struct {
	BaseService
	adminRepo   portsrepo.AdminRepositoryFacade
	partnerRepo portsrepo.PartnerReader
}

// NewAuthService creates a new instance of authService.
func NewAuthService(adminRepo portsrepo.AdminRepositoryFacade, partnerRepo portsrepo.PartnerReader) portssvc.AuthSvcFacade {
	return &authService{
		adminRepo:   adminRepo,
		partnerRepo: partnerRepo,
	}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

func (s *authService) AdminSignup(ctx context.Context, req dto.AdminSignupRequest) (*domain.Admin, error) {
	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now()
	admin := domain.Admin{
		AdminID:      uuid.NewString(),
		Name:         req.Name,
		Email:        strings.ToLower(strings.TrimSpace(req.Email)),
		PasswordHash: hash,
		AuditFields: domain.AuditFields{
			CreatedAt:     now,
			LastUpdatedAt: now,
		},
	}

	if err := s.adminRepo.SaveAdmin(ctx, admin); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, apperrors.ErrDuplicate
		}
		s.LogError(ctx, err, "failed to save admin", slog.String("email", admin.Email))
		return nil, fmt.Errorf("failed to create admin: %w", err)
	}

	s.LogInfo(ctx, "admin account created", slog.String("admin_id", admin.AdminID))
	return &admin, nil
}

func (s *authService) AdminLogin(ctx context.Context, email, password string) (*domain.Admin, error) {
	admin, err := s.adminRepo.FindAdminByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Unknown email and bad password are indistinguishable to the caller.
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to look up admin for login: %w", err)
	}
	if !utils.CheckPasswordHash(password, admin.PasswordHash) {
		return nil, apperrors.ErrUnauthorized
	}
	return admin, nil
}

func (s *authService) PartnerLogin(ctx context.Context, email, password string) (*domain.Partner, error) {
	partner, err := s.partnerRepo.FindPartnerByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to look up partner for login: %w", err)
	}
	if !utils.CheckPasswordHash(password, partner.PasswordHash) {
		return nil, apperrors.ErrUnauthorized
	}
	return partner, nil
}

func (s *authService) AdminByVerifiedEmail(ctx context.Context, email string) (*domain.Admin, error) {
	admin, err := s.adminRepo.FindAdminByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			// Google sign-in does not create accounts; the admin must exist.
			return nil, apperrors.ErrUnauthorized
		}
		return nil, fmt.Errorf("failed to resolve admin by verified email: %w", err)
	}
	return admin, nil
}
