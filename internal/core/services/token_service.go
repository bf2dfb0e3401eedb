package services

import (
	"context"
	"time"

	"github.com/kvistberg/work_order_app/internal/core/domain"
	portssvc "github.com/kvistberg/work_order_app/internal/core/ports/services"
	"github.com/kvistberg/work_order_app/internal/platform/config"
	"github.com/kvistberg/work_order_app/internal/utils"
)

// tokenService signs JWTs for authenticated principals. It requires access to
// application configuration for the signing secret and expiry policy.
type tokenService struct {
	cfg *config.Config
}

// NewTokenService creates a new instance of tokenService.
func NewTokenService(cfg *config.Config) portssvc.TokenSvcFacade {
	return &tokenService{cfg: cfg}
}

var _ portssvc.TokenSvcFacade = (*tokenService)(nil)

// IssueToken signs a JWT carrying the principal's ID and role. A zero
// configured expiry duration omits the expiry claim and returns a zero time.
func (s *tokenService) IssueToken(ctx context.Context, principal domain.Principal) (string, time.Time, error) {
	token, err := utils.GenerateJWT(principal.ID, string(principal.Role), s.cfg.JWTSecret, s.cfg.TokenExpiryDuration, s.cfg.JWTIssuer)
	if err != nil {
		return "", time.Time{}, err
	}
	var expiresAt time.Time
	if s.cfg.TokenExpiryDuration > 0 {
		expiresAt = time.Now().Add(s.cfg.TokenExpiryDuration)
	}
	return token, expiresAt, nil
}
