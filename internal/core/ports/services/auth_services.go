package services

import (
	"context"
	"time"

	"github.com/kvistberg/work_order_app/internal/core/domain"
	"github.com/kvistberg/work_order_app/internal/dto"
)

// AuthSvcFacade verifies credentials and creates admin accounts.
type AuthSvcFacade interface {
	// AdminSignup creates a new admin account. Returns apperrors.ErrDuplicate
	// when the email is already registered.
	AdminSignup(ctx context.Context, req dto.AdminSignupRequest) (*domain.Admin, error)

	// AdminLogin verifies admin credentials. Returns apperrors.ErrUnauthorized
	// on any mismatch, without distinguishing unknown email from bad password.
	AdminLogin(ctx context.Context, email, password string) (*domain.Admin, error)

	// PartnerLogin verifies partner credentials.
	PartnerLogin(ctx context.Context, email, password string) (*domain.Partner, error)

	// AdminByVerifiedEmail resolves an admin from an email address already
	// verified by an external identity provider.
	AdminByVerifiedEmail(ctx context.Context, email string) (*domain.Admin, error)
}

// TokenSvcFacade issues bearer tokens for authenticated principals.
type TokenSvcFacade interface {
	// IssueToken signs a JWT for the principal. When token expiry is disabled
	// by configuration the returned expiry time is zero.
	IssueToken(ctx context.Context, principal domain.Principal) (string, time.Time, error)
}

// GoogleOAuthHandlerSvcFacade drives the Google sign-in flow for admins.
type GoogleOAuthHandlerSvcFacade interface {
	// GetAuthCodeURL builds the Google consent page URL for the given state.
	GetAuthCodeURL(state string) string

	// HandleCallback exchanges the authorization code, verifies the ID token
	// and resolves the admin account by verified email.
	HandleCallback(ctx context.Context, code string) (*domain.Admin, error)
}
