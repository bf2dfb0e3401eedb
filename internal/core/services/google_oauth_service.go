package services

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/idtoken"

	"github.com/kvistberg/work_order_app/internal/core/domain"
	portssvc "github.com/kvistberg/work_order_app/internal/core/ports/services"
	"github.com/kvistberg/work_order_app/internal/platform/config"
)

// googleOAuthHandlerService implements the GoogleOAuthHandlerSvcFacade.
// Google sign-in is available to admins only; the account must already exist.
type googleOAuthHandlerService struct {
	BaseService
	cfg          *config.Config
	authService  portssvc.AuthSvcFacade
	oauth2Config *oauth2.Config
}

// NewGoogleOAuthHandlerService creates a new instance of googleOAuthHandlerService.
func NewGoogleOAuthHandlerService(cfg *config.Config, authService portssvc.AuthSvcFacade) portssvc.GoogleOAuthHandlerSvcFacade {
	return &googleOAuthHandlerService{
		cfg:         cfg,
		authService: authService,
		oauth2Config: &oauth2.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			Scopes:       []string{"https://www.googleapis.com/auth/userinfo.email", "https://www.googleapis.com/auth/userinfo.profile"},
			Endpoint:     google.Endpoint,
		},
	}
}

var _ portssvc.GoogleOAuthHandlerSvcFacade = (*googleOAuthHandlerService)(nil)

// GetAuthCodeURL builds the Google consent page URL for the given state.
func (s *googleOAuthHandlerService) GetAuthCodeURL(state string) string {
	return s.oauth2Config.AuthCodeURL(state)
}

// HandleCallback exchanges the authorization code, validates the ID token and
// resolves the admin account by the verified email address.
func (s *googleOAuthHandlerService) HandleCallback(ctx context.Context, code string) (*domain.Admin, error) {
	if s.cfg.GoogleClientID == "" {
		return nil, errors.New("google client ID is not configured in the application")
	}

	token, err := s.oauth2Config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to exchange oauth code for token: %w", err)
	}

	idTokenString, ok := token.Extra("id_token").(string)
	if !ok || idTokenString == "" {
		return nil, errors.New("no id_token in google token response")
	}

	payload, err := idtoken.Validate(ctx, idTokenString, s.cfg.GoogleClientID)
	if err != nil {
		return nil, fmt.Errorf("google ID token validation failed: %w", err)
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, errors.New("google ID token carries no email claim")
	}
	if verified, _ := payload.Claims["email_verified"].(bool); !verified {
		return nil, errors.New("google account email is not verified")
	}

	return s.authService.AdminByVerifiedEmail(ctx, email)
}
