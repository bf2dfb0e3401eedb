package handlers

import (
	"fmt"
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/kvistberg/work_order_app/internal/core/domain"
	portssvc "github.com/kvistberg/work_order_app/internal/core/ports/services"
	"github.com/kvistberg/work_order_app/internal/middleware"
	"github.com/kvistberg/work_order_app/internal/platform/config"
	"github.com/kvistberg/work_order_app/internal/utils"
)

const oauthStateCookie = "oauth_state"

// GoogleOAuthHandler drives the Google sign-in flow for admin accounts.
type GoogleOAuthHandler struct {
	oauthService portssvc.GoogleOAuthHandlerSvcFacade
	tokenService portssvc.TokenSvcFacade
	frontendBase string
	secureCookie bool
}

// NewGoogleOAuthHandler creates a new GoogleOAuthHandler.
func NewGoogleOAuthHandler(cfg *config.Config, oauthService portssvc.GoogleOAuthHandlerSvcFacade, tokenService portssvc.TokenSvcFacade) *GoogleOAuthHandler {
	return &GoogleOAuthHandler{
		oauthService: oauthService,
		tokenService: tokenService,
		frontendBase: cfg.FrontendBaseURL,
		secureCookie: cfg.IsProduction,
	}
}

// registerGoogleOAuthRoutes registers the Google OAuth routes.
func registerGoogleOAuthRoutes(rg *gin.Engine, cfg *config.Config, services *portssvc.ServiceContainer) {
	h := NewGoogleOAuthHandler(cfg, services.GoogleOAuthHandler, services.Token)

	google := rg.Group("/api/v1/auth/google")
	{
		google.GET("/login", h.Login)
		google.GET("/callback", h.Callback)
	}
}

// Login godoc
// @Summary Start Google sign-in
// @Description Redirects the browser to the Google consent page. Admin accounts only.
// @Tags auth
// @Success 307
// @Failure 500 {object} ErrorResponse
// @Router /auth/google/login [get]
func (h *GoogleOAuthHandler) Login(c *gin.Context) {
	state, err := utils.GenerateSecureRandomString(16)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to start sign-in"})
		return
	}
	// The state round-trips through a cookie to block CSRF on the callback.
	c.SetCookie(oauthStateCookie, state, 600, "/", "", h.secureCookie, true)
	c.Redirect(http.StatusTemporaryRedirect, h.oauthService.GetAuthCodeURL(state))
}

// Callback godoc
// @Summary Google sign-in callback
// @Description Exchanges the authorization code and redirects to the frontend with a token.
// @Tags auth
// @Success 307
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Router /auth/google/callback [get]
func (h *GoogleOAuthHandler) Callback(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	expectedState, err := c.Cookie(oauthStateCookie)
	if err != nil || expectedState == "" || c.Query("state") != expectedState {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid OAuth state"})
		return
	}
	c.SetCookie(oauthStateCookie, "", -1, "/", "", h.secureCookie, true)

	code := c.Query("code")
	if code == "" {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Missing authorization code"})
		return
	}

	admin, err := h.oauthService.HandleCallback(c.Request.Context(), code)
	if err != nil {
		logger.Warn("Google sign-in rejected", slog.String("error", err.Error()))
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Google sign-in failed"})
		return
	}

	token, _, err := h.tokenService.IssueToken(c.Request.Context(), domain.Principal{ID: admin.AdminID, Role: domain.RoleAdmin})
	if err != nil {
		logger.Error("Failed to sign JWT token after Google sign-in", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}

	c.Redirect(http.StatusTemporaryRedirect, fmt.Sprintf("%s/login?token=%s", h.frontendBase, token))
}
