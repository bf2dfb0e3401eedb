package handlers

import (
	"errors"
	"net/http"

	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"

	"github.com/kvistberg/work_order_app/internal/apperrors"
	"github.com/kvistberg/work_order_app/internal/core/domain"
	portssvc "github.com/kvistberg/work_order_app/internal/core/ports/services"
	"github.com/kvistberg/work_order_app/internal/dto"
	"github.com/kvistberg/work_order_app/internal/middleware"
)

// AuthHandler handles authentication related requests.
type AuthHandler struct {
	authService  portssvc.AuthSvcFacade
	tokenService portssvc.TokenSvcFacade
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(as portssvc.AuthSvcFacade, ts portssvc.TokenSvcFacade) *AuthHandler {
	return &AuthHandler{
		authService:  as,
		tokenService: ts,
	}
}

// ErrorResponse is a generic error response structure for handlers.
type ErrorResponse struct {
	Error string `json:"error"`
}

// registerAuthRoutes sets up the public authentication routes.
func registerAuthRoutes(rg *gin.Engine, services *portssvc.ServiceContainer) {
	h := NewAuthHandler(services.Auth, services.Token)

	// Login attempts are rate limited per IP: 5 per minute.
	rate, _ := limiter.NewRateFromFormatted("5-M")
	ipLimiter := limiter.New(memory.NewStore(), rate)
	limitMiddleware := middleware.RateLimit(ipLimiter)

	auth := rg.Group("/api/v1/auth")
	{
		auth.POST("/admin/signup", h.AdminSignup)
		auth.POST("/admin/login", limitMiddleware, h.AdminLogin)
		auth.POST("/partner/login", limitMiddleware, h.PartnerLogin)
	}
}

// AdminSignup godoc
// @Summary Register a new admin account
// @Description Creates an admin account with a unique email.
// @Tags auth
// @Accept json
// @Produce json
// @Param signup body dto.AdminSignupRequest true "Admin Registration Info"
// @Success 201 {object} dto.PrincipalResponse
// @Failure 400 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse "Email already registered"
// @Failure 500 {object} ErrorResponse
// @Router /auth/admin/signup [post]
func (h *AuthHandler) AdminSignup(c *gin.Context) {
	var req dto.AdminSignupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return
	}

	admin, err := h.authService.AdminSignup(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			c.JSON(http.StatusConflict, ErrorResponse{Error: "Email already registered"})
			return
		}
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to create admin", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to create account"})
		return
	}

	c.JSON(http.StatusCreated, dto.ToAdminPrincipalResponse(admin))
}

// AdminLogin godoc
// @Summary Admin login
// @Description Authenticates an admin and returns a JWT token.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/admin/login [post]
func (h *AuthHandler) AdminLogin(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	admin, err := h.authService.AdminLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid email or password"})
		return
	}

	h.respondWithToken(c, domain.Principal{ID: admin.AdminID, Role: domain.RoleAdmin}, dto.ToAdminPrincipalResponse(admin))
}

// PartnerLogin godoc
// @Summary Partner login
// @Description Authenticates a partner and returns a JWT token.
// @Tags auth
// @Accept json
// @Produce json
// @Param login body dto.LoginRequest true "Login Credentials"
// @Success 200 {object} dto.LoginResponse
// @Failure 400 {object} ErrorResponse
// @Failure 401 {object} ErrorResponse
// @Failure 500 {object} ErrorResponse
// @Router /auth/partner/login [post]
func (h *AuthHandler) PartnerLogin(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request body"})
		return
	}

	partner, err := h.authService.PartnerLogin(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Invalid email or password"})
		return
	}

	h.respondWithToken(c, domain.Principal{ID: partner.PartnerID, Role: domain.RolePartner}, dto.ToPartnerPrincipalResponse(partner))
}

func (h *AuthHandler) respondWithToken(c *gin.Context, principal domain.Principal, user dto.PrincipalResponse) {
	token, expiresAt, err := h.tokenService.IssueToken(c.Request.Context(), principal)
	if err != nil {
		logger := middleware.GetLoggerFromCtx(c.Request.Context())
		logger.Error("Failed to sign JWT token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "Failed to generate token"})
		return
	}

	resp := dto.LoginResponse{Token: token, User: user}
	if !expiresAt.IsZero() {
		resp.ExpiresAt = &expiresAt
	}
	c.JSON(http.StatusOK, resp)
}
