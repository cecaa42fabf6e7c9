package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/cydea/vulnbank/internal/api/metrics"
	"github.com/cydea/vulnbank/internal/core/domain"
	"github.com/cydea/vulnbank/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
	audit       ports.AuditSink
}

func NewAuthHandler(authService ports.AuthService, audit ports.AuditSink) *AuthHandler {
	return &AuthHandler{authService: authService, audit: audit}
}

// Login authenticates a user and returns a signed token.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  tokenResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Router       /api/auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	token, err := h.authService.Login(c.Request().Context(), req.Username, req.Password)
	if err != nil {
		metrics.LoginsTotal.WithLabelValues("failure").Inc()
		h.record(domain.EventLoginFailure, req.Username, c.RealIP())
		return err
	}

	metrics.LoginsTotal.WithLabelValues("success").Inc()
	h.record(domain.EventLoginSuccess, req.Username, c.RealIP())
	return c.JSON(http.StatusOK, tokenResponse{Token: token})
}

// Signup registers a new user account.
//
// @Summary      Sign up
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      signupRequest  true  "User registration details"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Router       /api/auth/signup [post]
func (h *AuthHandler) Signup(c echo.Context) error {
	var req signupRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	user, err := h.authService.Signup(c.Request().Context(), req.Username, req.Password, req.Email)
	if err != nil {
		return err
	}

	metrics.SignupsTotal.Inc()
	h.record(domain.EventSignup, user.Username, c.RealIP())
	return c.JSON(http.StatusCreated, userResponse{
		ID:       user.ID,
		Username: user.Username,
		Email:    user.Email,
	})
}

func (h *AuthHandler) record(kind, subject, ip string) {
	if h.audit == nil {
		return
	}
	h.audit.Record(domain.SecurityEvent{
		Kind:      kind,
		Subject:   subject,
		ClientIP:  ip,
		Timestamp: time.Now().UTC(),
	})
}
