package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/agenda-cultural/agenda-api/internal/middleware"
	"github.com/agenda-cultural/agenda-api/internal/models"
	appErrors "github.com/agenda-cultural/agenda-api/pkg/errors"
	"github.com/agenda-cultural/agenda-api/pkg/response"
)

type authService interface {
	Registro(ctx context.Context, req models.RegistroRequest) (*models.Usuario, error)
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
	RefreshToken(ctx context.Context, req models.RefreshTokenRequest) (*models.RefreshTokenResponse, error)
	Logout(ctx context.Context, refreshToken, usuarioID string) error
	CambiarPassword(ctx context.Context, usuarioID string, req models.CambiarPasswordRequest) error
}

// AuthHandler exposes the authentication endpoints.
type AuthHandler struct {
	service authService
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(service authService) *AuthHandler {
	return &AuthHandler{service: service}
}

// Registro handles POST /auth/registro.
func (h *AuthHandler) Registro(c *gin.Context) {
	var req models.RegistroRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Codigo, appErrors.ErrValidation.Status, "cuerpo JSON inválido"))
		return
	}

	usuario, err := h.service.Registro(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "cuenta creada", usuario)
}

// Login handles POST /auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Codigo, appErrors.ErrValidation.Status, "cuerpo JSON inválido"))
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.Request.UserAgent()

	resp, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "sesión iniciada", resp)
}

// Refresh handles POST /auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Codigo, appErrors.ErrValidation.Status, "cuerpo JSON inválido"))
		return
	}
	req.IP = c.ClientIP()
	req.UserAgent = c.Request.UserAgent()

	resp, err := h.service.RefreshToken(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "token renovado", resp)
}

// Logout handles POST /auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, ""))
		return
	}

	var req models.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Codigo, appErrors.ErrValidation.Status, "cuerpo JSON inválido"))
		return
	}

	if err := h.service.Logout(c.Request.Context(), req.RefreshToken, claims.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "sesión cerrada", nil)
}

// CambiarPassword handles POST /auth/cambiar-password.
func (h *AuthHandler) CambiarPassword(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, ""))
		return
	}

	var req models.CambiarPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Codigo, appErrors.ErrValidation.Status, "cuerpo JSON inválido"))
		return
	}

	if err := h.service.CambiarPassword(c.Request.Context(), claims.UserID, req); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "contraseña actualizada", nil)
}
