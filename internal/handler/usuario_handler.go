package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agenda-cultural/agenda-api/internal/middleware"
	"github.com/agenda-cultural/agenda-api/internal/models"
	"github.com/agenda-cultural/agenda-api/internal/query"
	appErrors "github.com/agenda-cultural/agenda-api/pkg/errors"
	"github.com/agenda-cultural/agenda-api/pkg/paginate"
	"github.com/agenda-cultural/agenda-api/pkg/response"
)

type usuarioService interface {
	Listar(ctx context.Context, filter models.UsuarioFilter) ([]models.Usuario, *paginate.Resultado, error)
	Obtener(ctx context.Context, id, actorID string, rol models.Rol) (*models.Usuario, error)
	Actualizar(ctx context.Context, id, actorID string, rol models.Rol, req models.ActualizarUsuarioRequest) (*models.Usuario, error)
	Eliminar(ctx context.Context, id, actorID string) error
	CambiarRol(ctx context.Context, id, actorID string, req models.CambiarRolRequest) (*models.Usuario, error)
}

// UsuarioHandler exposes the account administration endpoints.
type UsuarioHandler struct {
	service usuarioService
}

// NewUsuarioHandler constructs a UsuarioHandler.
func NewUsuarioHandler(service usuarioService) *UsuarioHandler {
	return &UsuarioHandler{service: service}
}

// Listar handles GET /usuarios. Admin only, enforced at the router.
func (h *UsuarioHandler) Listar(c *gin.Context) {
	filter := query.ParseUsuarioFilter(c.Request.URL.Query())

	usuarios, meta, err := h.service.Listar(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "usuarios", usuarios, meta)
}

// Perfil handles GET /usuarios/perfil for the authenticated account.
func (h *UsuarioHandler) Perfil(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, ""))
		return
	}

	usuario, err := h.service.Obtener(c.Request.Context(), claims.UserID, claims.UserID, claims.Rol)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "perfil", usuario)
}

// Obtener handles GET /usuarios/:id.
func (h *UsuarioHandler) Obtener(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, ""))
		return
	}

	usuario, err := h.service.Obtener(c.Request.Context(), c.Param("id"), claims.UserID, claims.Rol)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "usuario", usuario)
}

// Actualizar handles PUT /usuarios/:id.
func (h *UsuarioHandler) Actualizar(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, ""))
		return
	}

	var req models.ActualizarUsuarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Codigo, appErrors.ErrValidation.Status, "cuerpo JSON inválido"))
		return
	}

	usuario, err := h.service.Actualizar(c.Request.Context(), c.Param("id"), claims.UserID, claims.Rol, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "usuario actualizado", usuario)
}

// Eliminar handles DELETE /usuarios/:id. Admin only.
func (h *UsuarioHandler) Eliminar(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, ""))
		return
	}

	if err := h.service.Eliminar(c.Request.Context(), c.Param("id"), claims.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// CambiarRol handles PATCH /usuarios/:id/cambiar-rol. Admin only.
func (h *UsuarioHandler) CambiarRol(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, ""))
		return
	}

	var req models.CambiarRolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Codigo, appErrors.ErrValidation.Status, "cuerpo JSON inválido"))
		return
	}

	usuario, err := h.service.CambiarRol(c.Request.Context(), c.Param("id"), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "rol actualizado", usuario)
}
