package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agenda-cultural/agenda-api/internal/middleware"
	"github.com/agenda-cultural/agenda-api/internal/models"
	"github.com/agenda-cultural/agenda-api/internal/query"
	appErrors "github.com/agenda-cultural/agenda-api/pkg/errors"
	"github.com/agenda-cultural/agenda-api/pkg/paginate"
	"github.com/agenda-cultural/agenda-api/pkg/response"
)

type solicitudService interface {
	Crear(ctx context.Context, usuarioID string, req models.CrearSolicitudRequest) (*models.SolicitudFlyer, error)
	Listar(ctx context.Context, actorID string, rol models.Rol, filter models.SolicitudFilter) ([]models.SolicitudFlyer, *paginate.Resultado, error)
	Obtener(ctx context.Context, id, actorID string, rol models.Rol) (*models.SolicitudFlyer, error)
	Actualizar(ctx context.Context, id, actorID string, rol models.Rol, req models.ActualizarSolicitudRequest) (*models.SolicitudFlyer, error)
	CambiarEstado(ctx context.Context, id, actorID string, rol models.Rol, req models.CambiarEstadoRequest) (*models.SolicitudFlyer, error)
	Calificar(ctx context.Context, id, actorID string, rol models.Rol, req models.CalificarRequest) (*models.SolicitudFlyer, error)
	Exportar(ctx context.Context, filter models.SolicitudFilter, formato string) ([]byte, string, string, error)
}

// SolicitudHandler exposes the flyer-request endpoints.
type SolicitudHandler struct {
	service solicitudService
}

// NewSolicitudHandler constructs a SolicitudHandler.
func NewSolicitudHandler(service solicitudService) *SolicitudHandler {
	return &SolicitudHandler{service: service}
}

// Crear handles POST /solicitudes.
func (h *SolicitudHandler) Crear(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, ""))
		return
	}

	var req models.CrearSolicitudRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Codigo, appErrors.ErrValidation.Status, "cuerpo JSON inválido"))
		return
	}

	solicitud, err := h.service.Crear(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "solicitud creada", solicitud)
}

// Listar handles GET /solicitudes.
func (h *SolicitudHandler) Listar(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, ""))
		return
	}

	filter := query.ParseSolicitudFilter(c.Request.URL.Query())
	solicitudes, meta, err := h.service.Listar(c.Request.Context(), claims.UserID, claims.Rol, filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "solicitudes", solicitudes, meta)
}

// Obtener handles GET /solicitudes/:id.
func (h *SolicitudHandler) Obtener(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, ""))
		return
	}

	solicitud, err := h.service.Obtener(c.Request.Context(), c.Param("id"), claims.UserID, claims.Rol)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "solicitud", solicitud)
}

// Actualizar handles PUT /solicitudes/:id.
func (h *SolicitudHandler) Actualizar(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, ""))
		return
	}

	var req models.ActualizarSolicitudRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Codigo, appErrors.ErrValidation.Status, "cuerpo JSON inválido"))
		return
	}

	solicitud, err := h.service.Actualizar(c.Request.Context(), c.Param("id"), claims.UserID, claims.Rol, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "solicitud actualizada", solicitud)
}

// CambiarEstado handles PATCH /solicitudes/:id/estado.
func (h *SolicitudHandler) CambiarEstado(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, ""))
		return
	}

	var req models.CambiarEstadoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Codigo, appErrors.ErrValidation.Status, "cuerpo JSON inválido"))
		return
	}

	solicitud, err := h.service.CambiarEstado(c.Request.Context(), c.Param("id"), claims.UserID, claims.Rol, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "estado actualizado", solicitud)
}

// Calificar handles POST /solicitudes/:id/calificar.
func (h *SolicitudHandler) Calificar(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, ""))
		return
	}

	var req models.CalificarRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Codigo, appErrors.ErrValidation.Status, "cuerpo JSON inválido"))
		return
	}

	solicitud, err := h.service.Calificar(c.Request.Context(), c.Param("id"), claims.UserID, claims.Rol, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "calificación registrada", solicitud)
}

// Exportar handles GET /solicitudes/exportar?formato=csv|pdf. Admin only.
func (h *SolicitudHandler) Exportar(c *gin.Context) {
	filter := query.ParseSolicitudFilter(c.Request.URL.Query())
	formato := c.DefaultQuery("formato", "csv")

	data, contentType, filename, err := h.service.Exportar(c.Request.Context(), filter, formato)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, contentType, data)
}
