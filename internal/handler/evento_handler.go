package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/agenda-cultural/agenda-api/internal/middleware"
	"github.com/agenda-cultural/agenda-api/internal/models"
	"github.com/agenda-cultural/agenda-api/internal/query"
	appErrors "github.com/agenda-cultural/agenda-api/pkg/errors"
	"github.com/agenda-cultural/agenda-api/pkg/paginate"
	"github.com/agenda-cultural/agenda-api/pkg/response"
)

type eventoService interface {
	Listar(ctx context.Context, filter models.EventoFilter) ([]models.Evento, *paginate.Resultado, error)
	Obtener(ctx context.Context, id string) (*models.Evento, error)
	Destacados(ctx context.Context, limite int) ([]models.Evento, error)
	Crear(ctx context.Context, actorID string, req models.EventoRequest) (*models.Evento, error)
	Actualizar(ctx context.Context, id string, req models.EventoRequest) (*models.Evento, error)
	Eliminar(ctx context.Context, id string) error
	RegistrarVista(ctx context.Context, id string) error
}

// EventoHandler exposes the event catalog endpoints.
type EventoHandler struct {
	service eventoService
}

// NewEventoHandler constructs an EventoHandler.
func NewEventoHandler(service eventoService) *EventoHandler {
	return &EventoHandler{service: service}
}

// Listar handles GET /eventos. The public catalog only shows active
// events; admins may pass activo=false to inspect soft-deleted rows.
func (h *EventoHandler) Listar(c *gin.Context) {
	filter := query.ParseEventoFilter(c.Request.URL.Query())
	if claims, ok := middleware.ClaimsFrom(c); !ok || claims.Rol != models.RolAdmin {
		activo := true
		filter.Activo = &activo
	}

	eventos, meta, err := h.service.Listar(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, "eventos", eventos, meta)
}

// Destacados handles GET /eventos/destacados.
func (h *EventoHandler) Destacados(c *gin.Context) {
	limite, _ := strconv.Atoi(c.Query("limite"))

	eventos, err := h.service.Destacados(c.Request.Context(), limite)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "eventos destacados", eventos)
}

// Obtener handles GET /eventos/:id.
func (h *EventoHandler) Obtener(c *gin.Context) {
	evento, err := h.service.Obtener(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "evento", evento)
}

// Crear handles POST /eventos.
func (h *EventoHandler) Crear(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, ""))
		return
	}

	var req models.EventoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Codigo, appErrors.ErrValidation.Status, "cuerpo JSON inválido"))
		return
	}

	evento, err := h.service.Crear(c.Request.Context(), claims.UserID, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "evento creado", evento)
}

// Actualizar handles PUT /eventos/:id.
func (h *EventoHandler) Actualizar(c *gin.Context) {
	var req models.EventoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Codigo, appErrors.ErrValidation.Status, "cuerpo JSON inválido"))
		return
	}

	evento, err := h.service.Actualizar(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "evento actualizado", evento)
}

// Eliminar handles DELETE /eventos/:id.
func (h *EventoHandler) Eliminar(c *gin.Context) {
	if err := h.service.Eliminar(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// RegistrarVista handles POST /eventos/:id/vistas.
func (h *EventoHandler) RegistrarVista(c *gin.Context) {
	if err := h.service.RegistrarVista(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "vista registrada", nil)
}
