package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/agenda-cultural/agenda-api/internal/models"
	appErrors "github.com/agenda-cultural/agenda-api/pkg/errors"
	"github.com/agenda-cultural/agenda-api/pkg/response"
)

type categoriaService interface {
	Listar(ctx context.Context, soloActivas bool) ([]models.Categoria, error)
	Obtener(ctx context.Context, id string) (*models.Categoria, error)
	Crear(ctx context.Context, req models.CategoriaRequest) (*models.Categoria, error)
	Actualizar(ctx context.Context, id string, req models.CategoriaRequest) (*models.Categoria, error)
	Eliminar(ctx context.Context, id string) error
}

// CategoriaHandler exposes the category endpoints.
type CategoriaHandler struct {
	service categoriaService
}

// NewCategoriaHandler constructs a CategoriaHandler.
func NewCategoriaHandler(service categoriaService) *CategoriaHandler {
	return &CategoriaHandler{service: service}
}

// Listar handles GET /categorias. By default only active categories are
// returned; incluirInactivas=true widens the listing.
func (h *CategoriaHandler) Listar(c *gin.Context) {
	soloActivas := c.Query("incluirInactivas") != "true"

	categorias, err := h.service.Listar(c.Request.Context(), soloActivas)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "categorías", categorias)
}

// Obtener handles GET /categorias/:id.
func (h *CategoriaHandler) Obtener(c *gin.Context) {
	categoria, err := h.service.Obtener(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "categoría", categoria)
}

// Crear handles POST /categorias.
func (h *CategoriaHandler) Crear(c *gin.Context) {
	var req models.CategoriaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Codigo, appErrors.ErrValidation.Status, "cuerpo JSON inválido"))
		return
	}

	categoria, err := h.service.Crear(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, "categoría creada", categoria)
}

// Actualizar handles PUT /categorias/:id.
func (h *CategoriaHandler) Actualizar(c *gin.Context) {
	var req models.CategoriaRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Codigo, appErrors.ErrValidation.Status, "cuerpo JSON inválido"))
		return
	}

	categoria, err := h.service.Actualizar(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "categoría actualizada", categoria)
}

// Eliminar handles DELETE /categorias/:id.
func (h *CategoriaHandler) Eliminar(c *gin.Context) {
	if err := h.service.Eliminar(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
