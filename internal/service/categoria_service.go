package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agenda-cultural/agenda-api/internal/models"
	appErrors "github.com/agenda-cultural/agenda-api/pkg/errors"
	"github.com/agenda-cultural/agenda-api/pkg/validation"
)

type categoriaRepository interface {
	List(ctx context.Context, soloActivas bool) ([]models.Categoria, error)
	FindByID(ctx context.Context, id string) (*models.Categoria, error)
	FindByNombre(ctx context.Context, nombre string) (*models.Categoria, error)
	Create(ctx context.Context, categoria *models.Categoria) error
	Update(ctx context.Context, categoria *models.Categoria) error
	Delete(ctx context.Context, id string) error
	CountEventos(ctx context.Context, id string) (int, error)
}

// CategoriaService implements the category catalog use cases.
type CategoriaService struct {
	repo      categoriaRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewCategoriaService constructs a CategoriaService.
func NewCategoriaService(repo categoriaRepository, validate *validator.Validate, logger *zap.Logger) *CategoriaService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validation.New()
	}
	return &CategoriaService{repo: repo, validator: validate, logger: logger}
}

// Listar returns categories, optionally restricted to active ones.
func (s *CategoriaService) Listar(ctx context.Context, soloActivas bool) ([]models.Categoria, error) {
	categorias, err := s.repo.List(ctx, soloActivas)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Codigo, appErrors.ErrInternal.Status, "no se pudieron listar las categorías")
	}
	return categorias, nil
}

// Obtener returns a single category by id.
func (s *CategoriaService) Obtener(ctx context.Context, id string) (*models.Categoria, error) {
	categoria, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "categoría no encontrada")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Codigo, appErrors.ErrInternal.Status, "no se pudo cargar la categoría")
	}
	return categoria, nil
}

// Crear registers a new category. Names are unique case-insensitively.
func (s *CategoriaService) Crear(ctx context.Context, req models.CategoriaRequest) (*models.Categoria, error) {
	if err := validation.Check(s.validator, req); err != nil {
		return nil, err
	}

	nombre := strings.TrimSpace(req.Nombre)
	if _, err := s.repo.FindByNombre(ctx, nombre); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("ya existe una categoría llamada %q", nombre))
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Codigo, appErrors.ErrInternal.Status, "no se pudo verificar el nombre")
	}

	activo := true
	if req.Activo != nil {
		activo = *req.Activo
	}

	categoria := &models.Categoria{
		ID:          uuid.NewString(),
		Nombre:      nombre,
		Descripcion: req.Descripcion,
		Icono:       req.Icono,
		Color:       req.Color,
		Activo:      activo,
	}

	if err := s.repo.Create(ctx, categoria); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Codigo, appErrors.ErrInternal.Status, "no se pudo crear la categoría")
	}
	return categoria, nil
}

// Actualizar replaces the mutable fields of a category.
func (s *CategoriaService) Actualizar(ctx context.Context, id string, req models.CategoriaRequest) (*models.Categoria, error) {
	if err := validation.Check(s.validator, req); err != nil {
		return nil, err
	}

	categoria, err := s.Obtener(ctx, id)
	if err != nil {
		return nil, err
	}

	nombre := strings.TrimSpace(req.Nombre)
	if existing, err := s.repo.FindByNombre(ctx, nombre); err == nil && existing.ID != id {
		return nil, appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("ya existe una categoría llamada %q", nombre))
	} else if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Codigo, appErrors.ErrInternal.Status, "no se pudo verificar el nombre")
	}

	categoria.Nombre = nombre
	categoria.Descripcion = req.Descripcion
	categoria.Icono = req.Icono
	categoria.Color = req.Color
	if req.Activo != nil {
		categoria.Activo = *req.Activo
	}

	if err := s.repo.Update(ctx, categoria); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Codigo, appErrors.ErrInternal.Status, "no se pudo actualizar la categoría")
	}
	return categoria, nil
}

// Eliminar soft-deletes a category. Categories with events attached
// cannot be removed.
func (s *CategoriaService) Eliminar(ctx context.Context, id string) error {
	if _, err := s.Obtener(ctx, id); err != nil {
		return err
	}

	count, err := s.repo.CountEventos(ctx, id)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Codigo, appErrors.ErrInternal.Status, "no se pudieron contar los eventos")
	}
	if count > 0 {
		return appErrors.Clone(appErrors.ErrConflict, fmt.Sprintf("la categoría tiene %d eventos asociados", count))
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Codigo, appErrors.ErrInternal.Status, "no se pudo eliminar la categoría")
	}
	return nil
}
