package service

import (
	"context"
	"crypto/sha1"
	"database/sql"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agenda-cultural/agenda-api/internal/metrics"
	"github.com/agenda-cultural/agenda-api/internal/models"
	appErrors "github.com/agenda-cultural/agenda-api/pkg/errors"
	"github.com/agenda-cultural/agenda-api/pkg/paginate"
	"github.com/agenda-cultural/agenda-api/pkg/validation"
)

type eventoRepository interface {
	FindByID(ctx context.Context, id string) (*models.Evento, error)
	List(ctx context.Context, filter models.EventoFilter) ([]models.Evento, int, error)
	Destacados(ctx context.Context, limite int) ([]models.Evento, error)
	Create(ctx context.Context, evento *models.Evento) error
	Update(ctx context.Context, evento *models.Evento) error
	Delete(ctx context.Context, id string) error
	IncrementarVistas(ctx context.Context, id string) error
}

type eventoCategoriaRepository interface {
	FindByID(ctx context.Context, id string) (*models.Categoria, error)
}

type cacheStore interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type eventoListado struct {
	Eventos []models.Evento     `json:"eventos"`
	Meta    *paginate.Resultado `json:"meta"`
}

// EventoService implements the event catalog use cases.
type EventoService struct {
	repo       eventoRepository
	categorias eventoCategoriaRepository
	cache      cacheStore
	cacheTTL   time.Duration
	recorder   *metrics.Metrics
	validator  *validator.Validate
	logger     *zap.Logger
}

// NewEventoService constructs an EventoService. cache may be nil to
// disable the listing cache entirely.
func NewEventoService(repo eventoRepository, categorias eventoCategoriaRepository, cache cacheStore, cacheTTL time.Duration, recorder *metrics.Metrics, validate *validator.Validate, logger *zap.Logger) *EventoService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validation.New()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &EventoService{
		repo:       repo,
		categorias: categorias,
		cache:      cache,
		cacheTTL:   cacheTTL,
		recorder:   recorder,
		validator:  validate,
		logger:     logger,
	}
}

// Listar returns a page of events for the given filter. Cache failures
// never fail the request; the database is the source of truth.
func (s *EventoService) Listar(ctx context.Context, filter models.EventoFilter) ([]models.Evento, *paginate.Resultado, error) {
	if len(filter.Avisos) > 0 {
		s.logger.Debug("parámetros de listado ajustados", zap.Strings("avisos", filter.Avisos))
	}

	key := s.listKey(filter)
	if s.cache != nil {
		var cached eventoListado
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached.Eventos, cached.Meta, nil
		} else if !errors.Is(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("lectura de caché fallida", zap.String("key", key), zap.Error(err))
		}
	}

	eventos, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Codigo, appErrors.ErrInternal.Status, "no se pudieron listar los eventos")
	}

	meta := paginate.Normalizar(filter.Pagina, filter.Limite).Resultado(total)
	if s.cache != nil {
		if err := s.cache.Set(ctx, key, eventoListado{Eventos: eventos, Meta: meta}, s.cacheTTL); err != nil {
			s.logger.Warn("escritura de caché fallida", zap.String("key", key), zap.Error(err))
		}
	}
	return eventos, meta, nil
}

// Obtener returns a single event by id.
func (s *EventoService) Obtener(ctx context.Context, id string) (*models.Evento, error) {
	evento, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "evento no encontrado")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Codigo, appErrors.ErrInternal.Status, "no se pudo cargar el evento")
	}
	return evento, nil
}

// Destacados returns the featured events ordered by recency.
func (s *EventoService) Destacados(ctx context.Context, limite int) ([]models.Evento, error) {
	if limite <= 0 || limite > paginate.MaxLimite {
		limite = paginate.DefaultLimite
	}

	key := fmt.Sprintf("eventos:destacados:%d", limite)
	if s.cache != nil {
		var cached []models.Evento
		if err := s.cache.Get(ctx, key, &cached); err == nil {
			return cached, nil
		}
	}

	eventos, err := s.repo.Destacados(ctx, limite)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Codigo, appErrors.ErrInternal.Status, "no se pudieron cargar los eventos destacados")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, key, eventos, s.cacheTTL); err != nil {
			s.logger.Warn("escritura de caché fallida", zap.String("key", key), zap.Error(err))
		}
	}
	return eventos, nil
}

// Crear registers a new event authored by the given admin.
func (s *EventoService) Crear(ctx context.Context, actorID string, req models.EventoRequest) (*models.Evento, error) {
	if err := s.validarRequest(ctx, req); err != nil {
		return nil, err
	}

	activo := true
	if req.Activo != nil {
		activo = *req.Activo
	}

	evento := &models.Evento{
		ID:          uuid.NewString(),
		Titulo:      strings.TrimSpace(req.Titulo),
		Descripcion: req.Descripcion,
		CategoriaID: req.CategoriaID,
		Lugar:       req.Lugar,
		Direccion:   req.Direccion,
		Ciudad:      req.Ciudad,
		FechaInicio: req.FechaInicio,
		FechaFin:    req.FechaFin,
		Precio:      req.Precio,
		ImagenURL:   req.ImagenURL,
		Destacado:   req.Destacado,
		Activo:      activo,
		CreadoPor:   actorID,
	}

	if err := s.repo.Create(ctx, evento); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Codigo, appErrors.ErrInternal.Status, "no se pudo crear el evento")
	}

	s.invalidate(ctx)
	s.logger.Info("evento creado", zap.String("evento_id", evento.ID), zap.String("creado_por", actorID))
	return evento, nil
}

// Actualizar replaces the mutable fields of an existing event.
func (s *EventoService) Actualizar(ctx context.Context, id string, req models.EventoRequest) (*models.Evento, error) {
	if err := s.validarRequest(ctx, req); err != nil {
		return nil, err
	}

	evento, err := s.Obtener(ctx, id)
	if err != nil {
		return nil, err
	}

	evento.Titulo = strings.TrimSpace(req.Titulo)
	evento.Descripcion = req.Descripcion
	evento.CategoriaID = req.CategoriaID
	evento.Lugar = req.Lugar
	evento.Direccion = req.Direccion
	evento.Ciudad = req.Ciudad
	evento.FechaInicio = req.FechaInicio
	evento.FechaFin = req.FechaFin
	evento.Precio = req.Precio
	evento.ImagenURL = req.ImagenURL
	evento.Destacado = req.Destacado
	if req.Activo != nil {
		evento.Activo = *req.Activo
	}

	if err := s.repo.Update(ctx, evento); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Codigo, appErrors.ErrInternal.Status, "no se pudo actualizar el evento")
	}

	s.invalidate(ctx)
	return evento, nil
}

// Eliminar soft-deletes an event.
func (s *EventoService) Eliminar(ctx context.Context, id string) error {
	if _, err := s.Obtener(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Codigo, appErrors.ErrInternal.Status, "no se pudo eliminar el evento")
	}
	s.invalidate(ctx)
	return nil
}

// RegistrarVista increments the view counter for an event.
func (s *EventoService) RegistrarVista(ctx context.Context, id string) error {
	if _, err := s.Obtener(ctx, id); err != nil {
		return err
	}
	if err := s.repo.IncrementarVistas(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Codigo, appErrors.ErrInternal.Status, "no se pudo registrar la vista")
	}
	s.recorder.ObservarVista()
	return nil
}

func (s *EventoService) validarRequest(ctx context.Context, req models.EventoRequest) error {
	if err := validation.Check(s.validator, req); err != nil {
		return err
	}

	if req.FechaFin != nil && req.FechaFin.Before(req.FechaInicio) {
		return appErrors.WithViolations([]appErrors.FieldError{{
			Campo:   "fechaFin",
			Mensaje: "no puede ser anterior a la fecha de inicio",
			Valor:   req.FechaFin,
		}})
	}

	categoria, err := s.categorias.FindByID(ctx, req.CategoriaID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.WithViolations([]appErrors.FieldError{{
				Campo:   "categoriaId",
				Mensaje: "la categoría no existe",
				Valor:   req.CategoriaID,
			}})
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Codigo, appErrors.ErrInternal.Status, "no se pudo verificar la categoría")
	}
	if !categoria.Activo {
		return appErrors.WithViolations([]appErrors.FieldError{{
			Campo:   "categoriaId",
			Mensaje: "la categoría está inactiva",
			Valor:   req.CategoriaID,
		}})
	}
	return nil
}

func (s *EventoService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, "eventos:*"); err != nil {
		s.logger.Warn("invalidación de caché fallida", zap.Error(err))
	}
}

// listKey derives a stable cache key from the filter values.
func (s *EventoService) listKey(filter models.EventoFilter) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "p=%d|l=%d|o=%s|d=%s|b=%s|c=%s", filter.Pagina, filter.Limite, filter.OrdenarPor, filter.Orden, filter.Busqueda, filter.Ciudad)
	if filter.CategoriaID != nil {
		fmt.Fprintf(&sb, "|cat=%s", *filter.CategoriaID)
	}
	if filter.Destacado != nil {
		fmt.Fprintf(&sb, "|dest=%t", *filter.Destacado)
	}
	if filter.Activo != nil {
		fmt.Fprintf(&sb, "|act=%t", *filter.Activo)
	}
	if filter.FechaDesde != nil {
		fmt.Fprintf(&sb, "|fd=%s", filter.FechaDesde.Format("2006-01-02"))
	}
	if filter.FechaHasta != nil {
		fmt.Fprintf(&sb, "|fh=%s", filter.FechaHasta.Format("2006-01-02"))
	}
	sum := sha1.Sum([]byte(sb.String()))
	return "eventos:list:" + hex.EncodeToString(sum[:])
}
