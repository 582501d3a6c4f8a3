package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/agenda-cultural/agenda-api/internal/authz"
	"github.com/agenda-cultural/agenda-api/internal/export"
	"github.com/agenda-cultural/agenda-api/internal/metrics"
	"github.com/agenda-cultural/agenda-api/internal/models"
	"github.com/agenda-cultural/agenda-api/internal/repository"
	"github.com/agenda-cultural/agenda-api/internal/workflow"
	appErrors "github.com/agenda-cultural/agenda-api/pkg/errors"
	"github.com/agenda-cultural/agenda-api/pkg/paginate"
	"github.com/agenda-cultural/agenda-api/pkg/validation"
)

type solicitudRepository interface {
	FindByID(ctx context.Context, id string) (*models.SolicitudFlyer, error)
	List(ctx context.Context, filter models.SolicitudFilter) ([]models.SolicitudFlyer, int, error)
	Create(ctx context.Context, solicitud *models.SolicitudFlyer) error
	UpdateContenido(ctx context.Context, solicitud *models.SolicitudFlyer) error
	UpdateEstado(ctx context.Context, params repository.UpdateEstadoParams) error
	Calificar(ctx context.Context, id string, calificacion int, comentario string) error
}

// SolicitudService implements the flyer-request workflow use cases.
type SolicitudService struct {
	repo      solicitudRepository
	notifier  *NotificacionService
	metrics   *metrics.Metrics
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSolicitudService constructs a SolicitudService. notifier and
// recorder may be nil.
func NewSolicitudService(repo solicitudRepository, notifier *NotificacionService, recorder *metrics.Metrics, validate *validator.Validate, logger *zap.Logger) *SolicitudService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validation.New()
	}
	return &SolicitudService{
		repo:      repo,
		notifier:  notifier,
		metrics:   recorder,
		validator: validate,
		logger:    logger,
	}
}

// Crear opens a new flyer request in the pendiente state.
func (s *SolicitudService) Crear(ctx context.Context, usuarioID string, req models.CrearSolicitudRequest) (*models.SolicitudFlyer, error) {
	if err := validation.Check(s.validator, req); err != nil {
		return nil, err
	}

	prioridad := req.Prioridad
	if prioridad == "" {
		prioridad = models.PrioridadMedia
	}

	solicitud := &models.SolicitudFlyer{
		ID:                uuid.NewString(),
		UsuarioID:         usuarioID,
		NombreEvento:      req.NombreEvento,
		TipoEvento:        req.TipoEvento,
		FechaEvento:       req.FechaEvento,
		Descripcion:       req.Descripcion,
		EstiloPreferido:   req.EstiloPreferido,
		ColoresPreferidos: req.ColoresPreferidos,
		EmailContacto:     req.EmailContacto,
		TelefonoContacto:  req.TelefonoContacto,
		Estado:            models.EstadoPendiente,
		Prioridad:         prioridad,
	}

	if err := s.repo.Create(ctx, solicitud); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Codigo, appErrors.ErrInternal.Status, "no se pudo crear la solicitud")
	}

	s.logger.Info("solicitud creada",
		zap.String("solicitud_id", solicitud.ID),
		zap.String("usuario_id", usuarioID))
	return solicitud, nil
}

// Listar returns a page of requests. Non-admin actors only ever see
// their own requests regardless of the filter they send.
func (s *SolicitudService) Listar(ctx context.Context, actorID string, rol models.Rol, filter models.SolicitudFilter) ([]models.SolicitudFlyer, *paginate.Resultado, error) {
	if rol != models.RolAdmin {
		filter.UsuarioID = actorID
	}
	if len(filter.Avisos) > 0 {
		s.logger.Debug("parámetros de listado ajustados", zap.Strings("avisos", filter.Avisos))
	}

	solicitudes, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Codigo, appErrors.ErrInternal.Status, "no se pudieron listar las solicitudes")
	}

	meta := paginate.Normalizar(filter.Pagina, filter.Limite).Resultado(total)
	return solicitudes, meta, nil
}

// Obtener returns one request, enforcing ownership for non-admins.
// Requests outside the actor's reach surface as not found rather than
// forbidden so ids cannot be enumerated.
func (s *SolicitudService) Obtener(ctx context.Context, id, actorID string, rol models.Rol) (*models.SolicitudFlyer, error) {
	solicitud, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !authz.CanAccess(solicitud.UsuarioID, actorID, rol, authz.AccionLeer) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "solicitud no encontrada")
	}
	return solicitud, nil
}

// Actualizar edits the descriptive fields of a request. Only the owner
// or an admin may edit, and only while the request is still pending.
func (s *SolicitudService) Actualizar(ctx context.Context, id, actorID string, rol models.Rol, req models.ActualizarSolicitudRequest) (*models.SolicitudFlyer, error) {
	if err := validation.Check(s.validator, req); err != nil {
		return nil, err
	}

	solicitud, err := s.Obtener(ctx, id, actorID, rol)
	if err != nil {
		return nil, err
	}
	if !authz.CanAccess(solicitud.UsuarioID, actorID, rol, authz.AccionActualizar) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "")
	}
	if solicitud.Estado != models.EstadoPendiente {
		return nil, appErrors.Clone(appErrors.ErrEstadoInvalido, "solo se pueden editar solicitudes pendientes")
	}

	solicitud.NombreEvento = req.NombreEvento
	solicitud.TipoEvento = req.TipoEvento
	solicitud.FechaEvento = req.FechaEvento
	solicitud.Descripcion = req.Descripcion
	solicitud.EstiloPreferido = req.EstiloPreferido
	solicitud.ColoresPreferidos = req.ColoresPreferidos
	solicitud.EmailContacto = req.EmailContacto
	solicitud.TelefonoContacto = req.TelefonoContacto

	if err := s.repo.UpdateContenido(ctx, solicitud); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Codigo, appErrors.ErrInternal.Status, "no se pudo actualizar la solicitud")
	}
	return solicitud, nil
}

// CambiarEstado moves a request through the workflow. The state is
// re-read, the transition validated against the edge table and the
// actor's permissions, then applied with an optimistic guard on the
// previous state. A concurrent writer winning the race surfaces as a
// conflict, never as a silent overwrite.
func (s *SolicitudService) CambiarEstado(ctx context.Context, id, actorID string, rol models.Rol, req models.CambiarEstadoRequest) (*models.SolicitudFlyer, error) {
	if err := validation.Check(s.validator, req); err != nil {
		return nil, err
	}

	solicitud, err := s.Obtener(ctx, id, actorID, rol)
	if err != nil {
		return nil, err
	}

	esPropietario := solicitud.UsuarioID == actorID
	if err := workflow.Transition(solicitud.Estado, req.Estado, rol, esPropietario); err != nil {
		return nil, err
	}

	anterior := solicitud.Estado
	ahora := time.Now().UTC()
	workflow.Aplicar(solicitud, req.Estado, ahora)
	if req.NotasAdmin != nil && rol == models.RolAdmin {
		solicitud.NotasAdmin = req.NotasAdmin
	}
	if req.Prioridad != nil && rol == models.RolAdmin {
		solicitud.Prioridad = *req.Prioridad
	}

	params := repository.UpdateEstadoParams{
		ID:              solicitud.ID,
		EstadoAnterior:  anterior,
		Estado:          solicitud.Estado,
		FechaCompletado: solicitud.FechaCompletado,
		UpdatedAt:       solicitud.UpdatedAt,
	}
	if rol == models.RolAdmin {
		params.NotasAdmin = req.NotasAdmin
		params.Prioridad = req.Prioridad
	}

	if err := s.repo.UpdateEstado(ctx, params); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "la solicitud cambió de estado, recarga e intenta de nuevo")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Codigo, appErrors.ErrInternal.Status, "no se pudo cambiar el estado")
	}

	s.metrics.ObservarTransicion(anterior, solicitud.Estado)
	s.logger.Info("transición aplicada",
		zap.String("solicitud_id", solicitud.ID),
		zap.String("desde", string(anterior)),
		zap.String("hacia", string(solicitud.Estado)),
		zap.String("actor_id", actorID))

	notas := ""
	if solicitud.NotasAdmin != nil {
		notas = *solicitud.NotasAdmin
	}
	s.notifier.EncolarCambioEstado(CambioEstadoPayload{
		SolicitudID:    solicitud.ID,
		NombreEvento:   solicitud.NombreEvento,
		EmailContacto:  solicitud.EmailContacto,
		EstadoAnterior: anterior,
		EstadoNuevo:    solicitud.Estado,
		NotasAdmin:     notas,
	})

	return solicitud, nil
}

// Calificar stores the owner's rating on a completed request.
func (s *SolicitudService) Calificar(ctx context.Context, id, actorID string, rol models.Rol, req models.CalificarRequest) (*models.SolicitudFlyer, error) {
	if err := validation.Check(s.validator, req); err != nil {
		return nil, err
	}

	solicitud, err := s.Obtener(ctx, id, actorID, rol)
	if err != nil {
		return nil, err
	}
	if !authz.CanAccess(solicitud.UsuarioID, actorID, rol, authz.AccionCalificar) {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "")
	}
	if err := workflow.ValidarCalificacion(solicitud, req.Calificacion); err != nil {
		return nil, err
	}

	if err := s.repo.Calificar(ctx, id, req.Calificacion, req.Comentario); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrEstadoInvalido, "solo se pueden calificar solicitudes completadas")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Codigo, appErrors.ErrInternal.Status, "no se pudo guardar la calificación")
	}

	solicitud.Calificacion = &req.Calificacion
	comentario := req.Comentario
	solicitud.ComentarioUsuario = &comentario
	return solicitud, nil
}

// Exportar renders the filtered request list as CSV or PDF. Pagination
// is widened to the maximum page size; callers page through large sets.
func (s *SolicitudService) Exportar(ctx context.Context, filter models.SolicitudFilter, formato string) ([]byte, string, string, error) {
	filter.Limite = paginate.MaxLimite
	if filter.Pagina < 1 {
		filter.Pagina = 1
	}

	solicitudes, _, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Codigo, appErrors.ErrInternal.Status, "no se pudieron cargar las solicitudes")
	}

	fecha := time.Now().UTC().Format("2006-01-02")

	switch formato {
	case "csv", "":
		data, err := export.SolicitudesCSV(solicitudes)
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Codigo, appErrors.ErrInternal.Status, "no se pudo generar el CSV")
		}
		return data, "text/csv", fmt.Sprintf("solicitudes-%s.csv", fecha), nil
	case "pdf":
		data, err := export.SolicitudesPDF(solicitudes, "Solicitudes de flyer")
		if err != nil {
			return nil, "", "", appErrors.Wrap(err, appErrors.ErrInternal.Codigo, appErrors.ErrInternal.Status, "no se pudo generar el PDF")
		}
		return data, "application/pdf", fmt.Sprintf("solicitudes-%s.pdf", fecha), nil
	default:
		return nil, "", "", appErrors.WithViolations([]appErrors.FieldError{{
			Campo:   "formato",
			Mensaje: "debe ser uno de: csv, pdf",
			Valor:   formato,
		}})
	}
}

func (s *SolicitudService) findByID(ctx context.Context, id string) (*models.SolicitudFlyer, error) {
	solicitud, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "solicitud no encontrada")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Codigo, appErrors.ErrInternal.Status, "no se pudo cargar la solicitud")
	}
	return solicitud, nil
}
