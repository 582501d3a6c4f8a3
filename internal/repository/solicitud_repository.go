package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/agenda-cultural/agenda-api/internal/models"
	"github.com/agenda-cultural/agenda-api/pkg/paginate"
)

// SolicitudRepository provides database access for flyer requests.
type SolicitudRepository struct {
	db *sqlx.DB
}

// NewSolicitudRepository creates a new instance of SolicitudRepository.
func NewSolicitudRepository(db *sqlx.DB) *SolicitudRepository {
	return &SolicitudRepository{db: db}
}

const solicitudColumns = "id, usuario_id, nombre_evento, tipo_evento, fecha_evento, descripcion, estilo_preferido, colores_preferidos, email_contacto, telefono_contacto, estado, prioridad, notas_admin, archivo_resultado, fecha_completado, calificacion, comentario_usuario, created_at, updated_at"

// FindByID returns a flyer request by identifier.
func (r *SolicitudRepository) FindByID(ctx context.Context, id string) (*models.SolicitudFlyer, error) {
	query := fmt.Sprintf("SELECT %s FROM solicitudes_flyer WHERE id = ? LIMIT 1", solicitudColumns)
	var solicitud models.SolicitudFlyer
	if err := r.db.GetContext(ctx, &solicitud, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find solicitud by id: %w", err)
	}
	return &solicitud, nil
}

// List returns flyer requests matching the filter spec with total count.
func (r *SolicitudRepository) List(ctx context.Context, filter models.SolicitudFilter) ([]models.SolicitudFlyer, int, error) {
	baseQuery := `FROM solicitudes_flyer WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Estado != nil {
		conditions = append(conditions, "estado = ?")
		args = append(args, *filter.Estado)
	}
	if filter.Prioridad != nil {
		conditions = append(conditions, "prioridad = ?")
		args = append(args, *filter.Prioridad)
	}
	if filter.UsuarioID != "" {
		conditions = append(conditions, "usuario_id = ?")
		args = append(args, filter.UsuarioID)
	}
	if filter.Busqueda != "" {
		conditions = append(conditions, "(LOWER(nombre_evento) LIKE ? OR LOWER(descripcion) LIKE ?)")
		needle := "%" + strings.ToLower(filter.Busqueda) + "%"
		args = append(args, needle, needle)
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	ordenarPor := sortColumn(filter.OrdenarPor, map[string]bool{
		"created_at":   true,
		"prioridad":    true,
		"estado":       true,
		"fecha_evento": true,
	})
	orden := sortOrder(filter.Orden)
	p := paginate.Normalizar(filter.Pagina, filter.Limite)

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d",
		solicitudColumns, baseQuery, ordenarPor, orden, p.Limite, p.Offset())

	var solicitudes []models.SolicitudFlyer
	if err := r.db.SelectContext(ctx, &solicitudes, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list solicitudes: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count solicitudes: %w", err)
	}

	return solicitudes, total, nil
}

// Create inserts a new flyer request.
func (r *SolicitudRepository) Create(ctx context.Context, solicitud *models.SolicitudFlyer) error {
	if solicitud.ID == "" {
		solicitud.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if solicitud.CreatedAt.IsZero() {
		solicitud.CreatedAt = now
	}
	solicitud.UpdatedAt = now

	const query = `INSERT INTO solicitudes_flyer (id, usuario_id, nombre_evento, tipo_evento, fecha_evento, descripcion, estilo_preferido, colores_preferidos, email_contacto, telefono_contacto, estado, prioridad, created_at, updated_at)
		VALUES (:id, :usuario_id, :nombre_evento, :tipo_evento, :fecha_evento, :descripcion, :estilo_preferido, :colores_preferidos, :email_contacto, :telefono_contacto, :estado, :prioridad, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, solicitud); err != nil {
		return fmt.Errorf("create solicitud: %w", err)
	}
	return nil
}

// UpdateContenido updates the owner-editable descriptive fields.
func (r *SolicitudRepository) UpdateContenido(ctx context.Context, solicitud *models.SolicitudFlyer) error {
	solicitud.UpdatedAt = time.Now().UTC()
	const query = `UPDATE solicitudes_flyer SET nombre_evento = :nombre_evento, tipo_evento = :tipo_evento, fecha_evento = :fecha_evento, descripcion = :descripcion, estilo_preferido = :estilo_preferido, colores_preferidos = :colores_preferidos, email_contacto = :email_contacto, telefono_contacto = :telefono_contacto, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, solicitud); err != nil {
		return fmt.Errorf("update solicitud contenido: %w", err)
	}
	return nil
}

// UpdateEstadoParams carries a validated state change plus side effects.
type UpdateEstadoParams struct {
	ID              string
	EstadoAnterior  models.EstadoSolicitud
	Estado          models.EstadoSolicitud
	Prioridad       *models.PrioridadSolicitud
	NotasAdmin      *string
	FechaCompletado *time.Time
	UpdatedAt       time.Time
}

// UpdateEstado applies a state transition guarded by an optimistic check
// on the previous state. Zero affected rows means another writer moved
// the row first; that surfaces as sql.ErrNoRows for the service to map.
func (r *SolicitudRepository) UpdateEstado(ctx context.Context, params UpdateEstadoParams) error {
	sets := []string{"estado = ?", "updated_at = ?"}
	args := []interface{}{params.Estado, params.UpdatedAt}

	if params.Prioridad != nil {
		sets = append(sets, "prioridad = ?")
		args = append(args, *params.Prioridad)
	}
	if params.NotasAdmin != nil {
		sets = append(sets, "notas_admin = ?")
		args = append(args, *params.NotasAdmin)
	}
	if params.FechaCompletado != nil {
		sets = append(sets, "fecha_completado = ?")
		args = append(args, *params.FechaCompletado)
	}

	query := fmt.Sprintf("UPDATE solicitudes_flyer SET %s WHERE id = ? AND estado = ?", strings.Join(sets, ", "))
	args = append(args, params.ID, params.EstadoAnterior)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update solicitud estado: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("update solicitud estado rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Calificar stores the post-completion feedback. The estado guard keeps a
// concurrent transition from being rated retroactively.
func (r *SolicitudRepository) Calificar(ctx context.Context, id string, calificacion int, comentario string) error {
	const query = `UPDATE solicitudes_flyer SET calificacion = ?, comentario_usuario = ?, updated_at = ? WHERE id = ? AND estado = ?`
	result, err := r.db.ExecContext(ctx, query, calificacion, comentario, time.Now().UTC(), id, models.EstadoCompletado)
	if err != nil {
		return fmt.Errorf("calificar solicitud: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("calificar solicitud rows affected: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
