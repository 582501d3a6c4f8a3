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

// EventoRepository provides database access for events.
type EventoRepository struct {
	db *sqlx.DB
}

// NewEventoRepository creates a new instance of EventoRepository.
func NewEventoRepository(db *sqlx.DB) *EventoRepository {
	return &EventoRepository{db: db}
}

const eventoColumns = "id, titulo, descripcion, categoria_id, lugar, direccion, ciudad, fecha_inicio, fecha_fin, precio, imagen_url, destacado, activo, vistas, creado_por, created_at, updated_at"

// FindByID returns an event by identifier.
func (r *EventoRepository) FindByID(ctx context.Context, id string) (*models.Evento, error) {
	query := fmt.Sprintf("SELECT %s FROM eventos WHERE id = ? LIMIT 1", eventoColumns)
	var evento models.Evento
	if err := r.db.GetContext(ctx, &evento, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find evento by id: %w", err)
	}
	return &evento, nil
}

// List returns events matching the filter spec with total count.
func (r *EventoRepository) List(ctx context.Context, filter models.EventoFilter) ([]models.Evento, int, error) {
	baseQuery := `FROM eventos WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.CategoriaID != nil {
		conditions = append(conditions, "categoria_id = ?")
		args = append(args, *filter.CategoriaID)
	}
	if filter.Destacado != nil {
		conditions = append(conditions, "destacado = ?")
		args = append(args, *filter.Destacado)
	}
	if filter.Activo != nil {
		conditions = append(conditions, "activo = ?")
		args = append(args, *filter.Activo)
	}
	if filter.Ciudad != "" {
		conditions = append(conditions, "LOWER(ciudad) = ?")
		args = append(args, strings.ToLower(filter.Ciudad))
	}
	if filter.FechaDesde != nil {
		conditions = append(conditions, "fecha_inicio >= ?")
		args = append(args, *filter.FechaDesde)
	}
	if filter.FechaHasta != nil {
		// fechaHasta carries a bare date; the range covers that whole day.
		conditions = append(conditions, "fecha_inicio < ?")
		args = append(args, filter.FechaHasta.AddDate(0, 0, 1))
	}
	if filter.Busqueda != "" {
		conditions = append(conditions, "(LOWER(titulo) LIKE ? OR LOWER(descripcion) LIKE ?)")
		needle := "%" + strings.ToLower(filter.Busqueda) + "%"
		args = append(args, needle, needle)
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	ordenarPor := sortColumn(filter.OrdenarPor, map[string]bool{
		"created_at":   true,
		"fecha_inicio": true,
		"titulo":       true,
		"vistas":       true,
	})
	orden := sortOrder(filter.Orden)
	p := paginate.Normalizar(filter.Pagina, filter.Limite)

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d",
		eventoColumns, baseQuery, ordenarPor, orden, p.Limite, p.Offset())

	var eventos []models.Evento
	if err := r.db.SelectContext(ctx, &eventos, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list eventos: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count eventos: %w", err)
	}

	return eventos, total, nil
}

// Destacados returns the active highlighted events, newest first.
func (r *EventoRepository) Destacados(ctx context.Context, limite int) ([]models.Evento, error) {
	if limite <= 0 || limite > paginate.MaxLimite {
		limite = paginate.DefaultLimite
	}
	query := fmt.Sprintf("SELECT %s FROM eventos WHERE destacado = TRUE AND activo = TRUE ORDER BY fecha_inicio ASC LIMIT %d", eventoColumns, limite)
	var eventos []models.Evento
	if err := r.db.SelectContext(ctx, &eventos, query); err != nil {
		return nil, fmt.Errorf("list eventos destacados: %w", err)
	}
	return eventos, nil
}

// Create inserts a new event.
func (r *EventoRepository) Create(ctx context.Context, evento *models.Evento) error {
	if evento.ID == "" {
		evento.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if evento.CreatedAt.IsZero() {
		evento.CreatedAt = now
	}
	evento.UpdatedAt = now

	const query = `INSERT INTO eventos (id, titulo, descripcion, categoria_id, lugar, direccion, ciudad, fecha_inicio, fecha_fin, precio, imagen_url, destacado, activo, vistas, creado_por, created_at, updated_at)
		VALUES (:id, :titulo, :descripcion, :categoria_id, :lugar, :direccion, :ciudad, :fecha_inicio, :fecha_fin, :precio, :imagen_url, :destacado, :activo, :vistas, :creado_por, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, evento); err != nil {
		return fmt.Errorf("create evento: %w", err)
	}
	return nil
}

// Update updates mutable fields of an event.
func (r *EventoRepository) Update(ctx context.Context, evento *models.Evento) error {
	evento.UpdatedAt = time.Now().UTC()
	const query = `UPDATE eventos SET titulo = :titulo, descripcion = :descripcion, categoria_id = :categoria_id, lugar = :lugar, direccion = :direccion, ciudad = :ciudad, fecha_inicio = :fecha_inicio, fecha_fin = :fecha_fin, precio = :precio, imagen_url = :imagen_url, destacado = :destacado, activo = :activo, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, evento); err != nil {
		return fmt.Errorf("update evento: %w", err)
	}
	return nil
}

// Delete performs a soft delete by marking the event inactive.
func (r *EventoRepository) Delete(ctx context.Context, id string) error {
	const query = `UPDATE eventos SET activo = FALSE, updated_at = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("delete evento: %w", err)
	}
	return nil
}

// IncrementarVistas bumps the event view counter.
func (r *EventoRepository) IncrementarVistas(ctx context.Context, id string) error {
	const query = `UPDATE eventos SET vistas = vistas + 1 WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("incrementar vistas: %w", err)
	}
	return nil
}
