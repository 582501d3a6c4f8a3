package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/agenda-cultural/agenda-api/internal/models"
)

// CategoriaRepository provides database access for event categories.
type CategoriaRepository struct {
	db *sqlx.DB
}

// NewCategoriaRepository creates a new instance of CategoriaRepository.
func NewCategoriaRepository(db *sqlx.DB) *CategoriaRepository {
	return &CategoriaRepository{db: db}
}

const categoriaColumns = "id, nombre, descripcion, icono, color, activo, created_at, updated_at"

// List returns every category, optionally restricted to active ones.
func (r *CategoriaRepository) List(ctx context.Context, soloActivas bool) ([]models.Categoria, error) {
	query := fmt.Sprintf("SELECT %s FROM categorias", categoriaColumns)
	if soloActivas {
		query += " WHERE activo = TRUE"
	}
	query += " ORDER BY nombre ASC"

	var categorias []models.Categoria
	if err := r.db.SelectContext(ctx, &categorias, query); err != nil {
		return nil, fmt.Errorf("list categorias: %w", err)
	}
	return categorias, nil
}

// FindByID returns a category by identifier.
func (r *CategoriaRepository) FindByID(ctx context.Context, id string) (*models.Categoria, error) {
	query := fmt.Sprintf("SELECT %s FROM categorias WHERE id = ? LIMIT 1", categoriaColumns)
	var categoria models.Categoria
	if err := r.db.GetContext(ctx, &categoria, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find categoria by id: %w", err)
	}
	return &categoria, nil
}

// FindByNombre returns a category by its unique name.
func (r *CategoriaRepository) FindByNombre(ctx context.Context, nombre string) (*models.Categoria, error) {
	query := fmt.Sprintf("SELECT %s FROM categorias WHERE nombre = ? LIMIT 1", categoriaColumns)
	var categoria models.Categoria
	if err := r.db.GetContext(ctx, &categoria, query, nombre); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find categoria by nombre: %w", err)
	}
	return &categoria, nil
}

// Create inserts a new category.
func (r *CategoriaRepository) Create(ctx context.Context, categoria *models.Categoria) error {
	if categoria.ID == "" {
		categoria.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if categoria.CreatedAt.IsZero() {
		categoria.CreatedAt = now
	}
	categoria.UpdatedAt = now

	const query = `INSERT INTO categorias (id, nombre, descripcion, icono, color, activo, created_at, updated_at)
		VALUES (:id, :nombre, :descripcion, :icono, :color, :activo, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, categoria); err != nil {
		return fmt.Errorf("create categoria: %w", err)
	}
	return nil
}

// Update updates mutable fields of a category.
func (r *CategoriaRepository) Update(ctx context.Context, categoria *models.Categoria) error {
	categoria.UpdatedAt = time.Now().UTC()
	const query = `UPDATE categorias SET nombre = :nombre, descripcion = :descripcion, icono = :icono, color = :color, activo = :activo, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, categoria); err != nil {
		return fmt.Errorf("update categoria: %w", err)
	}
	return nil
}

// Delete performs a soft delete by marking the category inactive.
func (r *CategoriaRepository) Delete(ctx context.Context, id string) error {
	const query = `UPDATE categorias SET activo = FALSE, updated_at = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("delete categoria: %w", err)
	}
	return nil
}

// CountEventos returns how many events reference the category.
func (r *CategoriaRepository) CountEventos(ctx context.Context, id string) (int, error) {
	const query = `SELECT COUNT(*) FROM eventos WHERE categoria_id = ?`
	var total int
	if err := r.db.GetContext(ctx, &total, query, id); err != nil {
		return 0, fmt.Errorf("count eventos por categoria: %w", err)
	}
	return total, nil
}
