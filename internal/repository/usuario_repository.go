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

// UsuarioRepository provides database access for account management.
type UsuarioRepository struct {
	db *sqlx.DB
}

// NewUsuarioRepository creates a new instance of UsuarioRepository.
func NewUsuarioRepository(db *sqlx.DB) *UsuarioRepository {
	return &UsuarioRepository{db: db}
}

const usuarioColumns = "id, nombre, email, password_hash, rol, activo, email_verificado, ultimo_acceso, created_at, updated_at"

// FindByEmail returns a user by email address.
func (r *UsuarioRepository) FindByEmail(ctx context.Context, email string) (*models.Usuario, error) {
	query := fmt.Sprintf("SELECT %s FROM usuarios WHERE email = ? LIMIT 1", usuarioColumns)
	var usuario models.Usuario
	if err := r.db.GetContext(ctx, &usuario, query, email); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find usuario by email: %w", err)
	}
	return &usuario, nil
}

// FindByID returns a user by identifier.
func (r *UsuarioRepository) FindByID(ctx context.Context, id string) (*models.Usuario, error) {
	query := fmt.Sprintf("SELECT %s FROM usuarios WHERE id = ? LIMIT 1", usuarioColumns)
	var usuario models.Usuario
	if err := r.db.GetContext(ctx, &usuario, query, id); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find usuario by id: %w", err)
	}
	return &usuario, nil
}

// UpdateUltimoAcceso stamps the last successful login.
func (r *UsuarioRepository) UpdateUltimoAcceso(ctx context.Context, id string, ts time.Time) error {
	const query = `UPDATE usuarios SET ultimo_acceso = ?, updated_at = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, ts, ts, id); err != nil {
		return fmt.Errorf("update ultimo acceso: %w", err)
	}
	return nil
}

// UpdatePassword updates the stored password hash.
func (r *UsuarioRepository) UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error {
	const query = `UPDATE usuarios SET password_hash = ?, updated_at = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, passwordHash, updatedAt, id); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	return nil
}

// List returns users based on filters with total count.
func (r *UsuarioRepository) List(ctx context.Context, filter models.UsuarioFilter) ([]models.Usuario, int, error) {
	baseQuery := `FROM usuarios WHERE 1=1`
	var conditions []string
	var args []interface{}

	if filter.Rol != nil {
		conditions = append(conditions, "rol = ?")
		args = append(args, *filter.Rol)
	}
	if filter.Activo != nil {
		conditions = append(conditions, "activo = ?")
		args = append(args, *filter.Activo)
	}
	if filter.Busqueda != "" {
		conditions = append(conditions, "(LOWER(email) LIKE ? OR LOWER(nombre) LIKE ?)")
		needle := "%" + strings.ToLower(filter.Busqueda) + "%"
		args = append(args, needle, needle)
	}

	if len(conditions) > 0 {
		baseQuery += " AND " + strings.Join(conditions, " AND ")
	}

	ordenarPor := sortColumn(filter.OrdenarPor, map[string]bool{
		"created_at": true,
		"nombre":     true,
		"email":      true,
	})
	orden := sortOrder(filter.Orden)
	p := paginate.Normalizar(filter.Pagina, filter.Limite)

	listQuery := fmt.Sprintf("SELECT %s %s ORDER BY %s %s LIMIT %d OFFSET %d",
		usuarioColumns, baseQuery, ordenarPor, orden, p.Limite, p.Offset())

	var usuarios []models.Usuario
	if err := r.db.SelectContext(ctx, &usuarios, listQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("list usuarios: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s", baseQuery)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count usuarios: %w", err)
	}

	return usuarios, total, nil
}

// Create inserts a new user.
func (r *UsuarioRepository) Create(ctx context.Context, usuario *models.Usuario) error {
	if usuario.ID == "" {
		usuario.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if usuario.CreatedAt.IsZero() {
		usuario.CreatedAt = now
	}
	usuario.UpdatedAt = now

	const query = `INSERT INTO usuarios (id, nombre, email, password_hash, rol, activo, email_verificado, created_at, updated_at)
		VALUES (:id, :nombre, :email, :password_hash, :rol, :activo, :email_verificado, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, usuario); err != nil {
		return fmt.Errorf("create usuario: %w", err)
	}
	return nil
}

// Update updates mutable fields of a user.
func (r *UsuarioRepository) Update(ctx context.Context, usuario *models.Usuario) error {
	usuario.UpdatedAt = time.Now().UTC()
	const query = `UPDATE usuarios SET nombre = :nombre, rol = :rol, activo = :activo, email_verificado = :email_verificado, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, usuario); err != nil {
		return fmt.Errorf("update usuario: %w", err)
	}
	return nil
}

// Delete performs a soft delete by marking the account inactive.
func (r *UsuarioRepository) Delete(ctx context.Context, id string) error {
	const query = `UPDATE usuarios SET activo = FALSE, updated_at = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("delete usuario: %w", err)
	}
	return nil
}

// CambiarRol swaps the user's role.
func (r *UsuarioRepository) CambiarRol(ctx context.Context, id string, rol models.Rol) error {
	const query = `UPDATE usuarios SET rol = ?, updated_at = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, rol, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("cambiar rol: %w", err)
	}
	return nil
}

// CreateRefreshToken persists a refresh token entry.
func (r *UsuarioRepository) CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error {
	if token.ID == "" {
		token.ID = uuid.NewString()
	}
	if token.CreatedAt.IsZero() {
		token.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO refresh_tokens (id, usuario_id, token, expires_at, created_at, revocado, revoked_at, ip_address, user_agent)
		VALUES (:id, :usuario_id, :token, :expires_at, :created_at, :revocado, :revoked_at, :ip_address, :user_agent)`
	if _, err := r.db.NamedExecContext(ctx, query, token); err != nil {
		return fmt.Errorf("create refresh token: %w", err)
	}
	return nil
}

// FindRefreshToken returns a refresh token by token string.
func (r *UsuarioRepository) FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error) {
	const query = `SELECT id, usuario_id, token, expires_at, created_at, revocado, revoked_at, ip_address, user_agent FROM refresh_tokens WHERE token = ? LIMIT 1`
	var rt models.RefreshToken
	if err := r.db.GetContext(ctx, &rt, query, token); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("find refresh token: %w", err)
	}
	return &rt, nil
}

// RevokeRefreshToken marks a token as revoked.
func (r *UsuarioRepository) RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error {
	const query = `UPDATE refresh_tokens SET revocado = TRUE, revoked_at = ? WHERE id = ?`
	if _, err := r.db.ExecContext(ctx, query, revokedAt, id); err != nil {
		return fmt.Errorf("revoke refresh token: %w", err)
	}
	return nil
}

// RevokeUserRefreshTokens revokes all refresh tokens for a user.
func (r *UsuarioRepository) RevokeUserRefreshTokens(ctx context.Context, usuarioID string) error {
	const query = `UPDATE refresh_tokens SET revocado = TRUE, revoked_at = ? WHERE usuario_id = ? AND revocado = FALSE`
	if _, err := r.db.ExecContext(ctx, query, time.Now().UTC(), usuarioID); err != nil {
		return fmt.Errorf("revoke usuario refresh tokens: %w", err)
	}
	return nil
}

// sortColumn validates the requested sort column against the allow-list.
func sortColumn(requested string, allowed map[string]bool) string {
	if allowed[requested] {
		return requested
	}
	return "created_at"
}

// sortOrder restricts direction to ASC/DESC.
func sortOrder(requested string) string {
	if strings.ToUpper(requested) == "ASC" {
		return "ASC"
	}
	return "DESC"
}
