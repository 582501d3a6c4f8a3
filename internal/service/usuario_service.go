package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/agenda-cultural/agenda-api/internal/authz"
	"github.com/agenda-cultural/agenda-api/internal/models"
	appErrors "github.com/agenda-cultural/agenda-api/pkg/errors"
	"github.com/agenda-cultural/agenda-api/pkg/paginate"
	"github.com/agenda-cultural/agenda-api/pkg/validation"
)

type usuarioRepository interface {
	FindByID(ctx context.Context, id string) (*models.Usuario, error)
	List(ctx context.Context, filter models.UsuarioFilter) ([]models.Usuario, int, error)
	Update(ctx context.Context, usuario *models.Usuario) error
	Delete(ctx context.Context, id string) error
	CambiarRol(ctx context.Context, id string, rol models.Rol) error
	RevokeUserRefreshTokens(ctx context.Context, usuarioID string) error
}

// UsuarioService implements account administration use cases.
type UsuarioService struct {
	repo      usuarioRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUsuarioService constructs a UsuarioService.
func NewUsuarioService(repo usuarioRepository, validate *validator.Validate, logger *zap.Logger) *UsuarioService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validation.New()
	}
	return &UsuarioService{repo: repo, validator: validate, logger: logger}
}

// Listar returns a page of accounts. Admin only, enforced at the router.
func (s *UsuarioService) Listar(ctx context.Context, filter models.UsuarioFilter) ([]models.Usuario, *paginate.Resultado, error) {
	if len(filter.Avisos) > 0 {
		s.logger.Debug("parámetros de listado ajustados", zap.Strings("avisos", filter.Avisos))
	}

	usuarios, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Codigo, appErrors.ErrInternal.Status, "no se pudieron listar los usuarios")
	}
	meta := paginate.Normalizar(filter.Pagina, filter.Limite).Resultado(total)
	return usuarios, meta, nil
}

// Obtener returns one account. Non-admins may only read themselves;
// other ids surface as not found.
func (s *UsuarioService) Obtener(ctx context.Context, id, actorID string, rol models.Rol) (*models.Usuario, error) {
	if !authz.CanAccess(id, actorID, rol, authz.AccionLeer) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "usuario no encontrado")
	}
	return s.findByID(ctx, id)
}

// Actualizar edits an account. Owners may rename themselves; toggling
// activo requires the admin role.
func (s *UsuarioService) Actualizar(ctx context.Context, id, actorID string, rol models.Rol, req models.ActualizarUsuarioRequest) (*models.Usuario, error) {
	if err := validation.Check(s.validator, req); err != nil {
		return nil, err
	}
	if !authz.CanAccess(id, actorID, rol, authz.AccionActualizar) {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "usuario no encontrado")
	}

	usuario, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Nombre != nil {
		usuario.Nombre = strings.TrimSpace(*req.Nombre)
	}
	if req.Activo != nil {
		if rol != models.RolAdmin {
			return nil, appErrors.Clone(appErrors.ErrForbidden, "solo un administrador puede activar o desactivar cuentas")
		}
		usuario.Activo = *req.Activo
	}
	usuario.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, usuario); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Codigo, appErrors.ErrInternal.Status, "no se pudo actualizar el usuario")
	}

	if req.Activo != nil && !*req.Activo {
		if err := s.repo.RevokeUserRefreshTokens(ctx, id); err != nil {
			s.logger.Warn("no se pudieron revocar los refresh tokens", zap.Error(err))
		}
	}
	return usuario, nil
}

// Eliminar soft-deletes an account. Admins cannot delete themselves.
func (s *UsuarioService) Eliminar(ctx context.Context, id, actorID string) error {
	if id == actorID {
		return appErrors.Clone(appErrors.ErrConflict, "no puedes eliminar tu propia cuenta")
	}
	if _, err := s.findByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Codigo, appErrors.ErrInternal.Status, "no se pudo eliminar el usuario")
	}
	if err := s.repo.RevokeUserRefreshTokens(ctx, id); err != nil {
		s.logger.Warn("no se pudieron revocar los refresh tokens", zap.Error(err))
	}
	return nil
}

// CambiarRol promotes or demotes an account. Admins cannot change their
// own role so the last admin cannot lock everyone out.
func (s *UsuarioService) CambiarRol(ctx context.Context, id, actorID string, req models.CambiarRolRequest) (*models.Usuario, error) {
	if err := validation.Check(s.validator, req); err != nil {
		return nil, err
	}
	if id == actorID {
		return nil, appErrors.Clone(appErrors.ErrConflict, "no puedes cambiar tu propio rol")
	}

	usuario, err := s.findByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if usuario.Rol == req.Rol {
		return usuario, nil
	}

	if err := s.repo.CambiarRol(ctx, id, req.Rol); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Codigo, appErrors.ErrInternal.Status, "no se pudo cambiar el rol")
	}

	usuario.Rol = req.Rol
	s.logger.Info("rol cambiado",
		zap.String("usuario_id", id),
		zap.String("rol", string(req.Rol)),
		zap.String("actor_id", actorID))
	return usuario, nil
}

func (s *UsuarioService) findByID(ctx context.Context, id string) (*models.Usuario, error) {
	usuario, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "usuario no encontrado")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Codigo, appErrors.ErrInternal.Status, "no se pudo cargar el usuario")
	}
	return usuario, nil
}
