package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenda-cultural/agenda-api/internal/models"
)

type fakeUsuarioRepo struct {
	findByID     func(ctx context.Context, id string) (*models.Usuario, error)
	list         func(ctx context.Context, filter models.UsuarioFilter) ([]models.Usuario, int, error)
	update       func(ctx context.Context, usuario *models.Usuario) error
	delete       func(ctx context.Context, id string) error
	cambiarRol   func(ctx context.Context, id string, rol models.Rol) error
	revokeTokens func(ctx context.Context, usuarioID string) error
}

func (f *fakeUsuarioRepo) FindByID(ctx context.Context, id string) (*models.Usuario, error) {
	return f.findByID(ctx, id)
}

func (f *fakeUsuarioRepo) List(ctx context.Context, filter models.UsuarioFilter) ([]models.Usuario, int, error) {
	return f.list(ctx, filter)
}

func (f *fakeUsuarioRepo) Update(ctx context.Context, usuario *models.Usuario) error {
	return f.update(ctx, usuario)
}

func (f *fakeUsuarioRepo) Delete(ctx context.Context, id string) error {
	return f.delete(ctx, id)
}

func (f *fakeUsuarioRepo) CambiarRol(ctx context.Context, id string, rol models.Rol) error {
	return f.cambiarRol(ctx, id, rol)
}

func (f *fakeUsuarioRepo) RevokeUserRefreshTokens(ctx context.Context, usuarioID string) error {
	if f.revokeTokens != nil {
		return f.revokeTokens(ctx, usuarioID)
	}
	return nil
}

func usuarioBase(id string, rol models.Rol) *models.Usuario {
	return &models.Usuario{
		ID:        id,
		Nombre:    "Cuenta",
		Email:     id + "@example.com",
		Rol:       rol,
		Activo:    true,
		CreatedAt: time.Now().UTC(),
	}
}

func TestUsuarioObtenerAjenoEsNotFound(t *testing.T) {
	repo := &fakeUsuarioRepo{
		findByID: func(_ context.Context, id string) (*models.Usuario, error) {
			return usuarioBase(id, models.RolUsuario), nil
		},
	}
	svc := NewUsuarioService(repo, nil, nil)

	_, err := svc.Obtener(context.Background(), "user-2", "user-1", models.RolUsuario)
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", erroresCodigo(t, err))

	propio, err := svc.Obtener(context.Background(), "user-1", "user-1", models.RolUsuario)
	require.NoError(t, err)
	assert.Equal(t, "user-1", propio.ID)
}

func TestUsuarioActualizarActivoRequiereAdmin(t *testing.T) {
	repo := &fakeUsuarioRepo{
		findByID: func(_ context.Context, id string) (*models.Usuario, error) {
			return usuarioBase(id, models.RolUsuario), nil
		},
	}
	svc := NewUsuarioService(repo, nil, nil)

	activo := false
	_, err := svc.Actualizar(context.Background(), "user-1", "user-1", models.RolUsuario, models.ActualizarUsuarioRequest{Activo: &activo})
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", erroresCodigo(t, err))
}

func TestUsuarioActualizarDesactivarRevocaSesiones(t *testing.T) {
	revocado := ""
	repo := &fakeUsuarioRepo{
		findByID: func(_ context.Context, id string) (*models.Usuario, error) {
			return usuarioBase(id, models.RolUsuario), nil
		},
		update: func(_ context.Context, _ *models.Usuario) error { return nil },
		revokeTokens: func(_ context.Context, usuarioID string) error {
			revocado = usuarioID
			return nil
		},
	}
	svc := NewUsuarioService(repo, nil, nil)

	activo := false
	u, err := svc.Actualizar(context.Background(), "user-2", "admin-1", models.RolAdmin, models.ActualizarUsuarioRequest{Activo: &activo})
	require.NoError(t, err)
	assert.False(t, u.Activo)
	assert.Equal(t, "user-2", revocado)
}

func TestUsuarioCambiarRolPropioConflicto(t *testing.T) {
	svc := NewUsuarioService(&fakeUsuarioRepo{}, nil, nil)

	_, err := svc.CambiarRol(context.Background(), "admin-1", "admin-1", models.CambiarRolRequest{Rol: models.RolUsuario})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", erroresCodigo(t, err))
}

func TestUsuarioCambiarRol(t *testing.T) {
	cambiado := models.Rol("")
	repo := &fakeUsuarioRepo{
		findByID: func(_ context.Context, id string) (*models.Usuario, error) {
			return usuarioBase(id, models.RolUsuario), nil
		},
		cambiarRol: func(_ context.Context, _ string, rol models.Rol) error {
			cambiado = rol
			return nil
		},
	}
	svc := NewUsuarioService(repo, nil, nil)

	u, err := svc.CambiarRol(context.Background(), "user-2", "admin-1", models.CambiarRolRequest{Rol: models.RolAdmin})
	require.NoError(t, err)
	assert.Equal(t, models.RolAdmin, u.Rol)
	assert.Equal(t, models.RolAdmin, cambiado)
}

func TestUsuarioCambiarRolSinCambioEsNoOp(t *testing.T) {
	repo := &fakeUsuarioRepo{
		findByID: func(_ context.Context, id string) (*models.Usuario, error) {
			return usuarioBase(id, models.RolAdmin), nil
		},
		cambiarRol: func(_ context.Context, _ string, _ models.Rol) error {
			t.Fatal("no debería tocar el repositorio")
			return nil
		},
	}
	svc := NewUsuarioService(repo, nil, nil)

	u, err := svc.CambiarRol(context.Background(), "user-2", "admin-1", models.CambiarRolRequest{Rol: models.RolAdmin})
	require.NoError(t, err)
	assert.Equal(t, models.RolAdmin, u.Rol)
}

func TestUsuarioEliminarPropioConflicto(t *testing.T) {
	svc := NewUsuarioService(&fakeUsuarioRepo{}, nil, nil)

	err := svc.Eliminar(context.Background(), "admin-1", "admin-1")
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", erroresCodigo(t, err))
}

func TestUsuarioEliminarNoEncontrado(t *testing.T) {
	repo := &fakeUsuarioRepo{
		findByID: func(_ context.Context, _ string) (*models.Usuario, error) {
			return nil, sql.ErrNoRows
		},
	}
	svc := NewUsuarioService(repo, nil, nil)

	err := svc.Eliminar(context.Background(), "user-9", "admin-1")
	require.Error(t, err)
	assert.Equal(t, "NOT_FOUND", erroresCodigo(t, err))
}
