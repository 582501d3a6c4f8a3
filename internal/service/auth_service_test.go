package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/agenda-cultural/agenda-api/internal/models"
	appErrors "github.com/agenda-cultural/agenda-api/pkg/errors"
)

type fakeAuthRepo struct {
	usuarios map[string]*models.Usuario // keyed by email
	tokens   map[string]*models.RefreshToken

	creados   []*models.Usuario
	revocados []string
	passwords map[string]string
}

func newFakeAuthRepo() *fakeAuthRepo {
	return &fakeAuthRepo{
		usuarios:  map[string]*models.Usuario{},
		tokens:    map[string]*models.RefreshToken{},
		passwords: map[string]string{},
	}
}

func (f *fakeAuthRepo) FindByEmail(_ context.Context, email string) (*models.Usuario, error) {
	if u, ok := f.usuarios[email]; ok {
		return u, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAuthRepo) FindByID(_ context.Context, id string) (*models.Usuario, error) {
	for _, u := range f.usuarios {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAuthRepo) Create(_ context.Context, usuario *models.Usuario) error {
	f.usuarios[usuario.Email] = usuario
	f.creados = append(f.creados, usuario)
	return nil
}

func (f *fakeAuthRepo) UpdateUltimoAcceso(_ context.Context, _ string, _ time.Time) error {
	return nil
}

func (f *fakeAuthRepo) UpdatePassword(_ context.Context, id, hash string, _ time.Time) error {
	f.passwords[id] = hash
	return nil
}

func (f *fakeAuthRepo) RevokeUserRefreshTokens(_ context.Context, usuarioID string) error {
	f.revocados = append(f.revocados, usuarioID)
	return nil
}

func (f *fakeAuthRepo) CreateRefreshToken(_ context.Context, token *models.RefreshToken) error {
	f.tokens[token.Token] = token
	return nil
}

func (f *fakeAuthRepo) FindRefreshToken(_ context.Context, token string) (*models.RefreshToken, error) {
	if t, ok := f.tokens[token]; ok {
		return t, nil
	}
	return nil, sql.ErrNoRows
}

func (f *fakeAuthRepo) RevokeRefreshToken(_ context.Context, id string, _ time.Time) error {
	for _, t := range f.tokens {
		if t.ID == id {
			t.Revocado = true
			return nil
		}
	}
	return sql.ErrNoRows
}

func testAuthConfig() AuthConfig {
	return AuthConfig{
		AccessTokenSecret:  "secret-de-prueba",
		AccessTokenExpiry:  time.Hour,
		RefreshTokenExpiry: 24 * time.Hour,
		Issuer:             "agenda-cultural",
	}
}

func seedUsuario(t *testing.T, repo *fakeAuthRepo, email, password string, activo bool) *models.Usuario {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	u := &models.Usuario{
		ID:           "user-" + email,
		Nombre:       "Cuenta de prueba",
		Email:        email,
		PasswordHash: string(hash),
		Rol:          models.RolUsuario,
		Activo:       activo,
	}
	repo.usuarios[email] = u
	return u
}

func TestRegistroAcumulaViolaciones(t *testing.T) {
	svc := NewAuthService(newFakeAuthRepo(), nil, nil, testAuthConfig())

	// Password corto y confirmación distinta deben reportarse juntos.
	_, err := svc.Registro(context.Background(), models.RegistroRequest{
		Nombre:            "Ana",
		Email:             "ana@example.com",
		Password:          "abc",
		ConfirmarPassword: "abcd",
	})
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, "VALIDATION_ERROR", appErr.Codigo)

	campos := map[string]bool{}
	for _, v := range appErr.Errores {
		campos[v.Campo] = true
		assert.Nil(t, v.Valor, "las contraseñas nunca se reflejan en la respuesta")
	}
	assert.True(t, campos["password"])
	assert.True(t, campos["confirmarPassword"])
}

func TestRegistroEmailDuplicado(t *testing.T) {
	repo := newFakeAuthRepo()
	seedUsuario(t, repo, "ana@example.com", "password123", true)
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	_, err := svc.Registro(context.Background(), models.RegistroRequest{
		Nombre:            "Ana",
		Email:             "Ana@Example.com",
		Password:          "password123",
		ConfirmarPassword: "password123",
	})
	require.Error(t, err)
	assert.Equal(t, "CONFLICT", erroresCodigo(t, err))
}

func TestRegistroCreaUsuarioRegular(t *testing.T) {
	repo := newFakeAuthRepo()
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	u, err := svc.Registro(context.Background(), models.RegistroRequest{
		Nombre:            "Ana",
		Email:             "ana@example.com",
		Password:          "password123",
		ConfirmarPassword: "password123",
	})
	require.NoError(t, err)
	assert.Equal(t, models.RolUsuario, u.Rol)
	assert.True(t, u.Activo)
	assert.NotEqual(t, "password123", u.PasswordHash)
}

func TestLogin(t *testing.T) {
	repo := newFakeAuthRepo()
	seedUsuario(t, repo, "ana@example.com", "password123", true)
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	resp, err := svc.Login(context.Background(), models.LoginRequest{
		Email:    "ana@example.com",
		Password: "password123",
	})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-ana@example.com", claims.UserID)
	assert.Equal(t, models.RolUsuario, claims.Rol)
}

func TestLoginCredencialesInvalidas(t *testing.T) {
	repo := newFakeAuthRepo()
	seedUsuario(t, repo, "ana@example.com", "password123", true)
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	// Mismo código para email desconocido y contraseña errada.
	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "nadie@example.com", Password: "x1234567"})
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", erroresCodigo(t, err))

	_, err = svc.Login(context.Background(), models.LoginRequest{Email: "ana@example.com", Password: "incorrecta"})
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", erroresCodigo(t, err))
}

func TestLoginCuentaDesactivada(t *testing.T) {
	repo := newFakeAuthRepo()
	seedUsuario(t, repo, "ana@example.com", "password123", false)
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "ana@example.com", Password: "password123"})
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", erroresCodigo(t, err))
}

func TestRefreshTokenRota(t *testing.T) {
	repo := newFakeAuthRepo()
	seedUsuario(t, repo, "ana@example.com", "password123", true)
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	login, err := svc.Login(context.Background(), models.LoginRequest{Email: "ana@example.com", Password: "password123"})
	require.NoError(t, err)

	refreshed, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, refreshed.RefreshToken)

	// El token presentado queda revocado: un segundo uso falla.
	_, err = svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", erroresCodigo(t, err))
}

func TestRefreshTokenExpirado(t *testing.T) {
	repo := newFakeAuthRepo()
	seedUsuario(t, repo, "ana@example.com", "password123", true)
	repo.tokens["viejo"] = &models.RefreshToken{
		ID:        "tok-1",
		UsuarioID: "user-ana@example.com",
		Token:     "viejo",
		ExpiresAt: time.Now().UTC().Add(-time.Hour),
	}
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	_, err := svc.RefreshToken(context.Background(), models.RefreshTokenRequest{RefreshToken: "viejo"})
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", erroresCodigo(t, err))
}

func TestCambiarPasswordRevocaSesiones(t *testing.T) {
	repo := newFakeAuthRepo()
	u := seedUsuario(t, repo, "ana@example.com", "password123", true)
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	err := svc.CambiarPassword(context.Background(), u.ID, models.CambiarPasswordRequest{
		PasswordActual: "password123",
		PasswordNuevo:  "nuevaclave456",
	})
	require.NoError(t, err)
	assert.Contains(t, repo.revocados, u.ID)
	assert.NotEmpty(t, repo.passwords[u.ID])
}

func TestCambiarPasswordActualIncorrecta(t *testing.T) {
	repo := newFakeAuthRepo()
	u := seedUsuario(t, repo, "ana@example.com", "password123", true)
	svc := NewAuthService(repo, nil, nil, testAuthConfig())

	err := svc.CambiarPassword(context.Background(), u.ID, models.CambiarPasswordRequest{
		PasswordActual: "equivocada",
		PasswordNuevo:  "nuevaclave456",
	})
	require.Error(t, err)
	assert.Equal(t, "FORBIDDEN", erroresCodigo(t, err))
}

func TestValidateTokenRechazaBasura(t *testing.T) {
	svc := NewAuthService(newFakeAuthRepo(), nil, nil, testAuthConfig())

	_, err := svc.ValidateToken("no.es.jwt")
	require.Error(t, err)
	assert.Equal(t, "UNAUTHORIZED", erroresCodigo(t, err))
}
