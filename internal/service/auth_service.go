package service

import (
	"context"
	"crypto/rand"
	"database/sql"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/agenda-cultural/agenda-api/internal/models"
	appErrors "github.com/agenda-cultural/agenda-api/pkg/errors"
	"github.com/agenda-cultural/agenda-api/pkg/validation"
)

type authUsuarioRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.Usuario, error)
	FindByID(ctx context.Context, id string) (*models.Usuario, error)
	Create(ctx context.Context, usuario *models.Usuario) error
	UpdateUltimoAcceso(ctx context.Context, id string, ts time.Time) error
	UpdatePassword(ctx context.Context, id, passwordHash string, updatedAt time.Time) error
	RevokeUserRefreshTokens(ctx context.Context, usuarioID string) error
	CreateRefreshToken(ctx context.Context, token *models.RefreshToken) error
	FindRefreshToken(ctx context.Context, token string) (*models.RefreshToken, error)
	RevokeRefreshToken(ctx context.Context, id string, revokedAt time.Time) error
}

// AuthConfig defines configuration for authentication flows.
type AuthConfig struct {
	AccessTokenSecret  string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	Issuer             string
}

// AuthService provides authentication use cases.
type AuthService struct {
	repo      authUsuarioRepository
	validator *validator.Validate
	logger    *zap.Logger
	config    AuthConfig
}

// NewAuthService constructs an AuthService instance.
func NewAuthService(repo authUsuarioRepository, validate *validator.Validate, logger *zap.Logger, config AuthConfig) *AuthService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validation.New()
	}
	return &AuthService{repo: repo, validator: validate, logger: logger, config: config}
}

// Registro creates a new account in the usuario role.
func (s *AuthService) Registro(ctx context.Context, req models.RegistroRequest) (*models.Usuario, error) {
	if err := validation.Check(s.validator, req); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "el email ya está registrado")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Codigo, appErrors.ErrInternal.Status, "no se pudo verificar el email")
	}

	passwordHash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Codigo, appErrors.ErrInternal.Status, "no se pudo procesar la contraseña")
	}

	usuario := &models.Usuario{
		ID:           uuid.NewString(),
		Nombre:       strings.TrimSpace(req.Nombre),
		Email:        email,
		PasswordHash: string(passwordHash),
		Rol:          models.RolUsuario,
		Activo:       true,
	}

	if err := s.repo.Create(ctx, usuario); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Codigo, appErrors.ErrInternal.Status, "no se pudo crear la cuenta")
	}

	s.logger.Info("cuenta registrada", zap.String("usuario_id", usuario.ID))
	return usuario, nil
}

// Login authenticates a user and returns issued tokens.
func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	if err := validation.Check(s.validator, req); err != nil {
		return nil, err
	}

	usuario, err := s.repo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrCredencialesInvalidas, "")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Codigo, appErrors.ErrInternal.Status, "no se pudo cargar el usuario")
	}

	if !usuario.Activo {
		return nil, appErrors.Clone(appErrors.ErrCuentaDesactivada, "")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usuario.PasswordHash), []byte(req.Password)); err != nil {
		return nil, appErrors.Clone(appErrors.ErrCredencialesInvalidas, "")
	}

	accessToken, err := s.generateAccessToken(usuario)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Codigo, appErrors.ErrInternal.Status, "no se pudo emitir el token de acceso")
	}

	refreshToken, err := s.issueRefreshToken(ctx, usuario.ID, req.IP, req.UserAgent)
	if err != nil {
		return nil, err
	}

	if err := s.repo.UpdateUltimoAcceso(ctx, usuario.ID, time.Now().UTC()); err != nil {
		s.logger.Warn("no se pudo actualizar el último acceso", zap.Error(err))
	}

	return &models.LoginResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken.Token,
		ExpiresIn:    int64(s.config.AccessTokenExpiry.Seconds()),
		IssuedAt:     time.Now().UTC(),
		Usuario: models.UsuarioInfo{
			ID:     usuario.ID,
			Nombre: usuario.Nombre,
			Email:  usuario.Email,
			Rol:    usuario.Rol,
		},
	}, nil
}

// RefreshToken exchanges a refresh token for a new access token pair.
// Tokens are single use: the presented token is revoked on rotation.
func (s *AuthService) RefreshToken(ctx context.Context, req models.RefreshTokenRequest) (*models.RefreshTokenResponse, error) {
	if err := validation.Check(s.validator, req); err != nil {
		return nil, err
	}

	stored, err := s.repo.FindRefreshToken(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "refresh token desconocido")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Codigo, appErrors.ErrInternal.Status, "no se pudo cargar el refresh token")
	}

	if stored.Revocado || time.Now().UTC().After(stored.ExpiresAt) {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "refresh token expirado o revocado")
	}

	usuario, err := s.repo.FindByID(ctx, stored.UsuarioID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrUnauthorized, "la cuenta asociada ya no existe")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Codigo, appErrors.ErrInternal.Status, "no se pudo cargar el usuario")
	}

	if !usuario.Activo {
		return nil, appErrors.Clone(appErrors.ErrCuentaDesactivada, "")
	}

	if err := s.repo.RevokeRefreshToken(ctx, stored.ID, time.Now().UTC()); err != nil {
		s.logger.Warn("no se pudo revocar el refresh token usado", zap.Error(err))
	}

	accessToken, err := s.generateAccessToken(usuario)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Codigo, appErrors.ErrInternal.Status, "no se pudo emitir el token de acceso")
	}

	newRefresh, err := s.issueRefreshToken(ctx, usuario.ID, req.IP, req.UserAgent)
	if err != nil {
		return nil, err
	}

	return &models.RefreshTokenResponse{
		AccessToken:  accessToken,
		RefreshToken: newRefresh.Token,
		ExpiresIn:    int64(s.config.AccessTokenExpiry.Seconds()),
		IssuedAt:     time.Now().UTC(),
	}, nil
}

// Logout revokes the provided refresh token.
func (s *AuthService) Logout(ctx context.Context, refreshToken, usuarioID string) error {
	stored, err := s.repo.FindRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrUnauthorized, "refresh token desconocido")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Codigo, appErrors.ErrInternal.Status, "no se pudo cargar el refresh token")
	}

	if stored.UsuarioID != usuarioID {
		return appErrors.Clone(appErrors.ErrForbidden, "el token no pertenece al usuario")
	}

	if err := s.repo.RevokeRefreshToken(ctx, stored.ID, time.Now().UTC()); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Codigo, appErrors.ErrInternal.Status, "no se pudo revocar el refresh token")
	}
	return nil
}

// CambiarPassword changes the password and revokes every live session.
func (s *AuthService) CambiarPassword(ctx context.Context, usuarioID string, req models.CambiarPasswordRequest) error {
	if err := validation.Check(s.validator, req); err != nil {
		return err
	}

	usuario, err := s.repo.FindByID(ctx, usuarioID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "usuario no encontrado")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Codigo, appErrors.ErrInternal.Status, "no se pudo cargar el usuario")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(usuario.PasswordHash), []byte(req.PasswordActual)); err != nil {
		return appErrors.Clone(appErrors.ErrForbidden, "la contraseña actual no coincide")
	}

	newHash, err := bcrypt.GenerateFromPassword([]byte(req.PasswordNuevo), bcrypt.DefaultCost)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Codigo, appErrors.ErrInternal.Status, "no se pudo procesar la contraseña")
	}

	if err := s.repo.UpdatePassword(ctx, usuarioID, string(newHash), time.Now().UTC()); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Codigo, appErrors.ErrInternal.Status, "no se pudo actualizar la contraseña")
	}

	if err := s.repo.RevokeUserRefreshTokens(ctx, usuarioID); err != nil {
		s.logger.Warn("no se pudieron revocar los refresh tokens", zap.Error(err))
	}

	return nil
}

// ValidateToken parses and validates an access token returning the claims.
func (s *AuthService) ValidateToken(tokenString string) (*models.JWTClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &models.JWTClaims{}, func(token *jwt.Token) (interface{}, error) {
		if token.Method != jwt.SigningMethodHS256 {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.config.AccessTokenSecret), nil
	})
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrUnauthorized.Codigo, appErrors.ErrUnauthorized.Status, "token inválido")
	}

	claims, ok := token.Claims.(*models.JWTClaims)
	if !ok || !token.Valid {
		return nil, appErrors.Clone(appErrors.ErrUnauthorized, "claims inválidos")
	}

	return claims, nil
}

func (s *AuthService) issueRefreshToken(ctx context.Context, usuarioID, ip, userAgent string) (*models.RefreshToken, error) {
	value, err := s.generateRefreshTokenString()
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Codigo, appErrors.ErrInternal.Status, "no se pudo crear el refresh token")
	}

	token := &models.RefreshToken{
		ID:        uuid.NewString(),
		UsuarioID: usuarioID,
		Token:     value,
		ExpiresAt: time.Now().UTC().Add(s.config.RefreshTokenExpiry),
		CreatedAt: time.Now().UTC(),
		IPAddress: ip,
		UserAgent: userAgent,
	}

	if err := s.repo.CreateRefreshToken(ctx, token); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Codigo, appErrors.ErrInternal.Status, "no se pudo guardar el refresh token")
	}
	return token, nil
}

func (s *AuthService) generateAccessToken(usuario *models.Usuario) (string, error) {
	issuedAt := time.Now().UTC()
	claims := &models.JWTClaims{
		UserID: usuario.ID,
		Rol:    usuario.Rol,
		Email:  usuario.Email,
		Nombre: usuario.Nombre,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    s.config.Issuer,
			Subject:   usuario.ID,
			ExpiresAt: jwt.NewNumericDate(issuedAt.Add(s.config.AccessTokenExpiry)),
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			NotBefore: jwt.NewNumericDate(issuedAt),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.config.AccessTokenSecret))
}

func (s *AuthService) generateRefreshTokenString() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
