package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenda-cultural/agenda-api/internal/models"
	appErrors "github.com/agenda-cultural/agenda-api/pkg/errors"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubValidator struct {
	claims *models.JWTClaims
	err    error
}

func (s *stubValidator) ValidateToken(_ string) (*models.JWTClaims, error) {
	return s.claims, s.err
}

func doRequest(t *testing.T, engine *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	t.Helper()
	req, err := http.NewRequest(http.MethodGet, "/protegido", nil)
	require.NoError(t, err)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func protectedEngine(v tokenValidator, extra ...gin.HandlerFunc) *gin.Engine {
	engine := gin.New()
	handlers := append([]gin.HandlerFunc{Auth(v)}, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		claims, _ := ClaimsFrom(c)
		c.String(http.StatusOK, claims.UserID)
	})
	engine.GET("/protegido", handlers...)
	return engine
}

func TestAuthSinHeader(t *testing.T) {
	engine := protectedEngine(&stubValidator{})
	w := doRequest(t, engine, "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthFormatoInvalido(t *testing.T) {
	engine := protectedEngine(&stubValidator{})

	for _, header := range []string{"token-sin-esquema", "Basic abc", "Bearer "} {
		w := doRequest(t, engine, header)
		assert.Equal(t, http.StatusUnauthorized, w.Code, "header %q", header)
	}
}

func TestAuthTokenRechazado(t *testing.T) {
	engine := protectedEngine(&stubValidator{err: appErrors.Clone(appErrors.ErrUnauthorized, "token inválido")})
	w := doRequest(t, engine, "Bearer basura")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthPropagaClaims(t *testing.T) {
	engine := protectedEngine(&stubValidator{claims: &models.JWTClaims{UserID: "user-1", Rol: models.RolUsuario}})
	w := doRequest(t, engine, "Bearer valido")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", w.Body.String())
}

func optionalEngine(v tokenValidator) *gin.Engine {
	engine := gin.New()
	engine.GET("/protegido", AuthOpcional(v), func(c *gin.Context) {
		if claims, ok := ClaimsFrom(c); ok {
			c.String(http.StatusOK, claims.UserID)
			return
		}
		c.String(http.StatusOK, "anonimo")
	})
	return engine
}

func TestAuthOpcionalSinHeader(t *testing.T) {
	engine := optionalEngine(&stubValidator{})
	w := doRequest(t, engine, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonimo", w.Body.String())
}

func TestAuthOpcionalTokenInvalidoSigueAnonimo(t *testing.T) {
	engine := optionalEngine(&stubValidator{err: appErrors.Clone(appErrors.ErrUnauthorized, "token inválido")})
	w := doRequest(t, engine, "Bearer basura")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "anonimo", w.Body.String())
}

func TestAuthOpcionalPropagaClaims(t *testing.T) {
	engine := optionalEngine(&stubValidator{claims: &models.JWTClaims{UserID: "user-1", Rol: models.RolUsuario}})
	w := doRequest(t, engine, "Bearer valido")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "user-1", w.Body.String())
}

func TestRequireRol(t *testing.T) {
	admin := &stubValidator{claims: &models.JWTClaims{UserID: "admin-1", Rol: models.RolAdmin}}
	usuario := &stubValidator{claims: &models.JWTClaims{UserID: "user-1", Rol: models.RolUsuario}}

	w := doRequest(t, protectedEngine(admin, RequireRol(models.RolAdmin)), "Bearer x")
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(t, protectedEngine(usuario, RequireRol(models.RolAdmin)), "Bearer x")
	assert.Equal(t, http.StatusForbidden, w.Code)
}
