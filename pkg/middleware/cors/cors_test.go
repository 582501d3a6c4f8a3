package cors

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenda-cultural/agenda-api/pkg/config"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func doRequest(t *testing.T, cfg config.CORSConfig, method, origin string) *httptest.ResponseRecorder {
	t.Helper()
	engine := gin.New()
	engine.Use(New(cfg))
	engine.GET("/eventos", func(c *gin.Context) { c.Status(http.StatusOK) })

	req, err := http.NewRequest(method, "/eventos", nil)
	require.NoError(t, err)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestCORSSinOrigenesPermiteTodoSinCredenciales(t *testing.T) {
	w := doRequest(t, config.CORSConfig{}, http.MethodGet, "https://cualquiera.example.com")

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSOrigenExplicito(t *testing.T) {
	cfg := config.CORSConfig{AllowedOrigins: []string{"https://agenda.example.com"}}

	w := doRequest(t, cfg, http.MethodGet, "https://agenda.example.com")
	assert.Equal(t, "https://agenda.example.com", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))

	w = doRequest(t, cfg, http.MethodGet, "https://intruso.example.com")
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSPreflight(t *testing.T) {
	w := doRequest(t, config.CORSConfig{}, http.MethodOptions, "https://agenda.example.com")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), "X-Request-ID")
}
