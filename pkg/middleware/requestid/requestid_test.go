package requestid

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func doRequest(t *testing.T, inbound string) (*httptest.ResponseRecorder, string) {
	t.Helper()
	var visto string
	engine := gin.New()
	engine.Use(Middleware())
	engine.GET("/", func(c *gin.Context) {
		visto = Value(c)
		c.Status(http.StatusOK)
	})

	req, err := http.NewRequest(http.MethodGet, "/", nil)
	require.NoError(t, err)
	if inbound != "" {
		req.Header.Set("X-Request-ID", inbound)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w, visto
}

func TestRequestIDGenerado(t *testing.T) {
	w, visto := doRequest(t, "")

	echoed := w.Header().Get("X-Request-ID")
	assert.Equal(t, visto, echoed)
	_, err := uuid.Parse(echoed)
	assert.NoError(t, err)
}

func TestRequestIDEntranteSeConserva(t *testing.T) {
	w, visto := doRequest(t, "upstream-abc_123")

	assert.Equal(t, "upstream-abc_123", visto)
	assert.Equal(t, "upstream-abc_123", w.Header().Get("X-Request-ID"))
}

func TestRequestIDEntranteInvalidoSeReemplaza(t *testing.T) {
	for _, inbound := range []string{"con espacios no", "id;con;puntos\x7f", strings.Repeat("x", 65)} {
		w, _ := doRequest(t, inbound)
		assert.NotEqual(t, inbound, w.Header().Get("X-Request-ID"), "inbound %q", inbound)
	}
}
