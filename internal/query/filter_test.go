package query

import (
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agenda-cultural/agenda-api/internal/models"
)

func TestParseEventoFilter(t *testing.T) {
	values := url.Values{}
	values.Set("categoriaId", "cat-1")
	values.Set("destacado", "true")
	values.Set("ciudad", "Córdoba")
	values.Set("fechaDesde", "2025-06-01")
	values.Set("fechaHasta", "2025-06-30")
	values.Set("busqueda", "jazz")
	values.Set("ordenarPor", "fechaInicio")
	values.Set("orden", "asc")
	values.Set("pagina", "2")
	values.Set("limite", "5")

	f := ParseEventoFilter(values)

	require.NotNil(t, f.CategoriaID)
	assert.Equal(t, "cat-1", *f.CategoriaID)
	require.NotNil(t, f.Destacado)
	assert.True(t, *f.Destacado)
	assert.Equal(t, "Córdoba", f.Ciudad)
	require.NotNil(t, f.FechaDesde)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), *f.FechaDesde)
	assert.Equal(t, "jazz", f.Busqueda)
	assert.Equal(t, "fecha_inicio", f.OrdenarPor)
	assert.Equal(t, "ASC", f.Orden)
	assert.Equal(t, 2, f.Pagina)
	assert.Equal(t, 5, f.Limite)
}

func TestParseEventoFilterCoercionesInvalidasSeDescartan(t *testing.T) {
	values := url.Values{}
	values.Set("destacado", "maybe")
	values.Set("fechaDesde", "el martes")
	values.Set("pagina", "dos")
	values.Set("limite", "")

	f := ParseEventoFilter(values)

	assert.Nil(t, f.Destacado)
	assert.Nil(t, f.FechaDesde)
	assert.Zero(t, f.Pagina)
	assert.Zero(t, f.Limite)
}

func TestParseEventoFilterClavesDesconocidasIgnoradas(t *testing.T) {
	values := url.Values{}
	values.Set("colorFavorito", "azul")
	values.Set("ordenarPor", "precio") // not in the allow-list

	f := ParseEventoFilter(values)

	assert.Equal(t, "created_at", f.OrdenarPor)
	assert.Equal(t, "DESC", f.Orden)
}

func TestParseSolicitudFilter(t *testing.T) {
	values := url.Values{}
	values.Set("estado", "en_proceso")
	values.Set("prioridad", "urgente")
	values.Set("usuarioId", "u-9")

	f := ParseSolicitudFilter(values)

	require.NotNil(t, f.Estado)
	assert.Equal(t, models.EstadoEnProceso, *f.Estado)
	require.NotNil(t, f.Prioridad)
	assert.Equal(t, models.PrioridadUrgente, *f.Prioridad)
	assert.Equal(t, "u-9", f.UsuarioID)
}

func TestParseSolicitudFilterEstadoInvalidoSeDescarta(t *testing.T) {
	values := url.Values{}
	values.Set("estado", "archivado")
	values.Set("prioridad", "altisima")

	f := ParseSolicitudFilter(values)

	assert.Nil(t, f.Estado)
	assert.Nil(t, f.Prioridad)
}

func TestParseUsuarioFilter(t *testing.T) {
	values := url.Values{}
	values.Set("rol", "admin")
	values.Set("activo", "false")
	values.Set("busqueda", "maria")
	values.Set("ordenarPor", "email")

	f := ParseUsuarioFilter(values)

	require.NotNil(t, f.Rol)
	assert.Equal(t, models.RolAdmin, *f.Rol)
	require.NotNil(t, f.Activo)
	assert.False(t, *f.Activo)
	assert.Equal(t, "maria", f.Busqueda)
	assert.Equal(t, "email", f.OrdenarPor)
}

func TestParseEventoFilterOrdenInvalidoDejaAviso(t *testing.T) {
	values := url.Values{}
	values.Set("orden", "sideways")

	f := ParseEventoFilter(values)
	assert.Equal(t, "DESC", f.Orden)
	require.Len(t, f.Avisos, 1)
	assert.Contains(t, f.Avisos[0], "orden debe ser ASC o DESC")
}

func TestParseUsuarioFilterRolInvalido(t *testing.T) {
	values := url.Values{}
	values.Set("rol", "superadmin")

	f := ParseUsuarioFilter(values)
	assert.Nil(t, f.Rol)
}
