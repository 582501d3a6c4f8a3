// Package query translates raw listing query parameters into the typed
// filter specs consumed by the repositories. Unknown keys are ignored and
// values that fail coercion drop that filter silently; the endpoints have
// always been lenient here and clients depend on it.
package query

import (
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/agenda-cultural/agenda-api/internal/models"
	"github.com/agenda-cultural/agenda-api/pkg/paginate"
)

const fechaLayout = "2006-01-02"

// Sort key allow-lists per resource, mapping the public query value to the
// column the repository may order by.
var (
	ordenEventos = map[string]string{
		"fechaInicio": "fecha_inicio",
		"createdAt":   "created_at",
		"titulo":      "titulo",
		"vistas":      "vistas",
	}
	ordenSolicitudes = map[string]string{
		"createdAt":   "created_at",
		"prioridad":   "prioridad",
		"estado":      "estado",
		"fechaEvento": "fecha_evento",
	}
	ordenUsuarios = map[string]string{
		"createdAt": "created_at",
		"nombre":    "nombre",
		"email":     "email",
	}
)

// ParseEventoFilter builds the event listing spec from query parameters.
func ParseEventoFilter(values url.Values) models.EventoFilter {
	f := models.EventoFilter{
		Busqueda: strings.TrimSpace(values.Get("busqueda")),
		Ciudad:   strings.TrimSpace(values.Get("ciudad")),
	}

	if v := strings.TrimSpace(values.Get("categoriaId")); v != "" {
		f.CategoriaID = &v
	}
	f.Destacado = boolFiltro(values.Get("destacado"))
	f.Activo = boolFiltro(values.Get("activo"))
	f.FechaDesde = fechaFiltro(values.Get("fechaDesde"))
	f.FechaHasta = fechaFiltro(values.Get("fechaHasta"))

	f.Pagina, f.Limite = paginacion(values)
	f.OrdenarPor, f.Orden, f.Avisos = ordenamiento(values, ordenEventos)
	return f
}

// ParseSolicitudFilter builds the flyer-request listing spec.
func ParseSolicitudFilter(values url.Values) models.SolicitudFilter {
	f := models.SolicitudFilter{
		Busqueda: strings.TrimSpace(values.Get("busqueda")),
	}

	if v := models.EstadoSolicitud(values.Get("estado")); v != "" && v.EsValido() {
		f.Estado = &v
	}
	if v := models.PrioridadSolicitud(values.Get("prioridad")); v != "" && v.EsValida() {
		f.Prioridad = &v
	}
	f.UsuarioID = strings.TrimSpace(values.Get("usuarioId"))

	f.Pagina, f.Limite = paginacion(values)
	f.OrdenarPor, f.Orden, f.Avisos = ordenamiento(values, ordenSolicitudes)
	return f
}

// ParseUsuarioFilter builds the user listing spec.
func ParseUsuarioFilter(values url.Values) models.UsuarioFilter {
	f := models.UsuarioFilter{
		Busqueda: strings.TrimSpace(values.Get("busqueda")),
	}

	if v := models.Rol(values.Get("rol")); v.EsValido() {
		f.Rol = &v
	}
	f.Activo = boolFiltro(values.Get("activo"))

	f.Pagina, f.Limite = paginacion(values)
	f.OrdenarPor, f.Orden, f.Avisos = ordenamiento(values, ordenUsuarios)
	return f
}

func paginacion(values url.Values) (pagina, limite int) {
	if v, err := strconv.Atoi(values.Get("pagina")); err == nil {
		pagina = v
	}
	if v, err := strconv.Atoi(values.Get("limite")); err == nil {
		limite = v
	}
	return pagina, limite
}

func ordenamiento(values url.Values, permitidos map[string]string) (columna, orden string, avisos []string) {
	columna = "created_at"
	if col, ok := permitidos[values.Get("ordenarPor")]; ok {
		columna = col
	}
	orden, avisos = paginate.ValidarOrden(values.Get("orden"))
	return columna, orden, avisos
}

func boolFiltro(raw string) *bool {
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return nil
	}
	return &v
}

func fechaFiltro(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	t, err := time.Parse(fechaLayout, raw)
	if err != nil {
		return nil
	}
	return &t
}
