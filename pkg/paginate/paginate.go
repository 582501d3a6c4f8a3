package paginate

import (
	"fmt"
	"strings"
)

const (
	// DefaultLimite is used when limite is absent or non-positive.
	DefaultLimite = 10
	// MaxLimite caps the page size for every listing endpoint.
	MaxLimite = 100
)

// Params holds normalized pagination values for a listing query.
type Params struct {
	Pagina int
	Limite int
}

// Resultado is the pagination metadata attached to list responses.
type Resultado struct {
	PaginaActual         int  `json:"paginaActual"`
	LimitePorPagina      int  `json:"limitePorPagina"`
	TotalRegistros       int  `json:"totalRegistros"`
	TotalPaginas         int  `json:"totalPaginas"`
	TienePaginaAnterior  bool `json:"tienePaginaAnterior"`
	TienePaginaSiguiente bool `json:"tienePaginaSiguiente"`
}

// Normalizar clamps raw pagina/limite values into their legal ranges:
// pagina >= 1, limite in [1, MaxLimite] with DefaultLimite as fallback.
func Normalizar(pagina, limite int) Params {
	if pagina < 1 {
		pagina = 1
	}
	if limite <= 0 {
		limite = DefaultLimite
	}
	if limite > MaxLimite {
		limite = MaxLimite
	}
	return Params{Pagina: pagina, Limite: limite}
}

// Offset computes the row offset for the current page.
func (p Params) Offset() int {
	return (p.Pagina - 1) * p.Limite
}

// Resultado builds the response metadata for the given total row count.
func (p Params) Resultado(total int) *Resultado {
	totalPaginas := 0
	if total > 0 {
		totalPaginas = (total + p.Limite - 1) / p.Limite
	}
	return &Resultado{
		PaginaActual:         p.Pagina,
		LimitePorPagina:      p.Limite,
		TotalRegistros:       total,
		TotalPaginas:         totalPaginas,
		TienePaginaAnterior:  p.Pagina > 1,
		TienePaginaSiguiente: p.Pagina < totalPaginas,
	}
}

// ValidarOrden normalizes a sort direction. Invalid values fall back to DESC
// and are reported as human-readable messages for the caller to weigh.
func ValidarOrden(orden string) (string, []string) {
	if orden == "" {
		return "DESC", nil
	}
	normalized := strings.ToUpper(strings.TrimSpace(orden))
	if normalized != "ASC" && normalized != "DESC" {
		return "DESC", []string{fmt.Sprintf("orden debe ser ASC o DESC, se recibió %q", orden)}
	}
	return normalized, nil
}
