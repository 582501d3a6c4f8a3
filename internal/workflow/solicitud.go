package workflow

import (
	"fmt"
	"time"

	"github.com/agenda-cultural/agenda-api/internal/models"
	appErrors "github.com/agenda-cultural/agenda-api/pkg/errors"
)

// transiciones is the legal edge table of the flyer-request workflow.
// Terminal states have no outgoing edges.
var transiciones = map[models.EstadoSolicitud][]models.EstadoSolicitud{
	models.EstadoPendiente: {
		models.EstadoRevisando,
		models.EstadoEnProceso,
		models.EstadoRechazado,
		models.EstadoCancelado,
	},
	models.EstadoRevisando: {
		models.EstadoEnProceso,
		models.EstadoRechazado,
		models.EstadoCancelado,
	},
	models.EstadoEnProceso: {
		models.EstadoCompletado,
		models.EstadoRechazado,
		models.EstadoCancelado,
	},
}

// PuedeTransicionar reports whether the edge exists in the table,
// ignoring actor permissions.
func PuedeTransicionar(actual, destino models.EstadoSolicitud) bool {
	for _, permitido := range transiciones[actual] {
		if permitido == destino {
			return true
		}
	}
	return false
}

// Transition validates the requested state change. The edge check runs
// before the permission check: an edge missing from the table is an
// invalid transition for every actor. Owners may only cancel their own
// pending request; every other edge requires the admin role.
func Transition(actual, destino models.EstadoSolicitud, rol models.Rol, esPropietario bool) error {
	if !destino.EsValido() {
		return appErrors.Clone(appErrors.ErrTransicionInvalida,
			fmt.Sprintf("estado desconocido: %s", destino))
	}
	if !PuedeTransicionar(actual, destino) {
		return appErrors.Clone(appErrors.ErrTransicionInvalida,
			fmt.Sprintf("no se puede pasar de %s a %s", actual, destino))
	}

	if rol == models.RolAdmin {
		return nil
	}
	if esPropietario && actual == models.EstadoPendiente && destino == models.EstadoCancelado {
		return nil
	}
	return appErrors.Clone(appErrors.ErrForbidden,
		"solo un administrador puede realizar esta transición")
}

// Aplicar mutates the solicitud for an already validated transition.
// FechaCompletado is set exactly when entering completado and left
// untouched on every other edge.
func Aplicar(s *models.SolicitudFlyer, destino models.EstadoSolicitud, ahora time.Time) {
	s.Estado = destino
	if destino == models.EstadoCompletado {
		ts := ahora.UTC()
		s.FechaCompletado = &ts
	}
	s.UpdatedAt = ahora.UTC()
}

// ValidarCalificacion checks that post-completion feedback is legal:
// only completed requests accept a rating, and the rating is 1..5.
func ValidarCalificacion(s *models.SolicitudFlyer, calificacion int) error {
	if s.Estado != models.EstadoCompletado {
		return appErrors.Clone(appErrors.ErrEstadoInvalido,
			"solo se pueden calificar solicitudes completadas")
	}
	if calificacion < 1 || calificacion > 5 {
		return appErrors.WithViolations([]appErrors.FieldError{{
			Campo:   "calificacion",
			Mensaje: "debe estar entre 1 y 5",
			Valor:   calificacion,
		}})
	}
	return nil
}
