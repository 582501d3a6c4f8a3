package authz

import "github.com/agenda-cultural/agenda-api/internal/models"

// Accion enumerates the operations subject to ownership checks.
type Accion string

const (
	AccionLeer       Accion = "leer"
	AccionActualizar Accion = "actualizar"
	AccionCancelar   Accion = "cancelar"
	AccionCalificar  Accion = "calificar"
	AccionEliminar   Accion = "eliminar"
	AccionCambiarRol Accion = "cambiar_rol"
)

// accionesPropietario are the actions a non-admin may perform on a
// resource they own.
var accionesPropietario = map[Accion]struct{}{
	AccionLeer:       {},
	AccionActualizar: {},
	AccionCancelar:   {},
	AccionCalificar:  {},
}

// CanAccess is the single authorization decision for owned resources.
// Admins may perform any action on any resource; other actors only
// owner-scoped actions on resources they own.
func CanAccess(resourceOwnerID, actorID string, rol models.Rol, accion Accion) bool {
	if rol == models.RolAdmin {
		return true
	}
	if actorID == "" || actorID != resourceOwnerID {
		return false
	}
	_, ok := accionesPropietario[accion]
	return ok
}
