package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agenda-cultural/agenda-api/internal/models"
)

func TestCanAccess(t *testing.T) {
	tests := []struct {
		name    string
		ownerID string
		actorID string
		rol     models.Rol
		accion  Accion
		want    bool
	}{
		{"admin any resource", "u1", "admin-1", models.RolAdmin, AccionEliminar, true},
		{"admin own resource", "admin-1", "admin-1", models.RolAdmin, AccionActualizar, true},
		{"owner read", "u1", "u1", models.RolUsuario, AccionLeer, true},
		{"owner update", "u1", "u1", models.RolUsuario, AccionActualizar, true},
		{"owner cancel", "u1", "u1", models.RolUsuario, AccionCancelar, true},
		{"owner rate", "u1", "u1", models.RolUsuario, AccionCalificar, true},
		{"owner delete denied", "u1", "u1", models.RolUsuario, AccionEliminar, false},
		{"owner role change denied", "u1", "u1", models.RolUsuario, AccionCambiarRol, false},
		{"stranger read denied", "u1", "u2", models.RolUsuario, AccionLeer, false},
		{"stranger cancel denied", "u1", "u2", models.RolUsuario, AccionCancelar, false},
		{"empty actor denied", "u1", "", models.RolUsuario, AccionLeer, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanAccess(tt.ownerID, tt.actorID, tt.rol, tt.accion))
		})
	}
}
