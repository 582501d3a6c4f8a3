package models

import "time"

// Rol represents the available roles for authorization decisions.
type Rol string

const (
	RolAdmin   Rol = "admin"
	RolUsuario Rol = "usuario"
)

// EsValido reports whether the role is one of the two accepted values.
func (r Rol) EsValido() bool {
	return r == RolAdmin || r == RolUsuario
}

// Usuario represents an application user stored in the usuarios table.
type Usuario struct {
	ID              string     `db:"id" json:"id"`
	Nombre          string     `db:"nombre" json:"nombre"`
	Email           string     `db:"email" json:"email"`
	PasswordHash    string     `db:"password_hash" json:"-"`
	Rol             Rol        `db:"rol" json:"rol"`
	Activo          bool       `db:"activo" json:"activo"`
	EmailVerificado bool       `db:"email_verificado" json:"emailVerificado"`
	UltimoAcceso    *time.Time `db:"ultimo_acceso" json:"ultimoAcceso,omitempty"`
	CreatedAt       time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt       time.Time  `db:"updated_at" json:"updatedAt"`
}

// UsuarioFilter captures filtering criteria for listing users.
type UsuarioFilter struct {
	Rol        *Rol
	Activo     *bool
	Busqueda   string
	Pagina     int
	Limite     int
	OrdenarPor string
	Orden      string
	Avisos     []string
}

// ActualizarUsuarioRequest carries the editable profile fields. Activo is
// admin-only and ignored for self-service updates.
type ActualizarUsuarioRequest struct {
	Nombre *string `json:"nombre" validate:"omitempty,min=2,max=100"`
	Activo *bool   `json:"activo"`
}

// CambiarRolRequest promotes or demotes an account.
type CambiarRolRequest struct {
	Rol Rol `json:"rol" validate:"required,oneof=admin usuario"`
}
