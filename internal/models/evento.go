package models

import "time"

// Evento is a cultural event published on the agenda.
type Evento struct {
	ID          string     `db:"id" json:"id"`
	Titulo      string     `db:"titulo" json:"titulo"`
	Descripcion string     `db:"descripcion" json:"descripcion"`
	CategoriaID string     `db:"categoria_id" json:"categoriaId"`
	Lugar       string     `db:"lugar" json:"lugar"`
	Direccion   string     `db:"direccion" json:"direccion"`
	Ciudad      string     `db:"ciudad" json:"ciudad"`
	FechaInicio time.Time  `db:"fecha_inicio" json:"fechaInicio"`
	FechaFin    *time.Time `db:"fecha_fin" json:"fechaFin,omitempty"`
	Precio      string     `db:"precio" json:"precio"`
	ImagenURL   string     `db:"imagen_url" json:"imagenUrl"`
	Destacado   bool       `db:"destacado" json:"destacado"`
	Activo      bool       `db:"activo" json:"activo"`
	Vistas      int        `db:"vistas" json:"vistas"`
	CreadoPor   string     `db:"creado_por" json:"creadoPor"`
	CreatedAt   time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time  `db:"updated_at" json:"updatedAt"`
}

// EventoRequest is the full-body payload for creating or replacing an event.
type EventoRequest struct {
	Titulo      string     `json:"titulo" validate:"required,min=3,max=200"`
	Descripcion string     `json:"descripcion" validate:"required"`
	CategoriaID string     `json:"categoriaId" validate:"required"`
	Lugar       string     `json:"lugar" validate:"required,max=200"`
	Direccion   string     `json:"direccion" validate:"max=255"`
	Ciudad      string     `json:"ciudad" validate:"required,max=100"`
	FechaInicio time.Time  `json:"fechaInicio" validate:"required"`
	FechaFin    *time.Time `json:"fechaFin"`
	Precio      string     `json:"precio" validate:"max=100"`
	ImagenURL   string     `json:"imagenUrl" validate:"omitempty,url"`
	Destacado   bool       `json:"destacado"`
	Activo      *bool      `json:"activo"`
}

// EventoFilter captures the validated filter spec for listing events.
type EventoFilter struct {
	CategoriaID *string
	Destacado   *bool
	Activo      *bool
	Ciudad      string
	FechaDesde  *time.Time
	FechaHasta  *time.Time
	Busqueda    string
	Pagina      int
	Limite      int
	OrdenarPor  string
	Orden       string
	Avisos      []string
}
