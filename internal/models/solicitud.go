package models

import "time"

// EstadoSolicitud captures the workflow state of a flyer request.
type EstadoSolicitud string

const (
	EstadoPendiente  EstadoSolicitud = "pendiente"
	EstadoRevisando  EstadoSolicitud = "revisando"
	EstadoEnProceso  EstadoSolicitud = "en_proceso"
	EstadoCompletado EstadoSolicitud = "completado"
	EstadoRechazado  EstadoSolicitud = "rechazado"
	EstadoCancelado  EstadoSolicitud = "cancelado"
)

// EsValido reports whether the state is one of the known values.
func (e EstadoSolicitud) EsValido() bool {
	switch e {
	case EstadoPendiente, EstadoRevisando, EstadoEnProceso,
		EstadoCompletado, EstadoRechazado, EstadoCancelado:
		return true
	}
	return false
}

// EsTerminal reports whether no further transitions are allowed.
func (e EstadoSolicitud) EsTerminal() bool {
	return e == EstadoCompletado || e == EstadoRechazado || e == EstadoCancelado
}

// PrioridadSolicitud orders requests in the admin queue.
type PrioridadSolicitud string

const (
	PrioridadBaja    PrioridadSolicitud = "baja"
	PrioridadMedia   PrioridadSolicitud = "media"
	PrioridadAlta    PrioridadSolicitud = "alta"
	PrioridadUrgente PrioridadSolicitud = "urgente"
)

// EsValida reports whether the priority is one of the known values.
func (p PrioridadSolicitud) EsValida() bool {
	switch p {
	case PrioridadBaja, PrioridadMedia, PrioridadAlta, PrioridadUrgente:
		return true
	}
	return false
}

// SolicitudFlyer is a user's request for a custom flyer design, tracked
// through the admin-managed workflow.
type SolicitudFlyer struct {
	ID                string             `db:"id" json:"id"`
	UsuarioID         string             `db:"usuario_id" json:"usuarioId"`
	NombreEvento      string             `db:"nombre_evento" json:"nombreEvento"`
	TipoEvento        string             `db:"tipo_evento" json:"tipoEvento"`
	FechaEvento       time.Time          `db:"fecha_evento" json:"fechaEvento"`
	Descripcion       string             `db:"descripcion" json:"descripcion"`
	EstiloPreferido   string             `db:"estilo_preferido" json:"estiloPreferido"`
	ColoresPreferidos string             `db:"colores_preferidos" json:"coloresPreferidos"`
	EmailContacto     string             `db:"email_contacto" json:"emailContacto"`
	TelefonoContacto  string             `db:"telefono_contacto" json:"telefonoContacto"`
	Estado            EstadoSolicitud    `db:"estado" json:"estado"`
	Prioridad         PrioridadSolicitud `db:"prioridad" json:"prioridad"`
	NotasAdmin        *string            `db:"notas_admin" json:"notasAdmin,omitempty"`
	ArchivoResultado  *string            `db:"archivo_resultado" json:"archivoResultado,omitempty"`
	FechaCompletado   *time.Time         `db:"fecha_completado" json:"fechaCompletado,omitempty"`
	Calificacion      *int               `db:"calificacion" json:"calificacion,omitempty"`
	ComentarioUsuario *string            `db:"comentario_usuario" json:"comentarioUsuario,omitempty"`
	CreatedAt         time.Time          `db:"created_at" json:"createdAt"`
	UpdatedAt         time.Time          `db:"updated_at" json:"updatedAt"`
}

// CrearSolicitudRequest is the payload for opening a flyer request.
type CrearSolicitudRequest struct {
	NombreEvento      string             `json:"nombreEvento" validate:"required,min=3,max=200"`
	TipoEvento        string             `json:"tipoEvento" validate:"required,max=100"`
	FechaEvento       time.Time          `json:"fechaEvento" validate:"required"`
	Descripcion       string             `json:"descripcion" validate:"required,min=10"`
	EstiloPreferido   string             `json:"estiloPreferido" validate:"max=100"`
	ColoresPreferidos string             `json:"coloresPreferidos" validate:"max=200"`
	EmailContacto     string             `json:"emailContacto" validate:"required,email"`
	TelefonoContacto  string             `json:"telefonoContacto" validate:"max=30"`
	Prioridad         PrioridadSolicitud `json:"prioridad" validate:"omitempty,oneof=baja media alta urgente"`
}

// ActualizarSolicitudRequest edits the descriptive fields of a request
// while it is still pending.
type ActualizarSolicitudRequest struct {
	NombreEvento      string    `json:"nombreEvento" validate:"required,min=3,max=200"`
	TipoEvento        string    `json:"tipoEvento" validate:"required,max=100"`
	FechaEvento       time.Time `json:"fechaEvento" validate:"required"`
	Descripcion       string    `json:"descripcion" validate:"required,min=10"`
	EstiloPreferido   string    `json:"estiloPreferido" validate:"max=100"`
	ColoresPreferidos string    `json:"coloresPreferidos" validate:"max=200"`
	EmailContacto     string    `json:"emailContacto" validate:"required,email"`
	TelefonoContacto  string    `json:"telefonoContacto" validate:"max=30"`
}

// CambiarEstadoRequest moves a request through the workflow.
type CambiarEstadoRequest struct {
	Estado     EstadoSolicitud     `json:"estado" validate:"required"`
	NotasAdmin *string             `json:"notasAdmin" validate:"omitempty,max=1000"`
	Prioridad  *PrioridadSolicitud `json:"prioridad" validate:"omitempty,oneof=baja media alta urgente"`
}

// CalificarRequest records the owner's feedback on a completed request.
type CalificarRequest struct {
	Calificacion int    `json:"calificacion" validate:"required,gte=1,lte=5"`
	Comentario   string `json:"comentario" validate:"max=500"`
}

// SolicitudFilter captures filtering criteria for listing requests.
type SolicitudFilter struct {
	Estado     *EstadoSolicitud
	Prioridad  *PrioridadSolicitud
	UsuarioID  string
	Busqueda   string
	Pagina     int
	Limite     int
	OrdenarPor string
	Orden      string
	Avisos     []string
}
