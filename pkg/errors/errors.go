package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// FieldError describes a single failed validation rule for one field.
type FieldError struct {
	Campo   string      `json:"campo"`
	Mensaje string      `json:"mensaje"`
	Valor   interface{} `json:"valor,omitempty"`
}

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Codigo  string       `json:"codigo"`
	Mensaje string       `json:"mensaje"`
	Status  int          `json:"-"`
	Errores []FieldError `json:"errores,omitempty"`
	Err     error        `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Mensaje, e.Err)
	}
	return e.Mensaje
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(codigo string, status int, mensaje string) *Error {
	return &Error{Codigo: codigo, Status: status, Mensaje: mensaje}
}

// Wrap attaches context to an existing error.
func Wrap(err error, codigo string, status int, mensaje string) *Error {
	return &Error{Codigo: codigo, Status: status, Mensaje: mensaje, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrCredencialesInvalidas = New("UNAUTHORIZED", http.StatusUnauthorized, "email o contraseña incorrectos")
	ErrCuentaDesactivada     = New("FORBIDDEN", http.StatusForbidden, "la cuenta está desactivada")
	ErrNotFound              = New("NOT_FOUND", http.StatusNotFound, "recurso no encontrado")
	ErrForbidden             = New("FORBIDDEN", http.StatusForbidden, "no tienes permiso para realizar esta acción")
	ErrUnauthorized          = New("UNAUTHORIZED", http.StatusUnauthorized, "no autenticado")
	ErrConflict              = New("CONFLICT", http.StatusConflict, "conflicto con el estado actual del recurso")
	ErrValidation            = New("VALIDATION_ERROR", http.StatusUnprocessableEntity, "errores de validación")
	ErrTransicionInvalida    = New("INVALID_TRANSITION", http.StatusConflict, "transición de estado no permitida")
	ErrEstadoInvalido        = New("INVALID_STATE", http.StatusConflict, "operación no permitida en el estado actual")
	ErrInternal              = New("INTERNAL_SERVER_ERROR", http.StatusInternalServerError, "error interno del servidor")
	ErrCacheMiss             = New("CACHE_MISS", http.StatusNotFound, "clave no encontrada en caché")
)

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Codigo, ErrInternal.Status, ErrInternal.Mensaje)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, mensaje string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if mensaje != "" {
		clone.Mensaje = mensaje
	}
	return &clone
}

// WithViolations attaches the collected field violations to a validation error.
func WithViolations(violations []FieldError) *Error {
	clone := *ErrValidation
	clone.Errores = violations
	return &clone
}
