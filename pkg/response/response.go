package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/agenda-cultural/agenda-api/pkg/errors"
	"github.com/agenda-cultural/agenda-api/pkg/paginate"
)

// Envelope is the uniform response contract of the API.
type Envelope struct {
	Exito   bool                    `json:"exito"`
	Mensaje string                  `json:"mensaje"`
	Datos   interface{}             `json:"datos,omitempty"`
	Meta    *paginate.Resultado     `json:"meta,omitempty"`
	Errores []appErrors.FieldError  `json:"errores,omitempty"`
	Codigo  string                  `json:"codigo,omitempty"`
}

// JSON sends a success response with optional pagination metadata.
func JSON(c *gin.Context, status int, mensaje string, datos interface{}, meta *paginate.Resultado) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, Envelope{Exito: true, Mensaje: mensaje, Datos: datos, Meta: meta})
}

// OK responds with HTTP 200.
func OK(c *gin.Context, mensaje string, datos interface{}) {
	JSON(c, http.StatusOK, mensaje, datos, nil)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, mensaje string, datos interface{}) {
	JSON(c, http.StatusCreated, mensaje, datos, nil)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.JSON(appErr.Status, Envelope{
		Exito:   false,
		Mensaje: appErr.Mensaje,
		Errores: appErr.Errores,
		Codigo:  appErr.Codigo,
	})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
