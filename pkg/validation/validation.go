package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	appErrors "github.com/agenda-cultural/agenda-api/pkg/errors"
)

// New builds a validator that reports fields by their json names so the
// violation list matches the wire payload.
func New() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// Check runs the struct rules and returns a single validation error carrying
// every violation found, never stopping at the first one.
func Check(v *validator.Validate, payload interface{}) error {
	err := v.Struct(payload)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return appErrors.Wrap(err, appErrors.ErrValidation.Codigo, appErrors.ErrValidation.Status, "payload inválido")
	}

	violations := make([]appErrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		violations = append(violations, appErrors.FieldError{
			Campo:   fe.Field(),
			Mensaje: mensaje(fe),
			Valor:   publicValue(fe),
		})
	}
	return appErrors.WithViolations(violations)
}

func mensaje(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "el campo es obligatorio"
	case "email":
		return "debe ser un email válido"
	case "min":
		return fmt.Sprintf("debe tener al menos %s caracteres", fe.Param())
	case "max":
		return fmt.Sprintf("no debe superar %s caracteres", fe.Param())
	case "oneof":
		return fmt.Sprintf("debe ser uno de: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "eqfield":
		return "no coincide con el campo de confirmación"
	case "gte":
		return fmt.Sprintf("debe ser mayor o igual a %s", fe.Param())
	case "lte":
		return fmt.Sprintf("debe ser menor o igual a %s", fe.Param())
	case "gtefield":
		return "no puede ser anterior a la fecha de inicio"
	default:
		return fmt.Sprintf("no cumple la regla %s", fe.Tag())
	}
}

// publicValue echoes the offending value except for sensitive fields.
func publicValue(fe validator.FieldError) interface{} {
	field := strings.ToLower(fe.Field())
	if strings.Contains(field, "password") || strings.Contains(field, "contrasena") {
		return nil
	}
	return fe.Value()
}
