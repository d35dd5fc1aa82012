package dto

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/marianodev72/sitio98plus-sub001/internal/domain"
)

// validate es seguro para uso concurrente y cachea la metadata de cada struct.
var validate = validator.New(validator.WithRequiredStructEnabled())

// Validate aplica las etiquetas `validate` de in. Los errores de validación se devuelven
// envueltos en domain.ErrInvalidInput con un mensaje por campo.
func Validate(in any) error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("%w: %v", domain.ErrInvalidInput, err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fieldMessage(fe))
	}
	return fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(msgs, "; "))
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.IndexByte(field, '.'); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return field + " es obligatorio"
	case "email":
		return field + " no es un email válido"
	case "min", "max", "len":
		return fmt.Sprintf("%s fuera de rango (%s=%s)", field, fe.Tag(), fe.Param())
	case "oneof":
		return fmt.Sprintf("%s debe ser uno de [%s]", field, fe.Param())
	case "numeric":
		return field + " debe ser numérico"
	case "uuid":
		return field + " no es un identificador válido"
	case "eq":
		return field + " debe aceptarse"
	default:
		return fmt.Sprintf("%s inválido (%s)", field, fe.Tag())
	}
}
