package validator

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// ErrorResponse describe un campo que falló la validación estructural.
type ErrorResponse struct {
	FailedField string
	Tag         string
	Value       string
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidateStruct valida los tags `validate` de un struct y devuelve los campos fallidos.
func ValidateStruct(data interface{}) []*ErrorResponse {
	var errors []*ErrorResponse
	err := validate.Struct(data)
	if err != nil {
		for _, err := range err.(validator.ValidationErrors) {
			var element ErrorResponse
			element.FailedField = err.StructNamespace()
			element.Tag = err.Tag()
			element.Value = err.Param()
			errors = append(errors, &element)
		}
	}
	return errors
}

// Describe arma un mensaje legible a partir de los campos fallidos.
func Describe(errs []*ErrorResponse) string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, fmt.Sprintf("%s (%s)", e.FailedField, e.Tag))
	}
	return strings.Join(parts, "; ")
}
