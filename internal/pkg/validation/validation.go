// Package validation centraliza o validator/v10 e traduz suas falhas para ValidationError.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	apperror "shelfmap/internal/errors"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// Struct valida as tags `validate` de v. Devolve nil ou um ValidationError legível.
func Struct(v interface{}) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return apperror.NewValidationError(err.Error())
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, describe(fe))
	}
	return apperror.NewValidationError(strings.Join(msgs, "; "))
}

func describe(fe validator.FieldError) string {
	field := fe.Namespace()
	if i := strings.Index(field, "."); i >= 0 {
		field = field[i+1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s é obrigatório", field)
	case "min":
		return fmt.Sprintf("%s deve ter ao menos %s elemento(s)", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s deve ser maior que %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s deve ser um de [%s]", field, fe.Param())
	default:
		return fmt.Sprintf("%s falhou na regra %s", field, fe.Tag())
	}
}
