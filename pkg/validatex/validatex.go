// Package validatex runs struct tag validation and reports failures as errx
// validation errors.
package validatex

import (
	"errors"
	"net/http"
	"strings"

	"github.com/Abraxas-365/recruitflow/pkg/errx"
	"github.com/go-playground/validator/v10"
)

var ErrRegistry = errx.NewRegistry("VALIDATION")

var CodeInvalidRequest = ErrRegistry.Register("INVALID_REQUEST", errx.TypeValidation, http.StatusBadRequest, "Dados inválidos")

var validate = validator.New(validator.WithRequiredStructEnabled())

// Struct validates v and maps every failing field to a detail entry
// ("field" → "tag").
func Struct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errx.Wrap(err, "invalid request", errx.TypeValidation)
	}

	out := ErrRegistry.New(CodeInvalidRequest)
	for _, fe := range fieldErrs {
		out.WithDetail(fieldName(fe), fe.Tag())
	}
	return out
}

func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		ns = ns[i+1:]
	}
	return strings.ToLower(ns)
}
