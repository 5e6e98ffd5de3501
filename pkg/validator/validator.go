package validator

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"unicode"

	"github.com/go-playground/validator/v10"
)

var global *validator.Validate

const (
	ErrInvalidFormat     = "invalid format"
	ErrFieldRequired     = "field is required"
	ErrInvalidEmail      = "must be a valid email address"
	ErrUnknownValidation = "invalid value"
)

// Errors — сообщения об ошибках по именам полей (json-имена).
type Errors map[string]string

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for field, msg := range e {
		parts = append(parts, field+": "+msg)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func init() {
	SetValidator(New())
}

func New() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonFieldName)
	return v
}

func SetValidator(v *validator.Validate) {
	global = v
}

func Validator() *validator.Validate {
	return global
}

// Validate проверяет структуру и возвращает Errors со всеми невалидными полями сразу.
func Validate(ctx context.Context, structure any) error {
	return parseValidationErrors(Validator().StructCtx(ctx, structure))
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return fld.Name
	}
	return name
}

func parseValidationErrors(err error) error {
	if err == nil {
		return nil
	}
	var vErrors validator.ValidationErrors
	if !errors.As(err, &vErrors) {
		return err
	}
	if len(vErrors) == 0 {
		return nil
	}

	out := make(Errors, len(vErrors))
	for _, ve := range vErrors {
		key := fieldKey(ve.Namespace())
		if _, exists := out[key]; exists {
			continue
		}
		out[key] = message(ve)
	}
	return out
}

// fieldKey оставляет только json-имена: корневая структура и встроенные структуры
// (сегменты с заглавной буквы) отбрасываются.
// "RegisterInput.ProfileFields.phone" -> "phone", "Input.team_members[0].email" -> "team_members[0].email".
func fieldKey(namespace string) string {
	segments := strings.Split(namespace, ".")
	kept := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg == "" || unicode.IsUpper([]rune(seg)[0]) {
			continue
		}
		kept = append(kept, seg)
	}
	if len(kept) == 0 {
		return namespace
	}
	return strings.Join(kept, ".")
}

func message(ve validator.FieldError) string {
	switch ve.Tag() {
	case "required":
		return ErrFieldRequired
	case "email":
		return ErrInvalidEmail
	case "min":
		if ve.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", ve.Param())
		}
		return fmt.Sprintf("must be at least %s", ve.Param())
	case "max":
		if ve.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", ve.Param())
		}
		return fmt.Sprintf("must be at most %s", ve.Param())
	case "gte":
		return fmt.Sprintf("must be greater than or equal to %s", ve.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.Join(strings.Fields(ve.Param()), ", "))
	case "eqfield":
		return "passwords do not match"
	case "uuid":
		return ErrInvalidFormat
	default:
		return ErrUnknownValidation
	}
}
