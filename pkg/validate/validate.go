// Package validate centraliza la validación de DTOs con go-playground/validator.
// Los errores se devuelven por campo usando el nombre JSON, listos para el cuerpo HTTP.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	einRegex   = regexp.MustCompile(`^\d{2}-\d{7}$`)
	phoneRegex = regexp.MustCompile(`^\+?[0-9 ().-]{7,20}$`)
)

var (
	once     sync.Once
	instance *validator.Validate
	pending  = map[string]func(string) bool{}
	mu       sync.Mutex
)

// Errors mapa campo → mensaje. Implementa error.
type Errors map[string]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Add registra un error de campo y devuelve el mapa para encadenar.
func (e Errors) Add(field, msg string) Errors {
	e[field] = msg
	return e
}

// OrNil devuelve nil si no hay errores (para `return errs.OrNil()`).
func (e Errors) OrNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

// AsErrors extrae los errores de campo de err, si los hay.
func AsErrors(err error) (Errors, bool) {
	var ve Errors
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

// RegisterStringRule añade una regla de texto con el tag indicado.
// Debe llamarse en init(), antes del primer Struct().
func RegisterStringRule(tag string, fn func(string) bool) {
	mu.Lock()
	defer mu.Unlock()
	pending[tag] = fn
}

func get() *validator.Validate {
	once.Do(func() {
		v := validator.New(validator.WithRequiredStructEnabled())
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
		_ = v.RegisterValidation("ein", stringRule(einRegex.MatchString))
		_ = v.RegisterValidation("phone", stringRule(phoneRegex.MatchString))

		mu.Lock()
		for tag, fn := range pending {
			_ = v.RegisterValidation(tag, stringRule(fn))
		}
		mu.Unlock()
		instance = v
	})
	return instance
}

func stringRule(fn func(string) bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}
		if s == "" {
			// los vacíos los decide `required`
			return true
		}
		return fn(s)
	}
}

// Struct valida s y devuelve Errors (o nil).
func Struct(s any) error {
	err := get().Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validate: %w", err)
	}
	out := Errors{}
	for _, fe := range verrs {
		out[fe.Field()] = message(fe)
	}
	return out
}

func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "uuid", "uuid4":
		return "must be a valid id"
	case "ein":
		return "must be formatted as NN-NNNNNNN"
	case "phone":
		return "must be a valid phone number"
	case "us_state":
		return "must be a US state name or postal code"
	case "tax_structure":
		return "must be one of: sole-proprietorship single-member-llc multi-member-llc partnership s-corp c-corp"
	case "datetime":
		return "must be a date formatted as " + dateHint(fe.Param())
	case "numeric":
		return "must contain only digits"
	case "len":
		return "must have length " + fe.Param()
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}

func dateHint(layout string) string {
	if layout == "2006-01-02" {
		return "YYYY-MM-DD"
	}
	return layout
}
