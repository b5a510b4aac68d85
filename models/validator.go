package models

import (
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

// FieldError describes one failed constraint. Field is the JSON path of the
// offending value, e.g. "items[0].price".
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationError is returned when a record violates its field constraints.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Validator checks records against their `binding` tags. It satisfies gin's
// binding.StructValidator so request binding and store decoding share rules.
type Validator struct {
	once     sync.Once
	validate *validator.Validate
}

var defaultValidator = &Validator{}

// DefaultValidator returns the process-wide validator.
func DefaultValidator() *Validator {
	return defaultValidator
}

// Validate checks v, which must be a struct or a pointer to one.
func Validate(v any) error {
	return defaultValidator.ValidateStruct(v)
}

func (v *Validator) ValidateStruct(obj any) error {
	if obj == nil {
		return nil
	}
	v.lazyinit()

	err := v.validate.Struct(obj)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return err
	}

	fields := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, FieldError{
			Field:   fieldPath(fe),
			Rule:    fe.Tag(),
			Message: fieldMessage(fe),
		})
	}
	return &ValidationError{Fields: fields}
}

func (v *Validator) Engine() any {
	v.lazyinit()
	return v.validate
}

func (v *Validator) lazyinit() {
	v.once.Do(func() {
		v.validate = validator.New()
		v.validate.SetTagName("binding")
		v.validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name, _, _ := strings.Cut(fld.Tag.Get("json"), ",")
			if name == "-" {
				return ""
			}
			if name == "" {
				return fld.Name
			}
			return name
		})
	})
}

// Namespace is "<TypeName>.<path>"; callers only care about the path.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, path, ok := strings.Cut(ns, "."); ok {
		return path
	}
	return ns
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "field required"
	case "email":
		return "value is not a valid email address"
	case "gte", "min":
		return fmt.Sprintf("must be greater than or equal to %s", fe.Param())
	case "lte", "max":
		return fmt.Sprintf("must be less than or equal to %s", fe.Param())
	default:
		return fmt.Sprintf("failed on the %q rule", fe.Tag())
	}
}

// nullFieldError reports an explicit null for a field that only accepts a
// concrete value.
func nullFieldError(field string) error {
	return &ValidationError{Fields: []FieldError{{
		Field:   field,
		Rule:    "not_null",
		Message: "value must not be null",
	}}}
}
