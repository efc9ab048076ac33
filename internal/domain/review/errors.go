package review

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// validate is the package validator. Field errors use json tag names so
// they line up with what the caller actually sent.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// FieldError indicates an error with a specific payload field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ValidationError reports a record-commit attempt missing required fields
// for its outcome. Recoverable: the caller re-prompts the inspector. No
// state mutation happened.
type ValidationError struct {
	Err    error
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	if e.Err == nil {
		return "invalid finding payload"
	}
	return e.Err.Error()
}

func (e *ValidationError) Unwrap() error { return e.Err }

// wrapValidation converts validator errors into the package's typed error.
func wrapValidation(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return &ValidationError{Err: err}
	}
	flds := make([]FieldError, 0, len(verrs))
	for _, fe := range verrs {
		flds = append(flds, FieldError{Field: fe.Field(), Error: messageFor(fe)})
	}
	return &ValidationError{Err: err, Fields: flds}
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "oneof":
		return "must be one of: " + fe.Param()
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "invalid value"
	}
}
