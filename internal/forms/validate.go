package forms

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// ValidationError is a client-side rejection. Message is what the operator
// sees; Fields lists the offending inputs when the validator found them.
type ValidationError struct {
	Message string
	Fields  []string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(message string, fields ...string) *ValidationError {
	return &ValidationError{Message: message, Fields: fields}
}

// check runs struct tags on s and reports any failure under message.
func check(s any, message string) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return invalid(message, fields...)
}

// IsValidation reports whether err is a client-side rejection.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
