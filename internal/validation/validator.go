// Package validation wraps go-playground/validator for the typed request
// structs accepted at the API boundary.
package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

func init() {
	validate = validator.New(validator.WithRequiredStructEnabled())
	_ = validate.RegisterValidation("notblank", validateNotBlank)
}

// validateNotBlank rejects strings that are empty after trimming whitespace
func validateNotBlank(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

// Error is returned when a request struct fails validation.
// Field holds the first offending field, Reason the failed rule.
type Error struct {
	Field  string
	Reason string
	Param  string
}

func (e *Error) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s failed %s=%s", e.Field, e.Reason, e.Param)
	}
	return fmt.Sprintf("%s failed %s", e.Field, e.Reason)
}

// Struct validates s and converts the first field error into *Error.
func Struct(s interface{}) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) && len(fieldErrs) > 0 {
		fe := fieldErrs[0]
		return &Error{
			Field:  lowerFirst(fe.Field()),
			Reason: fe.Tag(),
			Param:  fe.Param(),
		}
	}
	return err
}

// IsValidationError reports whether err came from Struct
func IsValidationError(err error) bool {
	var ve *Error
	return errors.As(err, &ve)
}

func lowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}
