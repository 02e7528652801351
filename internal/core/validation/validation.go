// Package validation holds the pure input checks run before any write reaches the
// balance engine. Every function returns a Result; nothing here touches storage.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/SscSPs/finance_tracker/internal/apperrors"
	"github.com/go-playground/validator/v10"
)

// Result carries per-field errors, which block the write, and warnings, which do not.
type Result struct {
	Errors   map[string]string
	Warnings map[string]string
}

func newResult() Result {
	return Result{Errors: map[string]string{}, Warnings: map[string]string{}}
}

// Valid reports whether no blocking error was recorded.
func (r Result) Valid() bool {
	return len(r.Errors) == 0
}

// Err returns the errors as *apperrors.ValidationErrors, or nil when valid.
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	return apperrors.NewValidationErrors(r.Errors)
}

// addError keeps the first message recorded for a field.
func (r *Result) addError(field, msg string) {
	if _, ok := r.Errors[field]; !ok {
		r.Errors[field] = msg
	}
}

func (r *Result) addWarning(field, msg string) {
	r.Warnings[field] = msg
}

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

// checkStruct runs the struct tags of s and records one message per failing field.
func checkStruct(r *Result, s any) {
	err := validate.Struct(s)
	if err == nil {
		return
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		r.addError("_", err.Error())
		return
	}
	for _, fe := range fieldErrs {
		r.addError(fe.Field(), messageFor(fe))
	}
}

func messageFor(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "min":
		return "must not be empty"
	case "max":
		return fmt.Sprintf("must be at most %s characters", fe.Param())
	case "oneof":
		return fmt.Sprintf("must be one of: %s", strings.ReplaceAll(fe.Param(), " ", ", "))
	case "hexcolor", "len":
		return "must be a color in the format #rrggbb"
	default:
		return fmt.Sprintf("failed '%s' check", fe.Tag())
	}
}
