// Package validate checks user-entered form data before anything is sent to
// the backend.
package validate

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Kind classifies a validation failure.
type Kind string

const (
	KindEmptyField       Kind = "emptyField"
	KindMalformedEmail   Kind = "malformedEmail"
	KindPasswordTooShort Kind = "passwordTooShort"
	KindNegativeNumber   Kind = "negativeNumber"
	KindInvalid          Kind = "invalid"
)

// MinPasswordLength matches the hosted auth provider's minimum.
const MinPasswordLength = 6

// ValidationError reports one field that failed validation.
type ValidationError struct {
	Field string
	Kind  Kind
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case KindEmptyField:
		return fmt.Sprintf("%s must not be empty", e.Field)
	case KindMalformedEmail:
		return fmt.Sprintf("%s is not a valid email address", e.Field)
	case KindPasswordTooShort:
		return fmt.Sprintf("%s must be at least %d characters", e.Field, MinPasswordLength)
	case KindNegativeNumber:
		return fmt.Sprintf("%s must not be negative", e.Field)
	default:
		return fmt.Sprintf("%s is invalid", e.Field)
	}
}

// Errors collects every failing field of one form, in declaration order.
type Errors []*ValidationError

func (e Errors) Error() string {
	msgs := make([]string, len(e))
	for i, fe := range e {
		msgs[i] = fe.Error()
	}
	return strings.Join(msgs, "; ")
}

// Unwrap exposes the individual field errors to errors.As.
func (e Errors) Unwrap() []error {
	out := make([]error, len(e))
	for i, fe := range e {
		out[i] = fe
	}
	return out
}

// Field returns the error for the named field, or nil.
func (e Errors) Field(name string) *ValidationError {
	for _, fe := range e {
		if fe.Field == name {
			return fe
		}
	}
	return nil
}

// IsKind reports whether err carries a validation failure of the given kind.
func IsKind(err error, kind Kind) bool {
	var fe *ValidationError
	if !errors.As(err, &fe) {
		return false
	}
	var all Errors
	if errors.As(err, &all) {
		for _, e := range all {
			if e.Kind == kind {
				return true
			}
		}
		return false
	}
	return fe.Kind == kind
}

var v = newValidator()

func newValidator() *validator.Validate {
	val := validator.New()
	val.RegisterTagNameFunc(func(f reflect.StructField) string {
		tag := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return f.Name
		}
		return tag
	})
	_ = val.RegisterValidation("nonblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return val
}

// Struct validates a tagged struct and returns Errors, or nil when it passes.
func Struct(s any) error {
	err := v.Struct(s)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validating form: %w", err)
	}
	out := make(Errors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		out = append(out, &ValidationError{Field: fe.Field(), Kind: kindOf(fe)})
	}
	return out
}

func kindOf(fe validator.FieldError) Kind {
	switch fe.Tag() {
	case "required", "nonblank":
		return KindEmptyField
	case "email":
		return KindMalformedEmail
	case "min":
		return KindPasswordTooShort
	case "gte":
		return KindNegativeNumber
	}
	return KindInvalid
}

// Credentials is the login form.
type Credentials struct {
	Email    string `json:"email" validate:"nonblank"`
	Password string `json:"password" validate:"nonblank"`
}

// Registration is the sign-up form.
type Registration struct {
	Name     string `json:"name" validate:"nonblank"`
	Email    string `json:"email" validate:"nonblank,email"`
	Password string `json:"password" validate:"min=6"`
}

// Profile is the edit-profile form.
type Profile struct {
	Name  string `json:"name" validate:"nonblank"`
	Email string `json:"email" validate:"nonblank,email"`
}

// Product is the manager's add/edit book form. Price is in major units.
type Product struct {
	Title   string  `json:"title" validate:"nonblank"`
	Author  string  `json:"author" validate:"nonblank"`
	Price   float64 `json:"price" validate:"gte=0"`
	InStock int     `json:"inStock" validate:"gte=0"`
}
