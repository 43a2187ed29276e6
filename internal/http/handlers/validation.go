package handlers

import (
	"errors"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

type ValidationError struct {
	Field       string `json:"field"`
	Description string `json:"description"`
}

// ValidationErrors is answered as 400 {"errors": [...]}.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	parts := make([]string, 0, len(ve))
	for _, e := range ve {
		parts = append(parts, e.Field+": "+e.Description)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func invalidField(field, description string) ValidationErrors {
	return ValidationErrors{{Field: field, Description: description}}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Report json names so errors match the request body.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	// Names made only of whitespace count as empty.
	_ = v.RegisterValidation("notblank", validators.NotBlank)
	return v
}

// validateRequest runs the struct tags of req and converts failures to ValidationErrors.
func validateRequest(req any) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	errs := make(ValidationErrors, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		errs = append(errs, ValidationError{Field: fieldName(fe), Description: validationMessage(fe)})
	}
	return errs
}

// fieldName drops the struct prefix and keeps slice indexes, e.g. "products[1]".
func fieldName(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required"
	case "min":
		if fe.Kind() == reflect.String {
			return "Must be at least " + fe.Param() + " characters"
		}
		return "Must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "Must be at most " + fe.Param() + " characters"
		}
		return "Must be at most " + fe.Param()
	case "gte":
		return "Must be greater than or equal to " + fe.Param()
	case "notblank":
		return "Must not be blank"
	case "mongodb":
		return "Invalid id"
	default:
		return "Invalid value"
	}
}
