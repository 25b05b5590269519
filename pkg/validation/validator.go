package validation

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var (
	validate = validator.New()

	slugPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]{0,63}$`)

	alertVariants = map[string]bool{"info": true, "success": true, "warning": true}
	curveVariants = map[string]bool{"": true, "banded": true, "clipped": true}
	keepFilters   = map[string]bool{"": true, "price": true, "quantity": true}
	scheduleSides = map[string]bool{"demand": true, "supply": true}
)

// ValidationError represents a validation error with field and message
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// ValidationErrors is a collection of validation errors
type ValidationErrors []ValidationError

// Error implements the error interface
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ""
	}

	var messages []string
	for _, err := range ve {
		messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
	}
	return strings.Join(messages, "; ")
}

func init() {
	validate.RegisterValidation("slug", validateSlug)
	validate.RegisterValidation("alertvariant", oneOf(alertVariants))
	validate.RegisterValidation("curvevariant", oneOf(curveVariants))
	validate.RegisterValidation("keep", oneOf(keepFilters))
	validate.RegisterValidation("side", oneOf(scheduleSides))
}

// validateSlug validates document and chart identifiers, which end up in URLs
func validateSlug(fl validator.FieldLevel) bool {
	s, ok := fl.Field().Interface().(string)
	if !ok {
		return false
	}
	return slugPattern.MatchString(s)
}

func oneOf(allowed map[string]bool) validator.Func {
	return func(fl validator.FieldLevel) bool {
		s, ok := fl.Field().Interface().(string)
		return ok && allowed[s]
	}
}

// ValidateStruct validates a struct using tags
func ValidateStruct(s interface{}) ValidationErrors {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return ValidationErrors{{Field: "", Message: err.Error()}}
	}

	var errs ValidationErrors
	for _, fe := range fieldErrs {
		errs = append(errs, ValidationError{
			Field:   fieldPath(fe),
			Message: getErrorMessage(fe.Field(), fe.Tag(), fe.Param()),
			Value:   fe.Value(),
		})
	}
	return errs
}

// fieldPath drops the top-level struct name from the namespace, leaving
// e.g. "Sections[2].Blocks[0].Alert.Variant".
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

// getErrorMessage returns a user-friendly error message
func getErrorMessage(field, tag, param string) string {
	switch tag {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "slug":
		return fmt.Sprintf("%s must be a lowercase slug (letters, digits, dashes; at most 64)", field)
	case "alertvariant":
		return fmt.Sprintf("%s must be one of info, success, warning", field)
	case "curvevariant":
		return fmt.Sprintf("%s must be banded or clipped", field)
	case "keep":
		return fmt.Sprintf("%s must be price or quantity", field)
	case "side":
		return fmt.Sprintf("%s must be demand or supply", field)
	case "hexcolor":
		return fmt.Sprintf("%s must be a hex colour such as #2980b9", field)
	case "min", "gte":
		return fmt.Sprintf("%s must be at least %s", field, param)
	case "max", "lte":
		return fmt.Sprintf("%s must be at most %s", field, param)
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "gtfield":
		return fmt.Sprintf("%s must be greater than %s", field, param)
	case "nefield":
		return fmt.Sprintf("%s must differ from %s", field, param)
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, param)
	default:
		return fmt.Sprintf("%s failed validation: %s", field, tag)
	}
}

// SanitizeString removes control characters other than tab and newline and
// trims surrounding whitespace.
func SanitizeString(s string) string {
	s = strings.Map(func(r rune) rune {
		if r < 32 && r != '\t' && r != '\n' {
			return -1
		}
		return r
	}, s)
	return strings.TrimSpace(s)
}
