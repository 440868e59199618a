package firewalld

import (
	"errors"
	"fmt"
	"strings"

	"firewalld-traffic-miner/internal/model"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// ValidationError is one human-readable RuleSpec field failure.
type ValidationError struct {
	Field   string
	Message string
}

// ValidationErrors collects all field failures for one RuleSpec so a
// caller sees everything wrong before any external command is built.
type ValidationErrors []ValidationError

func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return "no validation errors"
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("invalid rule spec (%d error(s)):", len(ve)))
	for _, e := range ve {
		sb.WriteString(fmt.Sprintf("\n  %s: %s", e.Field, e.Message))
	}
	return sb.String()
}

// ValidateSpec checks a RuleSpec against its struct tags and converts
// validator output into ValidationErrors.
func ValidateSpec(spec model.RuleSpec) error {
	err := validate.Struct(spec)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	var out ValidationErrors
	for _, e := range fieldErrs {
		out = append(out, ValidationError{
			Field:   strings.ToLower(e.Field()),
			Message: validationMessage(e),
		})
	}
	return out
}

func validationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "field is required"
	case "min":
		return fmt.Sprintf("must be >= %s", e.Param())
	case "max":
		return fmt.Sprintf("must be <= %s", e.Param())
	case "ip4_addr":
		return "must be a valid IPv4 address"
	default:
		return fmt.Sprintf("validation failed: %s", e.Tag())
	}
}
