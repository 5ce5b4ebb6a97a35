package api

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// newValidator builds the pre-flight validator. Field names in violation
// reports use the json tag, matching the per-field error keys the backend
// emits so callers handle a single shape.
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

// validateStruct checks payload against its validate tags and returns the
// violations keyed by json field name, or nil when the payload is valid.
func (c *Client) validateStruct(payload any) map[string][]string {
	err := c.validate.Struct(payload)
	if err == nil {
		return nil
	}

	var violations validator.ValidationErrors
	if !errors.As(err, &violations) {
		return map[string][]string{"non_field_errors": {err.Error()}}
	}

	fields := make(map[string][]string, len(violations))
	for _, violation := range violations {
		field := violation.Field()
		fields[field] = append(fields[field], validationMessage(violation))
	}
	return fields
}

func validationMessage(violation validator.FieldError) string {
	switch violation.Tag() {
	case "required":
		return "this field is required"
	case "email":
		return "enter a valid email address"
	case "min":
		return fmt.Sprintf("must be at least %s characters", violation.Param())
	case "max":
		return fmt.Sprintf("must be at most %s characters", violation.Param())
	case "eqfield":
		return "fields do not match"
	case "oneof":
		return fmt.Sprintf("must be one of: %s", violation.Param())
	default:
		return "is invalid"
	}
}
