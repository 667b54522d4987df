// Package validate checks request bodies against their declared schema
// before any handler logic runs.
package validate

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/kylejryan/image-groups/internal/apperr"
)

var v = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(jsonName)
	// notblank rejects whitespace-only strings.
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return v
}

// Body decodes a JSON request body into dst, a pointer to a schema struct,
// and validates it. Every violation is reported in one *apperr.ValidationError.
// Properties the schema does not declare are accepted and ignored.
func Body(body string, dst any) error {
	rv := reflect.ValueOf(dst)
	if rv.Kind() != reflect.Pointer || rv.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("validate: dst must be a pointer to struct, got %T", dst)
	}

	if strings.TrimSpace(body) == "" {
		return invalid(apperr.FieldViolation{Field: "body", Reason: "is required"})
	}
	var obj map[string]json.RawMessage
	if err := json.Unmarshal([]byte(body), &obj); err != nil || obj == nil {
		return invalid(apperr.FieldViolation{Field: "body", Reason: "must be a JSON object"})
	}

	var violations []apperr.FieldViolation
	badType := map[string]bool{}

	elem := rv.Elem()
	for i := 0; i < elem.NumField(); i++ {
		name := jsonName(elem.Type().Field(i))
		raw, ok := obj[name]
		if name == "" || !ok {
			continue
		}
		if err := json.Unmarshal(raw, elem.Field(i).Addr().Interface()); err != nil {
			badType[name] = true
			violations = append(violations, apperr.FieldViolation{
				Field:  name,
				Reason: "must be a " + kindName(elem.Field(i).Kind()),
			})
		}
	}

	if err := v.Struct(dst); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validate: %w", err)
		}
		for _, fe := range verrs {
			if badType[fe.Field()] {
				continue
			}
			violations = append(violations, apperr.FieldViolation{Field: fe.Field(), Reason: reason(fe)})
		}
	}

	if len(violations) > 0 {
		return invalid(violations...)
	}
	return nil
}

func invalid(vs ...apperr.FieldViolation) error {
	return &apperr.ValidationError{Violations: vs}
}

func jsonName(f reflect.StructField) string {
	name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "notblank":
		return "must not be blank"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	default:
		return "failed " + fe.Tag() + " check"
	}
}

func kindName(k reflect.Kind) string {
	switch k {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	default:
		return "number"
	}
}
