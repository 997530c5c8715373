// Package bind decodes and validates an HTTP request body into a struct.
//
// Validation uses go-playground/validator struct tags; error messages are
// keyed by the field's json name:
//
//	type input struct {
//	    Email  string  `json:"email"  validate:"required,email"`
//	    Amount float64 `json:"amount" validate:"required,gt=0"`
//	}
//	if errs, err := bind.JSON(r, &in); err != nil { ... } else if errs != nil { ... }
package bind

import (
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strings"

	"encoding/json"

	"github.com/go-playground/validator/v10"
)

// maxBodyBytes caps request bodies to prevent memory exhaustion.
const maxBodyBytes = 4 << 20 // 4 MB

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())

	// Report errors under the json field name, not the Go field name.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "" || name == "-" {
			return strings.ToLower(f.Name)
		}
		return name
	})

	return v
}

// JSON decodes r.Body as JSON into dest and runs validation.
// Returns (errs, nil) when there are validation failures.
// Returns (nil, err) when the body is malformed JSON or too large.
func JSON(r *http.Request, dest interface{}) (map[string]string, error) {
	r.Body = http.MaxBytesReader(nil, r.Body, maxBodyBytes)

	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(dest); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, fmt.Errorf("request body too large (max %d bytes)", maxErr.Limit)
		}
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}

	return Check(dest)
}

// Check validates dest without decoding; useful for inputs assembled from
// query or multipart values.
func Check(dest interface{}) (map[string]string, error) {
	err := validate.Struct(dest)
	if err == nil {
		return nil, nil
	}

	var invalid *validator.InvalidValidationError
	if errors.As(err, &invalid) {
		return nil, fmt.Errorf("bind: %w", invalid)
	}

	errs := make(map[string]string)
	var fieldErrs validator.ValidationErrors
	if errors.As(err, &fieldErrs) {
		for _, fe := range fieldErrs {
			if _, seen := errs[fe.Field()]; seen {
				continue // first failing rule per field
			}
			errs[fe.Field()] = message(fe)
		}
	}
	return errs, nil
}

// message renders a human-readable error for a single failed rule.
func message(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("The %s field is required.", fe.Field())
	case "email":
		return fmt.Sprintf("The %s must be a valid email address.", fe.Field())
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s must be at least %s characters.", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("The %s must be at least %s.", fe.Field(), fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s must not exceed %s characters.", fe.Field(), fe.Param())
		}
		return fmt.Sprintf("The %s must not be greater than %s.", fe.Field(), fe.Param())
	case "gt":
		return fmt.Sprintf("The %s must be greater than %s.", fe.Field(), fe.Param())
	case "gte":
		return fmt.Sprintf("The %s must be greater than or equal to %s.", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("The selected %s is invalid.", fe.Field())
	case "url":
		return fmt.Sprintf("The %s must be a valid URL.", fe.Field())
	case "eqfield":
		return fmt.Sprintf("The %s confirmation does not match.", fe.Field())
	default:
		return fmt.Sprintf("The %s field is invalid.", fe.Field())
	}
}
