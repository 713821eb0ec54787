// Package validator wraps struct-tag validation for request payloads and
// parsed line records.
package validator

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New()

// Validate checks `validate` struct tags and returns field -> failed-tag
// pairs, or nil when the value passes.
func Validate(v interface{}) map[string]string {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	fields := make(map[string]string)
	for _, fe := range err.(validator.ValidationErrors) {
		fields[fe.Field()] = fe.Tag()
	}
	return fields
}

// Check is the error-returning form used on service paths.
func Check(v interface{}) error {
	fields := Validate(v)
	if len(fields) == 0 {
		return nil
	}
	parts := make([]string, 0, len(fields))
	for field, tag := range fields {
		parts = append(parts, fmt.Sprintf("%s (%s)", field, tag))
	}
	sort.Strings(parts)
	return fmt.Errorf("invalid fields: %s", strings.Join(parts, ", "))
}
