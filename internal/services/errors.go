package services

import (
	"errors"
	"strings"
)

// ErrValidation is matched by every *ValidationError.
var ErrValidation = errors.New("validation failed")

// ErrInvalidCredentials is returned when a password does not match the stored hash.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ValidationError lists the request fields that were missing or malformed.
type ValidationError struct {
	Fields []string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return e.Reason
	}
	return "missing required fields: " + strings.Join(e.Fields, ", ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func missingFields(values map[string]string, order ...string) error {
	var missing []string
	for _, field := range order {
		if strings.TrimSpace(values[field]) == "" {
			missing = append(missing, field)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	return &ValidationError{Fields: missing}
}
