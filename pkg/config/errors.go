package config

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidConfiguration is matched by every error returned from Load
var ErrInvalidConfiguration = errors.New("invalid configuration")

// FieldError describes a single raw value that could not be accepted
type FieldError struct {
	Field  string // settings field, e.g. "llm_provider"
	Env    string // environment key, e.g. "LLM_PROVIDER"
	Value  string // raw value as read
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: invalid value %q (%s): %s", e.Field, e.Value, e.Env, e.Reason)
}

// Unwrap lets errors.Is match ErrInvalidConfiguration
func (e *FieldError) Unwrap() error {
	return ErrInvalidConfiguration
}

// ValidationError aggregates every FieldError found during a load
type ValidationError struct {
	Errors []*FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("%s: %s", ErrInvalidConfiguration, e.Errors[0])
	}
	msgs := make([]string, len(e.Errors))
	for i, fe := range e.Errors {
		msgs[i] = fe.Error()
	}
	return fmt.Sprintf("%s: %d errors: %s", ErrInvalidConfiguration, len(e.Errors), strings.Join(msgs, "; "))
}

// Unwrap lets errors.Is match ErrInvalidConfiguration
func (e *ValidationError) Unwrap() error {
	return ErrInvalidConfiguration
}

// Field returns the error for the named settings field, or nil
func (e *ValidationError) Field(name string) *FieldError {
	for _, fe := range e.Errors {
		if fe.Field == name {
			return fe
		}
	}
	return nil
}
