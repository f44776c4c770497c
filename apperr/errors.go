// Package apperr defines the error taxonomy shared by the services, the
// backends and the HTTP layer.
package apperr

import (
	"errors"
	"fmt"
	"strings"
)

// FieldError is used to indicate an error with a specific request field.
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ValidationError is raised before any backend call when input is unusable.
type ValidationError struct {
	Message string
	Fields  []FieldError
}

func NewValidationError(msg string, flds ...FieldError) error {
	return &ValidationError{Message: msg, Fields: flds}
}

// Field is a shorthand for a single-field ValidationError.
func Field(field, msg string) error {
	return &ValidationError{Message: msg, Fields: []FieldError{{Field: field, Error: msg}}}
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Error)
	}
	return strings.Join(parts, "; ")
}

// FieldMap flattens the field errors the way the JSON envelope expects them.
func (e *ValidationError) FieldMap() map[string]string {
	m := make(map[string]string, len(e.Fields))
	for _, f := range e.Fields {
		m[f.Field] = f.Error
	}
	return m
}

// NotFoundError reports a referenced entity that does not exist.
type NotFoundError struct {
	Entity string
	ID     any
}

func NotFound(entity string, id any) error {
	return &NotFoundError{Entity: entity, ID: id}
}

func (e *NotFoundError) Error() string {
	if e.ID == nil {
		return e.Entity + " not found"
	}
	return fmt.Sprintf("%s %v not found", e.Entity, e.ID)
}

// ConflictError reports a write rejected by a uniqueness or state rule.
type ConflictError struct {
	Message string
}

func Conflict(format string, args ...any) error {
	return &ConflictError{Message: fmt.Sprintf(format, args...)}
}

func (e *ConflictError) Error() string { return e.Message }

// ForbiddenError reports an authenticated caller acting outside its scope.
type ForbiddenError struct {
	Message string
}

func Forbidden(msg string) error {
	return &ForbiddenError{Message: msg}
}

func (e *ForbiddenError) Error() string { return e.Message }

// BackendError wraps a network or query failure. Operations are never retried.
type BackendError struct {
	Op         string
	StatusCode int
	Err        error
}

func Backend(op string, err error) error {
	if err == nil {
		return nil
	}
	return &BackendError{Op: op, Err: err}
}

func (e *BackendError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("backend %s: status %d: %v", e.Op, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("backend %s: %v", e.Op, e.Err)
}

func (e *BackendError) Unwrap() error { return e.Err }

// ParseError reports a backend row that does not match its record type.
type ParseError struct {
	Entity string
	Field  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("parse %s: %s", e.Entity, e.Reason)
	}
	return fmt.Sprintf("parse %s.%s: %s", e.Entity, e.Field, e.Reason)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

func IsForbidden(err error) bool {
	var fe *ForbiddenError
	return errors.As(err, &fe)
}

func IsBackend(err error) bool {
	var be *BackendError
	return errors.As(err, &be)
}

func IsParse(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
