// Package apperr defines the error kinds shared across the services and
// the gateway. Callers match them with errors.As.
package apperr

import (
	"fmt"
	"strings"
)

// FieldViolation is a single schema violation.
type FieldViolation struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// ValidationError reports every violation found in a request body.
type ValidationError struct {
	Violations []FieldViolation
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Violations))
	for _, v := range e.Violations {
		if v.Field == "" {
			parts = append(parts, v.Reason)
			continue
		}
		parts = append(parts, v.Field+": "+v.Reason)
	}
	return "invalid request: " + strings.Join(parts, "; ")
}

// Has reports whether field has at least one violation.
func (e *ValidationError) Has(field string) bool {
	for _, v := range e.Violations {
		if v.Field == field {
			return true
		}
	}
	return false
}

// StorageError wraps a failed call to the store or object storage.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return e.Op + ": " + e.Err.Error() }

func (e *StorageError) Unwrap() error { return e.Err }

// Storage wraps err as a StorageError for op. A nil err stays nil.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	return &StorageError{Op: op, Err: err}
}

// NotFoundError is returned by point lookups that must find a record.
type NotFoundError struct {
	Kind string
	ID   string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s %q not found", e.Kind, e.ID) }

// UnresolvableEventError marks a storage event that maps to no image record.
type UnresolvableEventError struct {
	ObjectKey string
	Reason    string
}

func (e *UnresolvableEventError) Error() string {
	return fmt.Sprintf("unresolvable event for %q: %s", e.ObjectKey, e.Reason)
}
