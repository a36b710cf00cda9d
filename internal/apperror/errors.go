// Package apperror defines the error taxonomy shared by all domain services.
package apperror

import (
	"errors"
	"fmt"
)

// Kind classifies a domain error for callers and the HTTP layer.
type Kind string

const (
	KindValidation   Kind = "validation_error"
	KindConflict     Kind = "conflict"
	KindReference    Kind = "reference_error"
	KindAccessDenied Kind = "access_denied"
	KindNotFound     Kind = "not_found"
)

// Error is a kind-tagged domain error. Field and Code are populated for
// validation errors only.
type Error struct {
	Kind    Kind
	Field   string
	Code    string
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s %s", e.Kind, e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.cause }

// Validation reports a malformed field value.
func Validation(field, code, message string) *Error {
	return &Error{Kind: KindValidation, Field: field, Code: code, Message: message}
}

// Conflict reports a uniqueness violation.
func Conflict(message string) *Error {
	return &Error{Kind: KindConflict, Message: message}
}

// ConflictFrom wraps a storage-level duplicate key error.
func ConflictFrom(message string, cause error) *Error {
	return &Error{Kind: KindConflict, Message: message, cause: cause}
}

// Reference reports a foreign id that exists in the wrong scope or not at all.
func Reference(message string) *Error {
	return &Error{Kind: KindReference, Message: message}
}

// AccessDenied reports a missing membership or insufficient role.
func AccessDenied(message string) *Error {
	return &Error{Kind: KindAccessDenied, Message: message}
}

// NotFound reports an entity id that does not exist within the caller's scope.
func NotFound(message string) *Error {
	return &Error{Kind: KindNotFound, Message: message}
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind == kind
	}
	return false
}

func IsValidation(err error) bool   { return IsKind(err, KindValidation) }
func IsConflict(err error) bool     { return IsKind(err, KindConflict) }
func IsReference(err error) bool    { return IsKind(err, KindReference) }
func IsAccessDenied(err error) bool { return IsKind(err, KindAccessDenied) }
func IsNotFound(err error) bool     { return IsKind(err, KindNotFound) }
