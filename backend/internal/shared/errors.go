// ============================================================================
// backend/internal/shared/errors.go
// Error taxonomy shared by all services
// ============================================================================

package shared

import (
	"errors"
	"fmt"
)

// ValidationError reports an out-of-range or malformed input field. It is
// rejected before any computation runs and always names the offending field.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Message)
}

// NewValidationError creates a ValidationError for a field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// NotFoundError reports a referenced resource (student, course, grade) that
// does not exist.
type NotFoundError struct {
	Resource string `json:"resource"`
	ID       string `json:"id,omitempty"`
}

func (e *NotFoundError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("%s not found", e.Resource)
	}
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// NewNotFoundError creates a NotFoundError for a resource
func NewNotFoundError(resource, id string) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: id}
}

// UnauthorizedError reports a failed authentication: bad credentials or a
// missing, invalid or revoked token.
type UnauthorizedError struct {
	Message string `json:"message"`
}

func (e *UnauthorizedError) Error() string {
	return e.Message
}

// NewUnauthorizedError creates an UnauthorizedError
func NewUnauthorizedError(message string) *UnauthorizedError {
	return &UnauthorizedError{Message: message}
}

// ForbiddenError reports an operation the authenticated user may not perform
// (e.g., a teacher grading another teacher's course).
type ForbiddenError struct {
	Message string `json:"message"`
}

func (e *ForbiddenError) Error() string {
	return e.Message
}

// NewForbiddenError creates a ForbiddenError
func NewForbiddenError(message string) *ForbiddenError {
	return &ForbiddenError{Message: message}
}

// ConflictError reports a uniqueness violation (duplicate course offering,
// full roster, double enrollment).
type ConflictError struct {
	Message string `json:"message"`
}

func (e *ConflictError) Error() string {
	return e.Message
}

// NewConflictError creates a ConflictError
func NewConflictError(message string) *ConflictError {
	return &ConflictError{Message: message}
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsNotFound reports whether err is a NotFoundError
func IsNotFound(err error) bool {
	var nfe *NotFoundError
	return errors.As(err, &nfe)
}
