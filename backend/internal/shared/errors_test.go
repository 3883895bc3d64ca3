package shared

import (
	"errors"
	"fmt"
	"testing"
)

func TestErrorTaxonomy(t *testing.T) {
	t.Run("validation error names the field", func(t *testing.T) {
		err := NewValidationError("score", "score must be between 0 and 100")
		if err.Field != "score" {
			t.Errorf("Field = %q, want score", err.Field)
		}
		if !IsValidation(err) {
			t.Error("IsValidation = false for a ValidationError")
		}
		if IsNotFound(err) {
			t.Error("IsNotFound = true for a ValidationError")
		}
	})

	t.Run("not found error with and without id", func(t *testing.T) {
		err := NewNotFoundError("course", "CRS-1")
		if err.Error() != "course not found: CRS-1" {
			t.Errorf("Error() = %q", err.Error())
		}

		err = NewNotFoundError("course", "")
		if err.Error() != "course not found" {
			t.Errorf("Error() = %q", err.Error())
		}
		if !IsNotFound(err) {
			t.Error("IsNotFound = false for a NotFoundError")
		}
	})

	t.Run("errors.As through wrapping", func(t *testing.T) {
		wrapped := fmt.Errorf("saving grade: %w", NewValidationError("weight", "weight must be between 0 and 1"))

		var ve *ValidationError
		if !errors.As(wrapped, &ve) {
			t.Fatal("errors.As failed to unwrap ValidationError")
		}
		if ve.Field != "weight" {
			t.Errorf("Field = %q, want weight", ve.Field)
		}
		if !IsValidation(wrapped) {
			t.Error("IsValidation = false for wrapped ValidationError")
		}
	})

	t.Run("unauthorized, forbidden and conflict messages", func(t *testing.T) {
		unauthorized := NewUnauthorizedError("invalid credentials")
		if unauthorized.Error() != "invalid credentials" {
			t.Errorf("Error() = %q", unauthorized.Error())
		}

		forbidden := NewForbiddenError("not your course")
		if forbidden.Error() != "not your course" {
			t.Errorf("Error() = %q", forbidden.Error())
		}

		conflict := NewConflictError("course is full")
		if conflict.Error() != "course is full" {
			t.Errorf("Error() = %q", conflict.Error())
		}
	})
}
