package auth

import (
	"testing"

	"github.com/jefferyraooji/School-Database-Management-System/backend/internal/shared"
)

func registerInput(role string) RegisterInput {
	input := RegisterInput{
		Username:        "jcruz",
		Email:           "juan.cruz@school.edu",
		Password:        "password123",
		ConfirmPassword: "password123",
		Role:            role,
		FirstName:       "Juan",
		LastName:        "Cruz",
	}
	switch role {
	case shared.RoleStudent:
		input.StudentID = "20230001"
	case shared.RoleTeacher:
		input.TeacherID = "T100001"
	}
	return input
}

func TestValidateRegistration(t *testing.T) {
	t.Run("valid student", func(t *testing.T) {
		if err := validateRegistration(registerInput(shared.RoleStudent)); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("valid teacher", func(t *testing.T) {
		if err := validateRegistration(registerInput(shared.RoleTeacher)); err != nil {
			t.Errorf("unexpected error: %v", err)
		}
	})

	t.Run("password mismatch", func(t *testing.T) {
		input := registerInput(shared.RoleStudent)
		input.ConfirmPassword = "different"
		if err := validateRegistration(input); !shared.IsValidation(err) {
			t.Errorf("got %v, want validation error", err)
		}
	})

	t.Run("admin cannot self register", func(t *testing.T) {
		input := registerInput(shared.RoleStudent)
		input.Role = shared.RoleAdmin
		if err := validateRegistration(input); !shared.IsValidation(err) {
			t.Errorf("got %v, want validation error", err)
		}
	})

	t.Run("unknown role", func(t *testing.T) {
		input := registerInput(shared.RoleStudent)
		input.Role = "principal"
		if err := validateRegistration(input); !shared.IsValidation(err) {
			t.Errorf("got %v, want validation error", err)
		}
	})

	t.Run("student requires well formed student id", func(t *testing.T) {
		input := registerInput(shared.RoleStudent)
		input.StudentID = ""
		if err := validateRegistration(input); !shared.IsValidation(err) {
			t.Errorf("got %v, want validation error for missing ID", err)
		}

		input.StudentID = "2023001" // 7 digits
		if err := validateRegistration(input); !shared.IsValidation(err) {
			t.Errorf("got %v, want validation error for short ID", err)
		}
	})

	t.Run("teacher requires well formed teacher id", func(t *testing.T) {
		input := registerInput(shared.RoleTeacher)
		input.TeacherID = ""
		if err := validateRegistration(input); !shared.IsValidation(err) {
			t.Errorf("got %v, want validation error for missing ID", err)
		}

		input.TeacherID = "100001" // missing prefix
		if err := validateRegistration(input); !shared.IsValidation(err) {
			t.Errorf("got %v, want validation error for bad format", err)
		}
	})
}
