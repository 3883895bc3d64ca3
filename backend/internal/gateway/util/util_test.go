package util

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/jefferyraooji/School-Database-Management-System/backend/internal/shared"
)

func TestHandleServiceError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{"validation", shared.NewValidationError("score", "out of range"), http.StatusBadRequest},
		{"not found", shared.NewNotFoundError("grade", "GRD-1"), http.StatusNotFound},
		{"unauthorized", shared.NewUnauthorizedError("invalid credentials"), http.StatusUnauthorized},
		{"forbidden", shared.NewForbiddenError("not your course"), http.StatusForbidden},
		{"conflict", shared.NewConflictError("course is full"), http.StatusConflict},
		{"unknown", errors.New("database exploded"), http.StatusInternalServerError},
		{"wrapped validation", fmt.Errorf("saving: %w", shared.NewValidationError("weight", "bad")), http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleServiceError(rec, tt.err)

			if rec.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d", rec.Code, tt.wantStatus)
			}

			var body JSONError
			if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
				t.Fatalf("response is not JSON: %v", err)
			}
			if body.Success {
				t.Error("success = true on an error response")
			}
		})
	}

	t.Run("validation response names the field", func(t *testing.T) {
		rec := httptest.NewRecorder()
		HandleServiceError(rec, shared.NewValidationError("maxScore", "max score must be between 1 and 100"))

		var body JSONError
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("response is not JSON: %v", err)
		}
		if body.Field != "maxScore" {
			t.Errorf("field = %q, want maxScore", body.Field)
		}
	})

	t.Run("internal errors do not leak details", func(t *testing.T) {
		rec := httptest.NewRecorder()
		HandleServiceError(rec, errors.New("mongo: connection refused at 10.0.0.5"))

		var body JSONError
		if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
			t.Fatalf("response is not JSON: %v", err)
		}
		if body.Message != "Internal server error" {
			t.Errorf("message = %q, must not expose internals", body.Message)
		}
	})
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusOK, map[string]string{"hello": "world"})

	if rec.Code != http.StatusOK {
		t.Errorf("status = %d, want 200", rec.Code)
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q, want application/json", ct)
	}

	var body JSONResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("response is not JSON: %v", err)
	}
	if !body.Success {
		t.Error("success = false on a 200 response")
	}
}

func TestExtractToken(t *testing.T) {
	t.Run("bearer token", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Bearer abc123")

		token, err := ExtractToken(r)
		if err != nil {
			t.Fatalf("ExtractToken returned error: %v", err)
		}
		if token != "abc123" {
			t.Errorf("token = %q, want abc123", token)
		}
	})

	t.Run("missing header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		if _, err := ExtractToken(r); err == nil {
			t.Error("expected error for missing Authorization header")
		}
	})

	t.Run("malformed header", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet, "/", nil)
		r.Header.Set("Authorization", "Token abc123")
		if _, err := ExtractToken(r); err == nil {
			t.Error("expected error for non-bearer scheme")
		}
	})
}
