package util

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/jefferyraooji/School-Database-Management-System/backend/internal/shared"
)

// JSONResponse structure for successful responses
type JSONResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
}

// JSONError structure for error responses
type JSONError struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// WriteJSON is a helper to write JSON responses
func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	var response interface{}

	// If payload is already a map with a "success" key, use it directly
	if responseMap, ok := payload.(map[string]interface{}); ok && responseMap["success"] != nil {
		response = payload
	} else if status >= 200 && status < 300 {
		response = JSONResponse{Success: true, Data: payload}
	} else {
		response = JSONError{Success: false, Message: "Unknown error"}
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("Error writing JSON response: %v", err)
	}
}

// WriteJSONError is a helper to write standardized error JSON responses
func WriteJSONError(w http.ResponseWriter, status int, message string) {
	log.Printf("HTTP Error %d: %s", status, message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	errorResponse := JSONError{
		Success: false,
		Message: message,
	}

	if err := json.NewEncoder(w).Encode(errorResponse); err != nil {
		log.Printf("Error writing JSON error response: %v", err)
	}
}

// HandleServiceError translates service-layer errors to HTTP responses.
// Validation failures name the offending field so the frontend can highlight
// it; everything unrecognized becomes a 500 without leaking internals.
func HandleServiceError(w http.ResponseWriter, err error) {
	var validationErr *shared.ValidationError
	var notFoundErr *shared.NotFoundError
	var unauthorizedErr *shared.UnauthorizedError
	var forbiddenErr *shared.ForbiddenError
	var conflictErr *shared.ConflictError

	switch {
	case errors.As(err, &validationErr):
		log.Printf("HTTP Error %d: %s", http.StatusBadRequest, validationErr.Error())
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		response := JSONError{
			Success: false,
			Message: validationErr.Message,
			Field:   validationErr.Field,
		}
		if encodeErr := json.NewEncoder(w).Encode(response); encodeErr != nil {
			log.Printf("Error writing JSON error response: %v", encodeErr)
		}
	case errors.As(err, &notFoundErr):
		WriteJSONError(w, http.StatusNotFound, notFoundErr.Error())
	case errors.As(err, &unauthorizedErr):
		WriteJSONError(w, http.StatusUnauthorized, unauthorizedErr.Error())
	case errors.As(err, &forbiddenErr):
		WriteJSONError(w, http.StatusForbidden, forbiddenErr.Error())
	case errors.As(err, &conflictErr):
		WriteJSONError(w, http.StatusConflict, conflictErr.Error())
	default:
		log.Printf("Unhandled service error: %v", err)
		WriteJSONError(w, http.StatusInternalServerError, "Internal server error")
	}
}

// ExtractToken extracts the token from the Authorization header (Bearer <token>)
func ExtractToken(r *http.Request) (string, error) {
	authHeader := r.Header.Get("Authorization")
	if authHeader == "" {
		return "", errors.New("authorization header missing")
	}

	// Expect header: "Bearer <token>"
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
		return "", errors.New("invalid authorization header format")
	}

	return parts[1], nil
}
