package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/jefferyraooji/School-Database-Management-System/backend/internal/auth"
	"github.com/jefferyraooji/School-Database-Management-System/backend/internal/gateway/util"
)

var validate = validator.New()

// AuthHandler handles authentication HTTP requests
type AuthHandler struct {
	Auth *auth.Service
}

// LoginRequest is the login request body
type LoginRequest struct {
	Identifier string `json:"identifier" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Identifier and password are required")
		return
	}

	result, err := h.Auth.Login(r.Context(), req.Identifier, req.Password, r.RemoteAddr)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, result)
}

// Register handles POST /api/auth/register. Registration does not log the
// new account in; the user authenticates separately afterwards.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input auth.RegisterInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(input); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Missing or invalid registration fields")
		return
	}

	user, err := h.Auth.Register(r.Context(), input)
	if err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusCreated, map[string]interface{}{
		"success": true,
		"message": "account created successfully, please log in",
		"user":    user,
	})
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	token, err := util.ExtractToken(r)
	if err != nil {
		util.WriteJSONError(w, http.StatusUnauthorized, "Authorization token required")
		return
	}

	if err := h.Auth.Logout(r.Context(), token); err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "logout successful",
	})
}

// Validate handles GET /api/auth/me and its /auth/validate alias
func (h *AuthHandler) Validate(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)
	if user == nil {
		util.WriteJSONError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}
	util.WriteJSON(w, http.StatusOK, user)
}

// ChangePasswordRequest is the change-password request body
type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required,min=8"`
}

// ChangePassword handles POST /api/auth/change-password
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	user := CurrentUser(r)
	if user == nil {
		util.WriteJSONError(w, http.StatusUnauthorized, "Invalid or expired token")
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		util.WriteJSONError(w, http.StatusBadRequest, "New password must be at least 8 characters")
		return
	}

	if err := h.Auth.ChangePassword(r.Context(), user.ID, req.OldPassword, req.NewPassword); err != nil {
		util.HandleServiceError(w, err)
		return
	}

	util.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success": true,
		"message": "password changed successfully",
	})
}
