package http

import (
	"net/http"
	"strings"

	"rentacar-backend/internal/domain"
	"rentacar-backend/internal/service"
)

type AuthHandler struct {
	authSvc service.AuthService
}

func NewAuthHandler(authSvc service.AuthService) *AuthHandler {
	return &AuthHandler{authSvc: authSvc}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	res, err := h.authSvc.Login(r.Context(), req.Username, req.Password, ActorFromContext(r.Context()).Origin)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, MapLoginResultToResponse(res))
}

// CreateUser creates a staff login.
func (h *AuthHandler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	role := domain.Role(strings.ToUpper(strings.TrimSpace(req.Role)))
	user, err := h.authSvc.CreateUser(r.Context(), ActorFromContext(r.Context()), req.Username, req.Password, role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, MapUserToDTO(user))
}
