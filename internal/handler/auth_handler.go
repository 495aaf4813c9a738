package handler

import (
	"net/http"

	"github.com/Irenepaul17/new-log-sub000/internal/auth"
	"github.com/Irenepaul17/new-log-sub000/internal/models"
	"github.com/Irenepaul17/new-log-sub000/internal/service"
)

type AuthHandler struct {
	svc   *service.AuthService
	users *service.UserService
}

func NewAuthHandler(svc *service.AuthService, users *service.UserService) *AuthHandler {
	return &AuthHandler{svc: svc, users: users}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req service.RegisterRequest
	if err := readJSON(r, &req); err != nil {
		badBody(w)
		return
	}
	if req.Email == "" || req.Password == "" || req.Name == "" {
		writeError(w, http.StatusBadRequest, "email, password, and name are required")
		return
	}
	result, err := h.svc.Register(r.Context(), req)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, result)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		badBody(w)
		return
	}
	if req.Email == "" || req.Password == "" {
		writeError(w, http.StatusBadRequest, "email and password are required")
		return
	}
	result, err := h.svc.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	claims := auth.GetUser(r.Context())
	user, err := h.svc.Me(r.Context(), claims.UserID)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, user)
}

// Supervisors lists who a new account with ?role= may report to.
func (h *AuthHandler) Supervisors(w http.ResponseWriter, r *http.Request) {
	role := models.Role(r.URL.Query().Get("role"))
	if role == "" {
		role = models.RoleTechnician
	}
	opts, err := h.users.SupervisorOptions(r.Context(), role)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, opts)
}
