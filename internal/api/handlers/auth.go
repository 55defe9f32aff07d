package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/outracoisa/filmoteca/internal/state"
	"github.com/sirupsen/logrus"
)

// AuthHandler exposes the authentication state over HTTP
type AuthHandler struct {
	authState *state.AuthState
	logger    *logrus.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authState *state.AuthState, logger *logrus.Logger) *AuthHandler {
	return &AuthHandler{
		authState: authState,
		logger:    logger,
	}
}

type credentialsRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// Register handles POST /api/auth/register
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		return
	}

	h.authState.Register(req.Username, req.Password, req.Name)

	snap := h.authState.Snapshot()
	status := http.StatusCreated
	if snap.Err != "" {
		status = http.StatusConflict
	}
	writeJSON(w, status, snap)
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid payload", http.StatusBadRequest)
		return
	}

	h.authState.Login(req.Username, req.Password)

	snap := h.authState.Snapshot()
	status := http.StatusOK
	if snap.Err != "" {
		status = http.StatusUnauthorized
	}
	writeJSON(w, status, snap)
}

// Logout handles POST /api/auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.authState.Logout()
	writeJSON(w, http.StatusOK, h.authState.Snapshot())
}

// Session handles GET /api/auth/session
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.authState.Snapshot())
}
