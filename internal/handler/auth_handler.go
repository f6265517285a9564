package handlers

import (
	"errors"
	"net/http"

	"engsite/internal/models"
	"engsite/internal/service"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

func (h *Handlers) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Email and password are required", http.StatusBadRequest)
		return
	}

	res, err := h.AuthService.Login(r.Context(), models.Credentials{Email: req.Email, Password: req.Password})
	h.Metrics.Login(err == nil)
	if errors.Is(err, service.ErrInvalidCredentials) {
		h.Log.WithField("email", req.Email).Info("rejected login")
	}

	writeResult(h, w, r, res, err, http.StatusOK)
}

func (h *Handlers) Logout(w http.ResponseWriter, r *http.Request) {
	res, err := h.AuthService.Logout(r.Context())
	writeResult(h, w, r, res, err, http.StatusOK)
}

func (h *Handlers) Session(w http.ResponseWriter, r *http.Request) {
	res, err := h.AuthService.Session(r.Context())
	writeResult(h, w, r, res, err, http.StatusOK)
}
