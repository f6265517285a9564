package handlers

import (
	"net/http"

	"engsite/internal/service"
)

type ContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone"`
	Message string `json:"message" validate:"required"`
}

func (h *Handlers) CreateContact(w http.ResponseWriter, r *http.Request) {
	var req ContactRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Name, a valid email and a message are required", http.StatusBadRequest)
		return
	}

	res, err := h.SiteContactService.CreateContact(r.Context(), service.ContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Phone:   req.Phone,
		Message: req.Message,
	})
	if err == nil {
		h.Metrics.Contact()
	}
	writeResult(h, w, r, res, err, http.StatusCreated)
}

func (h *Handlers) GetContacts(w http.ResponseWriter, r *http.Request) {
	res, err := h.SiteContactService.GetAllContacts(r.Context(), r.URL.Query().Get("q"))
	writeResult(h, w, r, res, err, http.StatusOK)
}
