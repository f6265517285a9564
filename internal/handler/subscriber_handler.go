package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
)

type SubscribeRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (h *Handlers) Subscribe(w http.ResponseWriter, r *http.Request) {
	var req SubscribeRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "A valid email is required", http.StatusBadRequest)
		return
	}

	res, err := h.SubscriberService.Subscribe(r.Context(), req.Email)
	if err == nil {
		h.Metrics.Subscription()
	}
	writeResult(h, w, r, res, err, http.StatusCreated)
}

func (h *Handlers) GetSubscribers(w http.ResponseWriter, r *http.Request) {
	res, err := h.SubscriberService.GetAllSubscribers(r.Context(), r.URL.Query().Get("q"))
	writeResult(h, w, r, res, err, http.StatusOK)
}

func (h *Handlers) DeleteSubscriber(w http.ResponseWriter, r *http.Request) {
	res, err := h.SubscriberService.DeleteSubscriber(r.Context(), mux.Vars(r)["email"])
	writeResult(h, w, r, res, err, http.StatusOK)
}

func (h *Handlers) ExportSubscribers(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	if err := h.SubscriberService.ExportCSV(r.Context(), &buf); err != nil {
		h.Log.WithError(err).Error("subscriber export failed")
		WriteError(w, "Could not export subscribers", statusFor(err))
		return
	}

	fileName := fmt.Sprintf("subscribers-%s.csv", time.Now().UTC().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}
