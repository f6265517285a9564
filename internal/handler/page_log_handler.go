package handlers

import (
	"net/http"

	"engsite/internal/models"
)

type PageViewRequest struct {
	PathName  string           `json:"pathName" validate:"required"`
	TimeStamp models.Timestamp `json:"timeStamp"`
	User      *string          `json:"user"`
	Referrer  string           `json:"referrer"`
}

// SendPageView always answers 202 once the body is readable; recording is
// best effort.
func (h *Handlers) SendPageView(w http.ResponseWriter, r *http.Request) {
	var req PageViewRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "pathName is required", http.StatusBadRequest)
		return
	}

	referrer := req.Referrer
	if referrer == "" {
		referrer = r.Referer()
	}

	h.LogService.SendPageView(r.Context(), models.PageView{
		PathName:  req.PathName,
		TimeStamp: req.TimeStamp,
		User:      req.User,
		Referrer:  referrer,
		UserAgent: r.UserAgent(),
	})
	h.Metrics.PageView()

	WriteSuccess(w, models.OK[any]("Page view received", nil), http.StatusAccepted)
}
