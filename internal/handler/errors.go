package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/url"

	"engsite/internal/apiclient"
	"engsite/internal/models"
	"engsite/internal/repository"
	"engsite/internal/service"
)

// WriteError answers with the failure envelope.
func WriteError(w http.ResponseWriter, message string, statusCode int) {
	WriteSuccess(w, models.Fail[any](message), statusCode)
}

// WriteSuccess encodes data as is. Callers pass a models.Result.
func WriteSuccess(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(data)
}

// statusFor maps service and upstream errors to HTTP statuses.
func statusFor(err error) int {
	var (
		apiErr *apiclient.Error
		urlErr *url.Error
	)

	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidCredentials), errors.Is(err, service.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrUnsupportedImage):
		return http.StatusUnsupportedMediaType
	case errors.Is(err, service.ErrStorageDisabled):
		return http.StatusServiceUnavailable
	case errors.As(err, &apiErr), errors.As(err, &urlErr):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// writeResult sends res with the status derived from err.
func writeResult[T any](h *Handlers, w http.ResponseWriter, r *http.Request, res models.Result[T], err error, okStatus int) {
	if err != nil {
		status := statusFor(err)
		if status >= http.StatusInternalServerError {
			h.Log.WithError(err).WithField("path", r.URL.Path).Error("request failed")
		}
		if res.Message == "" {
			res.Message = http.StatusText(status)
		}
		res.Success = false
		WriteSuccess(w, res, status)
		return
	}

	WriteSuccess(w, res, okStatus)
}

func decodeJSON(r *http.Request, dst any) error {
	return json.NewDecoder(r.Body).Decode(dst)
}
