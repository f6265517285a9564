package handlers

import (
	"net/http"

	"github.com/gorilla/mux"
)

func (h *Handlers) GetProjects(w http.ResponseWriter, r *http.Request) {
	WriteSuccess(w, h.ProjectService.GetProjects(r.Context()), http.StatusOK)
}

func (h *Handlers) GetProject(w http.ResponseWriter, r *http.Request) {
	res, ok := h.ProjectService.GetProjectByID(r.Context(), mux.Vars(r)["id"])
	if !ok {
		WriteSuccess(w, res, http.StatusNotFound)
		return
	}
	WriteSuccess(w, res, http.StatusOK)
}
