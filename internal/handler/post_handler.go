package handlers

import (
	"errors"
	"net/http"

	"engsite/internal/models"
	"engsite/internal/repository"
	"engsite/internal/service"

	"github.com/gorilla/mux"
)

type CreatePostRequest struct {
	Title     string   `json:"title" validate:"required"`
	Content   string   `json:"content" validate:"required"`
	Summary   string   `json:"summary"`
	Image     string   `json:"image"`
	Published bool     `json:"published"`
	Tags      []string `json:"tags"`
}

type UpdatePostRequest struct {
	Title     *string  `json:"title" validate:"omitempty,min=1"`
	Content   *string  `json:"content" validate:"omitempty,min=1"`
	Summary   *string  `json:"summary"`
	Image     *string  `json:"image"`
	Published *bool    `json:"published"`
	Tags      []string `json:"tags"`
}

func (h *Handlers) GetPosts(w http.ResponseWriter, r *http.Request) {
	res, err := h.PostService.GetAllPosts(r.Context(), r.URL.Query().Get("q"))
	writeResult(h, w, r, res, err, http.StatusOK)
}

func (h *Handlers) GetPublishedPosts(w http.ResponseWriter, r *http.Request) {
	res, err := h.PostService.GetPublishedPosts(r.Context(), r.URL.Query().Get("q"))
	writeResult(h, w, r, res, err, http.StatusOK)
}

// GetPost hides drafts from anonymous readers.
func (h *Handlers) GetPost(w http.ResponseWriter, r *http.Request) {
	postID := mux.Vars(r)["id"]

	res, err := h.PostService.GetPostByID(r.Context(), postID)
	if err == nil && res.Data != nil && !res.Data.Published {
		if _, ok := service.SessionFromContext(r.Context()); !ok {
			res, err = models.Fail[*models.Post]("Post not found"), repository.ErrNotFound
		}
	}

	writeResult(h, w, r, res, err, http.StatusOK)
}

func (h *Handlers) CreatePost(w http.ResponseWriter, r *http.Request) {
	var req CreatePostRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Title and content are required", http.StatusBadRequest)
		return
	}

	res, err := h.PostService.CreatePost(r.Context(), service.PostInput{
		Title:     &req.Title,
		Content:   &req.Content,
		Summary:   &req.Summary,
		Image:     &req.Image,
		Published: &req.Published,
		Tags:      req.Tags,
	})
	writeResult(h, w, r, res, err, http.StatusCreated)
}

func (h *Handlers) UpdatePost(w http.ResponseWriter, r *http.Request) {
	var req UpdatePostRequest
	if err := decodeJSON(r, &req); err != nil {
		WriteError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.Validate.Struct(req); err != nil {
		WriteError(w, "Title and content cannot be empty", http.StatusBadRequest)
		return
	}

	res, err := h.PostService.UpdatePost(r.Context(), mux.Vars(r)["id"], service.PostInput{
		Title:     req.Title,
		Content:   req.Content,
		Summary:   req.Summary,
		Image:     req.Image,
		Published: req.Published,
		Tags:      req.Tags,
	})
	writeResult(h, w, r, res, err, http.StatusOK)
}

func (h *Handlers) DeletePost(w http.ResponseWriter, r *http.Request) {
	res, err := h.PostService.DeletePost(r.Context(), mux.Vars(r)["id"])
	writeResult(h, w, r, res, err, http.StatusOK)
}

// UploadPostImage expects a multipart form with the file under "image".
func (h *Handlers) UploadPostImage(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.Cfg.MaxUploadSize)

	if err := r.ParseMultipartForm(h.Cfg.MaxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			WriteError(w, "Image is too large", http.StatusRequestEntityTooLarge)
			return
		}
		WriteError(w, "Invalid multipart form", http.StatusBadRequest)
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		WriteError(w, "Image file is required", http.StatusBadRequest)
		return
	}
	defer file.Close()

	res, err := h.PostService.UploadImage(r.Context(), mux.Vars(r)["id"], header.Filename, file, header.Size)
	writeResult(h, w, r, res, err, http.StatusOK)
}
