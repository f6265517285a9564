package test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"engsite/internal/apiclient"
	"engsite/internal/models"
	"engsite/internal/repository"
	"engsite/internal/service"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGetPublishedPostsHandler(t *testing.T) {
	f := newFixture()
	f.posts.On("GetPublishedPosts", mock.Anything, "bridge").
		Return(models.OK("Post list generated", []models.Post{{ID: "1", Title: "Bridge", Published: true}}), nil)

	rr := httptest.NewRecorder()
	f.handler.GetPublishedPosts(rr, httptest.NewRequest(http.MethodGet, "/api/posts/published?q=bridge", nil))

	_, data := decodeEnvelope(t, rr, http.StatusOK, true)
	var posts []models.Post
	require.NoError(t, json.Unmarshal(data, &posts))
	require.Len(t, posts, 1)
	assert.Equal(t, "Bridge", posts[0].Title)
	f.posts.AssertExpectations(t)
}

func TestGetPostHandler(t *testing.T) {
	draft := &models.Post{ID: "d", Title: "Draft"}
	live := &models.Post{ID: "l", Title: "Live", Published: true}

	tests := []struct {
		name           string
		postID         string
		authorized     bool
		mockSetup      func(*MockPostService)
		expectedStatus int
	}{
		{
			name:   "published post is public",
			postID: "l",
			mockSetup: func(m *MockPostService) {
				m.On("GetPostByID", mock.Anything, "l").Return(models.OK("Post loaded", live), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "draft is hidden from anonymous readers",
			postID: "d",
			mockSetup: func(m *MockPostService) {
				m.On("GetPostByID", mock.Anything, "d").Return(models.OK("Post loaded", draft), nil)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:       "draft is visible to the admin",
			postID:     "d",
			authorized: true,
			mockSetup: func(m *MockPostService) {
				m.On("GetPostByID", mock.Anything, "d").Return(models.OK("Post loaded", draft), nil)
			},
			expectedStatus: http.StatusOK,
		},
		{
			name:   "unknown post",
			postID: "x",
			mockSetup: func(m *MockPostService) {
				m.On("GetPostByID", mock.Anything, "x").Return(models.Fail[*models.Post]("Post not found"), repository.ErrNotFound)
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:   "upstream failure",
			postID: "l",
			mockSetup: func(m *MockPostService) {
				m.On("GetPostByID", mock.Anything, "l").
					Return(models.Fail[*models.Post]("Could not load post"), &apiclient.Error{Status: 500})
			},
			expectedStatus: http.StatusBadGateway,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.mockSetup(f.posts)

			req := httptest.NewRequest(http.MethodGet, "/api/posts/"+tt.postID, nil)
			req = mux.SetURLVars(req, map[string]string{"id": tt.postID})
			if tt.authorized {
				req = req.WithContext(service.WithSession(req.Context(), &models.Session{Token: "t"}))
			}
			rr := httptest.NewRecorder()

			f.handler.GetPost(rr, req)

			decodeEnvelope(t, rr, tt.expectedStatus, tt.expectedStatus == http.StatusOK)
		})
	}
}

func TestCreatePostHandler(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		mockSetup      func(*MockPostService)
		expectedStatus int
	}{
		{
			name: "valid post",
			body: `{"title":"T","content":"C","published":true,"tags":["civil"]}`,
			mockSetup: func(m *MockPostService) {
				m.On("CreatePost", mock.Anything, mock.MatchedBy(func(in service.PostInput) bool {
					return *in.Title == "T" && *in.Content == "C" && *in.Published && len(in.Tags) == 1
				})).Return(models.OK("Post created", &models.Post{ID: "new", Title: "T"}), nil)
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "title required",
			body:           `{"content":"C"}`,
			mockSetup:      func(*MockPostService) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "storage failure",
			body: `{"title":"T","content":"C"}`,
			mockSetup: func(m *MockPostService) {
				m.On("CreatePost", mock.Anything, mock.Anything).
					Return(models.Fail[*models.Post]("Could not create post"), errors.New("disk full"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			tt.mockSetup(f.posts)

			rr := httptest.NewRecorder()
			f.handler.CreatePost(rr, httptest.NewRequest(http.MethodPost, "/api/posts", strings.NewReader(tt.body)))

			decodeEnvelope(t, rr, tt.expectedStatus, tt.expectedStatus == http.StatusCreated)
			f.posts.AssertExpectations(t)
		})
	}
}

func TestUpdatePostHandler(t *testing.T) {
	f := newFixture()
	f.posts.On("UpdatePost", mock.Anything, "p1", mock.MatchedBy(func(in service.PostInput) bool {
		return in.Title == nil && in.Content == nil && in.Published != nil && *in.Published
	})).Return(models.OK("Post updated successfully!", &models.Post{ID: "p1", Published: true}), nil)
	f.posts.On("UpdatePost", mock.Anything, "missing", mock.Anything).
		Return(models.Fail[*models.Post]("Post not found"), repository.ErrNotFound)

	send := func(id, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPut, "/api/posts/"+id, strings.NewReader(body))
		req = mux.SetURLVars(req, map[string]string{"id": id})
		rr := httptest.NewRecorder()
		f.handler.UpdatePost(rr, req)
		return rr
	}

	decodeEnvelope(t, send("p1", `{"published":true}`), http.StatusOK, true)
	decodeEnvelope(t, send("missing", `{"published":true}`), http.StatusNotFound, false)
	decodeEnvelope(t, send("p1", `{"title":""}`), http.StatusBadRequest, false)
}

func TestDeletePostHandler(t *testing.T) {
	f := newFixture()
	f.posts.On("DeletePost", mock.Anything, "p1").Return(models.OK[any]("Post deleted successfully!", nil), nil)

	req := mux.SetURLVars(httptest.NewRequest(http.MethodDelete, "/api/posts/p1", nil), map[string]string{"id": "p1"})
	rr := httptest.NewRecorder()
	f.handler.DeletePost(rr, req)

	res, _ := decodeEnvelope(t, rr, http.StatusOK, true)
	assert.Equal(t, "Post deleted successfully!", res.Message)
}

func TestUploadPostImageHandler(t *testing.T) {
	png := []byte("\x89PNG\r\n\x1a\nfake")

	multipartBody := func(field string) (*bytes.Buffer, string) {
		body := &bytes.Buffer{}
		writer := multipart.NewWriter(body)
		part, _ := writer.CreateFormFile(field, "cover.png")
		part.Write(png)
		writer.Close()
		return body, writer.FormDataContentType()
	}

	t.Run("uploads", func(t *testing.T) {
		f := newFixture()
		f.posts.On("UploadImage", mock.Anything, "p1", "cover.png", png, int64(len(png))).
			Return(models.OK("Image uploaded", &models.Post{ID: "p1", Image: "http://cdn/x.png"}), nil)

		body, contentType := multipartBody("image")
		req := httptest.NewRequest(http.MethodPost, "/api/posts/p1/image", body)
		req.Header.Set("Content-Type", contentType)
		req = mux.SetURLVars(req, map[string]string{"id": "p1"})
		rr := httptest.NewRecorder()

		f.handler.UploadPostImage(rr, req)

		decodeEnvelope(t, rr, http.StatusOK, true)
		f.posts.AssertExpectations(t)
	})

	t.Run("missing file field", func(t *testing.T) {
		f := newFixture()
		body, contentType := multipartBody("other")
		req := httptest.NewRequest(http.MethodPost, "/api/posts/p1/image", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()

		f.handler.UploadPostImage(rr, req)

		decodeEnvelope(t, rr, http.StatusBadRequest, false)
	})

	t.Run("storage disabled", func(t *testing.T) {
		f := newFixture()
		f.posts.On("UploadImage", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything).
			Return(models.Fail[*models.Post]("Image uploads are disabled"), service.ErrStorageDisabled)

		body, contentType := multipartBody("image")
		req := httptest.NewRequest(http.MethodPost, "/api/posts/p1/image", body)
		req.Header.Set("Content-Type", contentType)
		req = mux.SetURLVars(req, map[string]string{"id": "p1"})
		rr := httptest.NewRecorder()

		f.handler.UploadPostImage(rr, req)

		decodeEnvelope(t, rr, http.StatusServiceUnavailable, false)
	})

	t.Run("too large", func(t *testing.T) {
		f := newFixture()
		f.handler.Cfg.MaxUploadSize = 16

		body, contentType := multipartBody("image")
		req := httptest.NewRequest(http.MethodPost, "/api/posts/p1/image", body)
		req.Header.Set("Content-Type", contentType)
		rr := httptest.NewRecorder()

		f.handler.UploadPostImage(rr, req.WithContext(context.Background()))

		decodeEnvelope(t, rr, http.StatusRequestEntityTooLarge, false)
	})
}
