package main

import (
	"net/http"

	"engsite/cmd/app"
	"engsite/internal/middleware"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// routes registers the HTTP surface. Fixed paths come before {id} patterns
// because mux matches in registration order.
func routes(a *app.Application, log logrus.FieldLogger) http.Handler {
	h := a.Handlers
	auth := middleware.AuthMiddleware(h.AuthService)
	optionalAuth := middleware.OptionalAuthMiddleware(h.AuthService)
	limited := a.Limiter.Handler

	router := mux.NewRouter()
	router.Use(a.Metrics.Middleware)

	router.HandleFunc("/health", h.Health).Methods(http.MethodGet)
	router.Handle("/metrics", a.Metrics.Handler()).Methods(http.MethodGet)

	api := router.PathPrefix("/api").Subrouter()

	api.Handle("/auth/login", limited(http.HandlerFunc(h.Login))).Methods(http.MethodPost)
	api.Handle("/auth/logout", auth(http.HandlerFunc(h.Logout))).Methods(http.MethodPost)
	api.Handle("/auth/session", auth(http.HandlerFunc(h.Session))).Methods(http.MethodGet)

	api.HandleFunc("/posts/published", h.GetPublishedPosts).Methods(http.MethodGet)
	api.Handle("/posts", auth(http.HandlerFunc(h.GetPosts))).Methods(http.MethodGet)
	api.Handle("/posts", auth(http.HandlerFunc(h.CreatePost))).Methods(http.MethodPost)
	api.Handle("/posts/{id}", optionalAuth(http.HandlerFunc(h.GetPost))).Methods(http.MethodGet)
	api.Handle("/posts/{id}", auth(http.HandlerFunc(h.UpdatePost))).Methods(http.MethodPut)
	api.Handle("/posts/{id}", auth(http.HandlerFunc(h.DeletePost))).Methods(http.MethodDelete)
	api.Handle("/posts/{id}/image", auth(http.HandlerFunc(h.UploadPostImage))).Methods(http.MethodPost)

	api.Handle("/site-contact", limited(http.HandlerFunc(h.CreateContact))).Methods(http.MethodPost)
	api.Handle("/site-contact", auth(http.HandlerFunc(h.GetContacts))).Methods(http.MethodGet)

	api.Handle("/subscribe", limited(http.HandlerFunc(h.Subscribe))).Methods(http.MethodPost)
	api.Handle("/subscribe/{email}", auth(http.HandlerFunc(h.DeleteSubscriber))).Methods(http.MethodDelete)
	api.Handle("/subscribers/export", auth(http.HandlerFunc(h.ExportSubscribers))).Methods(http.MethodGet)
	api.Handle("/subscribers", auth(http.HandlerFunc(h.GetSubscribers))).Methods(http.MethodGet)

	api.Handle("/pagelog", limited(http.HandlerFunc(h.SendPageView))).Methods(http.MethodPost)
	api.Handle("/dashboard", auth(http.HandlerFunc(h.GetDashboard))).Methods(http.MethodGet)

	api.HandleFunc("/projects", h.GetProjects).Methods(http.MethodGet)
	api.HandleFunc("/projects/{id}", h.GetProject).Methods(http.MethodGet)

	return middleware.Chain(
		router,
		middleware.RecoverMiddleware(log),
		middleware.LoggingMiddleware(log),
		middleware.CORSMiddleware(a.Config.CORSAllowedOrigin),
	)
}
