package handler

import (
	"net/http"

	"github.com/Dan9191/todo-service/internal/middleware"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
)

// MetricsExporter records request observations and serves them
type MetricsExporter interface {
	middleware.RequestRecorder
	Handler() http.Handler
}

// NewRouter mounts the public auth routes, the guarded profile and todo
// routes, and the operational endpoints.
func NewRouter(h *Handler, verifier middleware.TokenVerifier, m MetricsExporter, logger *logrus.Logger) *mux.Router {
	r := mux.NewRouter()
	r.NotFoundHandler = http.HandlerFunc(h.NotFound)
	r.MethodNotAllowedHandler = http.HandlerFunc(h.MethodNotAllowed)
	r.Use(middleware.Logging(logger), middleware.Metrics(m))

	r.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	r.HandleFunc("/healthz", h.Health).Methods(http.MethodGet)

	guard := middleware.AuthMiddleware(verifier, logger)

	// Public routes
	auth := r.PathPrefix("/api/auth").Subrouter()
	auth.HandleFunc("/register", h.Register).Methods(http.MethodPost)
	auth.HandleFunc("/login", h.Login).Methods(http.MethodPost)
	auth.Handle("/profile", guard(http.HandlerFunc(h.Profile))).Methods(http.MethodGet)

	// Protected routes
	todos := r.PathPrefix("/api/todos").Subrouter()
	todos.Use(guard)
	for _, collection := range []string{"", "/"} {
		todos.HandleFunc(collection, h.ListTodos).Methods(http.MethodGet)
		todos.HandleFunc(collection, h.CreateTodo).Methods(http.MethodPost)
	}
	todos.HandleFunc("/{id}", h.GetTodo).Methods(http.MethodGet)
	todos.HandleFunc("/{id}", h.UpdateTodo).Methods(http.MethodPut)
	todos.HandleFunc("/{id}", h.DeleteTodo).Methods(http.MethodDelete)

	return r
}
