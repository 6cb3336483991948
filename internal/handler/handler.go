package handler

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/Dan9191/todo-service/internal/models"
	"github.com/Dan9191/todo-service/internal/service"
	"github.com/sirupsen/logrus"
)

const msgInternal = "internal server error"

// AuthAPI is the authentication flow served under /api/auth
type AuthAPI interface {
	Register(ctx context.Context, in service.RegisterInput) (*models.AuthResult, error)
	Login(ctx context.Context, in service.LoginInput) (*models.AuthResult, error)
	Profile(ctx context.Context, caller *models.Identity) (*models.User, error)
}

// TodoAPI is the todo engine served under /api/todos
type TodoAPI interface {
	List(ctx context.Context, caller *models.Identity, q models.TodoQuery) (*models.TodoPage, error)
	Get(ctx context.Context, caller *models.Identity, id string) (*models.Todo, error)
	Create(ctx context.Context, caller *models.Identity, in service.CreateTodoInput) (*models.Todo, error)
	Update(ctx context.Context, caller *models.Identity, id string, in service.UpdateTodoInput) (*models.Todo, error)
	Delete(ctx context.Context, caller *models.Identity, id string) error
}

// Pinger reports whether the storage backend is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

type Handler struct {
	auth  AuthAPI
	todos TodoAPI
	db    Pinger
	log   *logrus.Logger

	// exposeDetails echoes internal error text to the client.
	exposeDetails bool
}

func NewHandler(auth AuthAPI, todos TodoAPI, db Pinger, log *logrus.Logger, exposeDetails bool) *Handler {
	return &Handler{auth: auth, todos: todos, db: db, log: log, exposeDetails: exposeDetails}
}

// Health pings the database
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	if err := h.db.Ping(r.Context()); err != nil {
		h.log.Errorf("Health check failed: %v", err)
		writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// NotFound answers requests that match no route
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "route not found")
}

// MethodNotAllowed answers requests whose path matches with the wrong method
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// fail writes err in the {"error": ...} shape. Errors the services did not
// classify are logged and reported as a generic 500.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	if kind, ok := service.KindOf(err); ok {
		writeError(w, statusFor(kind), err.Error())
		return
	}

	h.log.WithFields(logrus.Fields{
		"method": r.Method,
		"path":   r.URL.Path,
	}).Errorf("Request failed: %v", err)

	body := map[string]string{"error": msgInternal}
	if h.exposeDetails {
		body["details"] = err.Error()
	}
	writeJSON(w, http.StatusInternalServerError, body)
}

func statusFor(kind service.Kind) int {
	switch kind {
	case service.KindValidation, service.KindConflict:
		return http.StatusBadRequest
	case service.KindUnauthenticated:
		return http.StatusUnauthorized
	case service.KindForbidden:
		return http.StatusForbidden
	case service.KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// decode reads a JSON request body into dst. An empty body leaves dst untouched.
func decode(r *http.Request, dst any) error {
	err := json.NewDecoder(r.Body).Decode(dst)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
