package handler

import (
	"net/http"
	"strconv"

	"github.com/Dan9191/todo-service/internal/middleware"
	"github.com/Dan9191/todo-service/internal/models"
	"github.com/Dan9191/todo-service/internal/service"
	"github.com/gorilla/mux"
)

// ListTodos returns one page of the caller's todos
func (h *Handler) ListTodos(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.IdentityFromContext(r.Context())
	query := r.URL.Query()
	q := models.TodoQuery{
		Page:      intParam(query.Get("page"), models.DefaultPage),
		Limit:     intParam(query.Get("limit"), models.DefaultLimit),
		Status:    models.ParseStatusFilter(query.Get("status")),
		SortField: models.ParseSortField(query.Get("sortField")),
		SortOrder: models.ParseSortOrder(query.Get("sortOrder")),
	}

	page, err := h.todos.List(r.Context(), caller, q)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, page)
}

// GetTodo returns a single todo
func (h *Handler) GetTodo(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.IdentityFromContext(r.Context())
	todo, err := h.todos.Get(r.Context(), caller, mux.Vars(r)["id"])
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

// CreateTodo handles todo creation
func (h *Handler) CreateTodo(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.IdentityFromContext(r.Context())
	var in service.CreateTodoInput
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	todo, err := h.todos.Create(r.Context(), caller, in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, todo)
}

// UpdateTodo applies a partial update
func (h *Handler) UpdateTodo(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.IdentityFromContext(r.Context())
	var in service.UpdateTodoInput
	if err := decode(r, &in); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	todo, err := h.todos.Update(r.Context(), caller, mux.Vars(r)["id"], in)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, todo)
}

// DeleteTodo removes a todo
func (h *Handler) DeleteTodo(w http.ResponseWriter, r *http.Request) {
	caller, _ := middleware.IdentityFromContext(r.Context())
	if err := h.todos.Delete(r.Context(), caller, mux.Vars(r)["id"]); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// intParam parses a positive integer query value, falling back to def.
func intParam(raw string, def int) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return def
	}
	return n
}
