package service

import (
	"context"
	"errors"
	"strings"

	"github.com/Dan9191/todo-service/internal/models"
	"github.com/Dan9191/todo-service/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// TodoRepository is the todo part of the credential store.
type TodoRepository interface {
	CreateTodo(ctx context.Context, todo *models.Todo) error
	FindTodoByID(ctx context.Context, id string) (*models.Todo, error)
	ListTodos(ctx context.Context, filter models.TodoFilter, q models.TodoQuery) ([]models.Todo, int, error)
	UpdateTodo(ctx context.Context, todo *models.Todo) error
	DeleteTodo(ctx context.Context, id string) error
}

// TodoService implements ownership-scoped todo operations
type TodoService struct {
	repo TodoRepository
	log  *logrus.Logger

	// hideForeign answers "not found" instead of "forbidden" for todos owned
	// by another user.
	hideForeign bool
}

// NewTodoService initializes a new todo service
func NewTodoService(repo TodoRepository, log *logrus.Logger, hideForeign bool) *TodoService {
	return &TodoService{repo: repo, log: log, hideForeign: hideForeign}
}

// CreateTodoInput is the payload of a creation
type CreateTodoInput struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
}

// UpdateTodoInput is the payload of an update. Omitted fields are left
// unchanged; an explicit null description clears it.
type UpdateTodoInput struct {
	Title       string                  `json:"title"`
	Description models.Optional[string] `json:"description"`
	Completed   *bool                   `json:"completed"`
}

// List returns one page of the caller's todos
func (s *TodoService) List(ctx context.Context, caller *models.Identity, q models.TodoQuery) (*models.TodoPage, error) {
	if !authenticated(caller) {
		return nil, errAuthRequired
	}
	q = q.Normalize()
	filter := models.TodoFilter{UserID: caller.UserID, Status: q.Status}

	todos, total, err := s.repo.ListTodos(ctx, filter, q)
	if err != nil {
		return nil, err
	}
	if todos == nil {
		todos = []models.Todo{}
	}
	return &models.TodoPage{
		Data: todos,
		Meta: models.NewPageMeta(q.Page, q.Limit, total),
	}, nil
}

// Get returns a single todo owned by the caller
func (s *TodoService) Get(ctx context.Context, caller *models.Identity, id string) (*models.Todo, error) {
	if !authenticated(caller) {
		return nil, errAuthRequired
	}
	return s.owned(ctx, caller, id)
}

// Create stores a new todo owned by the caller
func (s *TodoService) Create(ctx context.Context, caller *models.Identity, in CreateTodoInput) (*models.Todo, error) {
	if !authenticated(caller) {
		return nil, errAuthRequired
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, errTitleRequired
	}

	todo := &models.Todo{
		Title:       title,
		Description: in.Description,
		Completed:   false,
		UserID:      caller.UserID,
	}
	if err := s.repo.CreateTodo(ctx, todo); err != nil {
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"user_id": caller.UserID, "todo_id": todo.ID}).Info("Todo created")
	return todo, nil
}

// Update applies a partial update to a todo owned by the caller
func (s *TodoService) Update(ctx context.Context, caller *models.Identity, id string, in UpdateTodoInput) (*models.Todo, error) {
	if !authenticated(caller) {
		return nil, errAuthRequired
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, errTitleRequired
	}

	todo, err := s.owned(ctx, caller, id)
	if err != nil {
		return nil, err
	}

	todo.Title = title
	if in.Description.Set {
		todo.Description = in.Description.Value
	}
	if in.Completed != nil {
		todo.Completed = *in.Completed
	}

	if err := s.repo.UpdateTodo(ctx, todo); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, errTodoNotFound
		}
		return nil, err
	}

	s.log.WithFields(logrus.Fields{"user_id": caller.UserID, "todo_id": todo.ID}).Info("Todo updated")
	return todo, nil
}

// Delete removes a todo owned by the caller
func (s *TodoService) Delete(ctx context.Context, caller *models.Identity, id string) error {
	if !authenticated(caller) {
		return errAuthRequired
	}
	if _, err := s.owned(ctx, caller, id); err != nil {
		return err
	}

	if err := s.repo.DeleteTodo(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return errTodoNotFound
		}
		return err
	}

	s.log.WithFields(logrus.Fields{"user_id": caller.UserID, "todo_id": id}).Info("Todo deleted")
	return nil
}

// owned loads a todo and checks the caller owns it.
func (s *TodoService) owned(ctx context.Context, caller *models.Identity, id string) (*models.Todo, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, errTodoNotFound
	}
	todo, err := s.repo.FindTodoByID(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, errTodoNotFound
	}
	if err != nil {
		return nil, err
	}
	if todo.UserID != caller.UserID {
		s.log.WithFields(logrus.Fields{"user_id": caller.UserID, "todo_id": id}).Debug("Access to foreign todo denied")
		if s.hideForeign {
			return nil, errTodoNotFound
		}
		return nil, errTodoForbidden
	}
	return todo, nil
}

func authenticated(caller *models.Identity) bool {
	return caller != nil && caller.UserID != ""
}
