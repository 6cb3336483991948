package service

import (
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/Dan9191/todo-service/internal/models"
	"github.com/Dan9191/todo-service/internal/repository"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// memStore is an in-memory credential store used by the service tests.
type memStore struct {
	mu    sync.Mutex
	users map[string]models.User
	todos map[string]models.Todo
	clock time.Time

	// err, when set, is returned by every call.
	err error
}

func newMemStore() *memStore {
	return &memStore{
		users: map[string]models.User{},
		todos: map[string]models.Todo{},
		clock: time.Date(2025, 3, 30, 10, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) tick() time.Time {
	m.clock = m.clock.Add(time.Second)
	return m.clock
}

func (m *memStore) CreateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	for _, u := range m.users {
		if u.Email == user.Email {
			return repository.ErrDuplicateEmail
		}
	}
	user.ID = uuid.NewString()
	user.CreatedAt = m.tick()
	user.UpdatedAt = user.CreatedAt
	m.users[user.ID] = *user
	return nil
}

func (m *memStore) FindUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, u := range m.users {
		if u.Email == email {
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memStore) FindUserByID(ctx context.Context, id string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	u, ok := m.users[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &u, nil
}

func (m *memStore) CreateTodo(ctx context.Context, todo *models.Todo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	todo.ID = uuid.NewString()
	todo.CreatedAt = m.tick()
	todo.UpdatedAt = todo.CreatedAt
	m.todos[todo.ID] = *todo
	return nil
}

func (m *memStore) FindTodoByID(ctx context.Context, id string) (*models.Todo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	t, ok := m.todos[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &t, nil
}

func (m *memStore) ListTodos(ctx context.Context, filter models.TodoFilter, q models.TodoQuery) ([]models.Todo, int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, 0, m.err
	}

	var matched []models.Todo
	for _, t := range m.todos {
		if t.UserID != filter.UserID {
			continue
		}
		if filter.Status == models.StatusActive && t.Completed {
			continue
		}
		if filter.Status == models.StatusCompleted && !t.Completed {
			continue
		}
		matched = append(matched, t)
	}

	less := func(a, b models.Todo) int {
		switch q.SortField {
		case models.SortByTitle:
			if c := strings.Compare(a.Title, b.Title); c != 0 {
				return c
			}
		case models.SortByUpdatedAt:
			if c := a.UpdatedAt.Compare(b.UpdatedAt); c != 0 {
				return c
			}
		default:
			if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
				return c
			}
		}
		return strings.Compare(a.ID, b.ID)
	}
	sort.Slice(matched, func(i, j int) bool {
		c := less(matched[i], matched[j])
		if q.SortOrder == models.SortAsc {
			return c < 0
		}
		return c > 0
	})

	total := len(matched)
	start := min(q.Offset(), total)
	end := min(start+q.Limit, total)
	return matched[start:end], total, nil
}

func (m *memStore) UpdateTodo(ctx context.Context, todo *models.Todo) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.todos[todo.ID]; !ok {
		return repository.ErrNotFound
	}
	todo.UpdatedAt = m.tick()
	m.todos[todo.ID] = *todo
	return nil
}

func (m *memStore) DeleteTodo(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	if _, ok := m.todos[id]; !ok {
		return repository.ErrNotFound
	}
	delete(m.todos, id)
	return nil
}

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}
