package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/Dan9191/todo-service/internal/models"
	"github.com/google/uuid"
)

const todoColumns = `id, title, description, completed, user_id, created_at, updated_at`

var sortColumns = map[models.SortField]string{
	models.SortByCreatedAt: "created_at",
	models.SortByUpdatedAt: "updated_at",
	models.SortByTitle:     "title",
}

// CreateTodo creates a new todo in the database
func (r *Repository) CreateTodo(ctx context.Context, todo *models.Todo) error {
	if todo.ID == "" {
		todo.ID = uuid.NewString()
	}
	query := `
		INSERT INTO todos (id, title, description, completed, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, CURRENT_TIMESTAMP, CURRENT_TIMESTAMP)
		RETURNING created_at, updated_at`
	err := r.db.QueryRowContext(ctx, query, todo.ID, todo.Title, nullString(todo.Description), todo.Completed, todo.UserID).
		Scan(&todo.CreatedAt, &todo.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create todo: %w", err)
	}
	return nil
}

// FindTodoByID retrieves a todo by id regardless of owner
func (r *Repository) FindTodoByID(ctx context.Context, id string) (*models.Todo, error) {
	query := `SELECT ` + todoColumns + ` FROM todos WHERE id = $1`
	todo, err := scanTodo(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find todo: %w", err)
	}
	return todo, nil
}

// ListTodos returns one page of todos matching filter together with the
// total number of matches. Both reads run in one read-only transaction.
func (r *Repository) ListTodos(ctx context.Context, filter models.TodoFilter, q models.TodoQuery) ([]models.Todo, int, error) {
	where, args := todoWhere(filter)

	tx, err := r.db.BeginTx(ctx, &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true})
	if err != nil {
		return nil, 0, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var total int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(*) FROM todos WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count todos: %w", err)
	}

	direction := "DESC"
	if q.SortOrder == models.SortAsc {
		direction = "ASC"
	}
	column, ok := sortColumns[q.SortField]
	if !ok {
		column = sortColumns[models.SortByCreatedAt]
	}
	query := fmt.Sprintf(`SELECT %s FROM todos WHERE %s ORDER BY %s %s, id %s LIMIT $%d OFFSET $%d`,
		todoColumns, where, column, direction, direction, len(args)+1, len(args)+2)
	args = append(args, q.Limit, q.Offset())

	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	todos := make([]models.Todo, 0, q.Limit)
	for rows.Next() {
		todo, err := scanTodo(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan: %w", err)
		}
		todos = append(todos, *todo)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterate todos: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, 0, fmt.Errorf("commit: %w", err)
	}
	return todos, total, nil
}

// UpdateTodo stores title, description and completion of todo
func (r *Repository) UpdateTodo(ctx context.Context, todo *models.Todo) error {
	query := `
		UPDATE todos
		SET title = $1, description = $2, completed = $3, updated_at = CURRENT_TIMESTAMP
		WHERE id = $4
		RETURNING updated_at`
	err := r.db.QueryRowContext(ctx, query, todo.Title, nullString(todo.Description), todo.Completed, todo.ID).
		Scan(&todo.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to update todo: %w", err)
	}
	return nil
}

// DeleteTodo removes a todo by id
func (r *Repository) DeleteTodo(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM todos WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func todoWhere(filter models.TodoFilter) (string, []any) {
	conds := []string{"user_id = $1"}
	args := []any{filter.UserID}
	switch filter.Status {
	case models.StatusActive:
		args = append(args, false)
		conds = append(conds, fmt.Sprintf("completed = $%d", len(args)))
	case models.StatusCompleted:
		args = append(args, true)
		conds = append(conds, fmt.Sprintf("completed = $%d", len(args)))
	}
	return strings.Join(conds, " AND "), args
}

func scanTodo(row rowScanner) (*models.Todo, error) {
	todo := &models.Todo{}
	var description sql.NullString
	if err := row.Scan(&todo.ID, &todo.Title, &description, &todo.Completed, &todo.UserID, &todo.CreatedAt, &todo.UpdatedAt); err != nil {
		return nil, err
	}
	todo.Description = stringPtr(description)
	return todo, nil
}
