package postgres

import (
	"context"
	"fmt"
	"time"

	"todoCalendar/internal/logger"
	"todoCalendar/internal/models/todo"
	repo "todoCalendar/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type TodoStorage struct {
	pool *pgxpool.Pool
}

func (s *TodoStorage) HealthCheck(ctx context.Context) error {
	if err := s.pool.Ping(ctx); err != nil {
		logger.Error("Repository: Неудачная проверка ping", err)
		return fmt.Errorf("проверка соединения ping: %w", err)
	}
	return nil
}

const todoColumns = `id, user_id, text, completed, category, due_date, created_at`

func scanTodo(row pgx.Row) (todo.Todo, error) {
	var t todo.Todo
	err := row.Scan(
		&t.ID,
		&t.UserID,
		&t.Text,
		&t.Completed,
		&t.Category,
		&t.DueDate,
		&t.CreatedAt,
	)
	return t, err
}

func (s *TodoStorage) Create(ctx context.Context, newTodo todo.NewTodo) (*todo.Todo, error) {
	start := time.Now()

	query := `INSERT INTO todos
				(id, user_id, text, completed, category, due_date)
				VALUES ($1, $2, $3, FALSE, $4, $5)
				RETURNING ` + todoColumns

	created, err := scanTodo(s.pool.QueryRow(ctx, query,
		uuid.New(),
		newTodo.UserID,
		newTodo.Text,
		newTodo.Category,
		newTodo.DueDate,
	))
	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("добавление задачи: %w", err)
	}

	warnIfSlow(start, 50*time.Millisecond, "create_todo")
	return &created, nil
}

func (s *TodoStorage) List(ctx context.Context, owner uuid.UUID, opts todo.ListOptions) ([]todo.Todo, error) {
	start := time.Now()

	query := `SELECT ` + todoColumns + ` FROM todos WHERE user_id = $1`
	if opts.OnlyWithDueDate {
		query += ` AND due_date IS NOT NULL`
	}
	switch opts.OrderBy {
	case todo.OrderDueAsc:
		query += ` ORDER BY due_date ASC NULLS LAST, created_at DESC`
	default:
		query += ` ORDER BY created_at DESC`
	}

	rows, err := s.pool.Query(ctx, query, owner)
	if err != nil {
		logger.Error("Repository: Не удалось получить задачи", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение задач: %w", err)
	}
	defer rows.Close()

	todos := []todo.Todo{}
	for rows.Next() {
		t, err := scanTodo(rows)
		if err != nil {
			logger.Error("Repository: Ошибка сканирования задачи", err)
			return nil, fmt.Errorf("сканирование задачи: %w", err)
		}
		todos = append(todos, t)
	}

	if err := rows.Err(); err != nil {
		logger.Error("Repository: Ошибка итерации по строкам", err)
		return nil, fmt.Errorf("итерация по строкам: %w", err)
	}

	warnIfSlow(start, 100*time.Millisecond, "list_todos")
	return todos, nil
}

// SetCompleted меняет статус только у задачи владельца; чужая задача выглядит как отсутствующая.
func (s *TodoStorage) SetCompleted(ctx context.Context, owner, id uuid.UUID, completed bool) error {
	start := time.Now()

	query := `UPDATE todos
			SET completed = $1
			WHERE id = $2 AND user_id = $3`

	tag, err := s.pool.Exec(ctx, query, completed, id, owner)
	if err != nil {
		logger.Error("Repository: Не удалось обновить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("обновление задачи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		logger.Warn("Repository: Задача не найдена для обновления",
			zap.String("todo_id", id.String()),
			zap.String("user_id", owner.String()))
		return repo.ErrNotFound
	}

	warnIfSlow(start, 100*time.Millisecond, "set_completed")
	return nil
}

func (s *TodoStorage) Delete(ctx context.Context, owner, id uuid.UUID) error {
	start := time.Now()

	query := `DELETE FROM todos
				WHERE id = $1 AND user_id = $2`

	tag, err := s.pool.Exec(ctx, query, id, owner)
	if err != nil {
		logger.Error("Repository: Не удалось удалить задачу", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("удаление задачи: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return repo.ErrNotFound
	}

	warnIfSlow(start, 100*time.Millisecond, "delete_todo")
	return nil
}
