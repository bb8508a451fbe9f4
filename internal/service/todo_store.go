package service

import (
	"context"
	"errors"
	"time"

	"todoCalendar/internal/logger"
	"todoCalendar/internal/models/todo"
	repo "todoCalendar/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	msgStoreUnavailable = "the data store is unavailable"
	msgTodoNotFound     = "todo not found"
)

// TodoStore обращается к хранилищу от имени владельца. Повторов нет.
type TodoStore struct {
	repo TodoRepository
}

func NewTodoStore(repo TodoRepository) *TodoStore {
	return &TodoStore{
		repo: repo,
	}
}

func (s *TodoStore) HealthCheck(ctx context.Context) error {
	return s.repo.HealthCheck(ctx)
}

func (s *TodoStore) List(ctx context.Context, owner uuid.UUID, opts todo.ListOptions) ([]todo.Todo, error) {
	if opts.OrderBy == "" {
		opts.OrderBy = todo.OrderCreatedDesc
	}

	todos, err := s.repo.List(ctx, owner, opts)
	if err != nil {
		logger.Error("Service: Не удалось получить задачи", err, zap.String("user_id", owner.String()))
		return nil, NewFetchError(msgStoreUnavailable, err)
	}
	return todos, nil
}

func (s *TodoStore) Create(ctx context.Context, newTodo todo.NewTodo) (*todo.Todo, error) {
	if newTodo.Category == "" {
		newTodo.Category = todo.CategoryDefault
	}
	if newTodo.DueDate != nil {
		due := newTodo.DueDate.UTC()
		newTodo.DueDate = &due
	}

	created, err := s.repo.Create(ctx, newTodo)
	if err != nil {
		logger.Error("Service: Не удалось создать задачу", err, zap.String("user_id", newTodo.UserID.String()))
		return nil, NewWriteError(msgStoreUnavailable, err)
	}

	logger.Debug("Service: Задача создана",
		zap.String("todo_id", created.ID.String()),
		zap.Time("created_at", created.CreatedAt.In(time.UTC)))
	return created, nil
}

func (s *TodoStore) SetCompleted(ctx context.Context, owner, id uuid.UUID, completed bool) error {
	err := s.repo.SetCompleted(ctx, owner, id, completed)
	if err != nil {
		return s.writeError("Service: Не удалось обновить задачу", owner, id, err)
	}
	return nil
}

func (s *TodoStore) Remove(ctx context.Context, owner, id uuid.UUID) error {
	err := s.repo.Delete(ctx, owner, id)
	if err != nil {
		return s.writeError("Service: Не удалось удалить задачу", owner, id, err)
	}
	return nil
}

func (s *TodoStore) writeError(msg string, owner, id uuid.UUID, err error) error {
	fields := []zap.Field{
		zap.String("todo_id", id.String()),
		zap.String("user_id", owner.String()),
	}
	if errors.Is(err, repo.ErrNotFound) {
		logger.Info("Service: Задача не найдена", fields...)
		return NewWriteError(msgTodoNotFound, err)
	}
	logger.Error(msg, err, fields...)
	return NewWriteError(msgStoreUnavailable, err)
}
