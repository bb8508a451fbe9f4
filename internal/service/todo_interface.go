package service

import (
	"context"

	"todoCalendar/internal/models/todo"

	"github.com/google/uuid"
)

type TodoRepository interface {
	HealthCheck(context.Context) error
	Create(context.Context, todo.NewTodo) (*todo.Todo, error)
	List(context.Context, uuid.UUID, todo.ListOptions) ([]todo.Todo, error)
	SetCompleted(ctx context.Context, owner, id uuid.UUID, completed bool) error
	Delete(ctx context.Context, owner, id uuid.UUID) error
}
