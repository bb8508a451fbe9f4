// Package views holds what the list and calendar views share: the local todo
// collection, the confirm-then-apply toggle and item presentation.
package views

import (
	"context"

	"todoCalendar/internal/models/todo"
	"todoCalendar/internal/models/user"
	"todoCalendar/internal/service"
	"todoCalendar/internal/session"

	"github.com/google/uuid"
)

// Store is the subset of the todo store client the views call.
type Store interface {
	List(ctx context.Context, owner uuid.UUID, opts todo.ListOptions) ([]todo.Todo, error)
	Create(ctx context.Context, newTodo todo.NewTodo) (*todo.Todo, error)
	SetCompleted(ctx context.Context, owner, id uuid.UUID, completed bool) error
	Remove(ctx context.Context, owner, id uuid.UUID) error
}

// Auth is the view side of the session provider.
type Auth interface {
	State() session.State
	Validate(ctx context.Context) (user.Identity, error)
}

// Owner returns the signed-in user or an AuthError.
func Owner(auth Auth) (uuid.UUID, error) {
	state := auth.State()
	if !state.Authenticated() {
		return uuid.Nil, service.NewAuthError("Sign in required", nil)
	}
	return state.Identity.ID, nil
}

// Holder is the identity whose data a view may show, uuid.Nil when signed out.
func Holder(auth Auth) uuid.UUID {
	state := auth.State()
	if !state.Authenticated() {
		return uuid.Nil
	}
	return state.Identity.ID
}

// Toggle flips completion in the store and applies it locally only after the
// store confirmed the write.
func Toggle(ctx context.Context, store Store, owner uuid.UUID, todos *Collection, id uuid.UUID) (todo.Todo, error) {
	current, ok := todos.Find(id)
	if !ok {
		return todo.Todo{}, service.NewNotFound("todo", id.String())
	}

	if err := store.SetCompleted(ctx, owner, id, !current.Completed); err != nil {
		return current, err
	}

	updated, _ := todos.SetCompleted(id, !current.Completed)
	return updated, nil
}
