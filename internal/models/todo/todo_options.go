package todo

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type NewTodoOption func(*NewTodo)

func WithCategory(category string) NewTodoOption {
	if category == "" {
		return nil
	}
	return func(t *NewTodo) {
		t.Category = category
	}
}

func WithDueDate(dueDate *time.Time) NewTodoOption {
	if dueDate == nil || dueDate.IsZero() {
		return nil
	}
	due := *dueDate
	return func(t *NewTodo) {
		t.DueDate = &due
	}
}

// Build собирает модель вставки; nil-опции пропускаются.
func Build(owner uuid.UUID, text string, options ...NewTodoOption) NewTodo {
	t := NewTodo{
		UserID:   owner,
		Text:     strings.TrimSpace(text),
		Category: CategoryDefault,
	}
	for _, opt := range options {
		if opt != nil {
			opt(&t)
		}
	}
	return t
}
