package views

import (
	"todoCalendar/internal/models/todo"

	"github.com/google/uuid"
)

// Collection is a view's local copy of fetched todos. Not safe for concurrent use.
type Collection struct {
	items []todo.Todo
}

func (c *Collection) Replace(todos []todo.Todo) {
	c.items = append([]todo.Todo(nil), todos...)
}

func (c *Collection) Prepend(t todo.Todo) {
	c.items = append([]todo.Todo{t}, c.items...)
}

func (c *Collection) Find(id uuid.UUID) (todo.Todo, bool) {
	for _, t := range c.items {
		if t.ID == id {
			return t, true
		}
	}
	return todo.Todo{}, false
}

func (c *Collection) SetCompleted(id uuid.UUID, completed bool) (todo.Todo, bool) {
	for i := range c.items {
		if c.items[i].ID == id {
			c.items[i].Completed = completed
			return c.items[i], true
		}
	}
	return todo.Todo{}, false
}

func (c *Collection) Remove(id uuid.UUID) bool {
	for i, t := range c.items {
		if t.ID == id {
			c.items = append(c.items[:i:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// All returns a copy in stored order.
func (c *Collection) All() []todo.Todo {
	return append([]todo.Todo{}, c.items...)
}

func (c *Collection) Len() int {
	return len(c.items)
}

func (c *Collection) Clear() {
	c.items = nil
}
