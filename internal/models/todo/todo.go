package todo

import (
	"time"

	"github.com/google/uuid"
)

type Todo struct {
	ID        uuid.UUID  `json:"id" db:"id"`
	UserID    uuid.UUID  `json:"user_id" db:"user_id"`
	Text      string     `json:"text" db:"text"`
	Completed bool       `json:"completed" db:"completed"`
	Category  string     `json:"category" db:"category"`
	DueDate   *time.Time `json:"due_date" db:"due_date"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`
}

// HasDueDate сообщает, есть ли у задачи дедлайн.
func (t Todo) HasDueDate() bool {
	return t.DueDate != nil
}

type OrderBy string

const (
	OrderCreatedDesc OrderBy = "created_at_desc"
	OrderDueAsc      OrderBy = "due_date_asc"
)

// ListOptions описывает выборку задач владельца.
type ListOptions struct {
	OnlyWithDueDate bool
	OrderBy         OrderBy
}

// NewTodo is the write model for inserts; ID and CreatedAt come from the store.
type NewTodo struct {
	UserID   uuid.UUID
	Text     string
	Category string
	DueDate  *time.Time
}
