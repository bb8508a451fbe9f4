package notify

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
	LevelWarning Level = "warning"
)

const (
	DefaultDuration = 3 * time.Second
	DefaultCapacity = 32
)

type Notification struct {
	ID          uuid.UUID
	Level       Level
	Title       string
	Description string
	Duration    time.Duration
	CreatedAt   time.Time
}

type Option func(*Notification)

func WithDescription(description string) Option {
	return func(n *Notification) {
		n.Description = description
	}
}

func WithDuration(d time.Duration) Option {
	return func(n *Notification) {
		n.Duration = d
	}
}

// Queue is a bounded FIFO of banners waiting to be shown. Past capacity the
// oldest banner is dropped.
type Queue struct {
	mtx      sync.Mutex
	items    []Notification
	capacity int
	now      func() time.Time
}

func NewQueue(capacity int) *Queue {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Queue{capacity: capacity, now: time.Now}
}

func (q *Queue) Push(level Level, title string, opts ...Option) Notification {
	n := Notification{
		ID:        uuid.New(),
		Level:     level,
		Title:     title,
		Duration:  DefaultDuration,
		CreatedAt: q.now(),
	}
	for _, opt := range opts {
		opt(&n)
	}

	q.mtx.Lock()
	defer q.mtx.Unlock()
	q.items = append(q.items, n)
	if over := len(q.items) - q.capacity; over > 0 {
		q.items = append(q.items[:0:0], q.items[over:]...)
	}
	return n
}

func (q *Queue) Success(title string, opts ...Option) Notification {
	return q.Push(LevelSuccess, title, opts...)
}

func (q *Queue) Error(title string, opts ...Option) Notification {
	return q.Push(LevelError, title, opts...)
}

func (q *Queue) Warning(title string, opts ...Option) Notification {
	return q.Push(LevelWarning, title, opts...)
}

// Drain returns pending banners in order and empties the queue.
func (q *Queue) Drain() []Notification {
	q.mtx.Lock()
	defer q.mtx.Unlock()

	out := q.items
	q.items = nil
	if out == nil {
		out = []Notification{}
	}
	return out
}

func (q *Queue) Len() int {
	q.mtx.Lock()
	defer q.mtx.Unlock()
	return len(q.items)
}
