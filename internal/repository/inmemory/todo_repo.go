package inmemory

import (
	"context"
	"sync"
	"time"

	"todoCalendar/internal/logger"
	"todoCalendar/internal/models/todo"
	repo "todoCalendar/internal/repository"

	"github.com/google/uuid"
)

type TodoStorage struct {
	storage map[uuid.UUID]*todo.Todo
	mtx     *sync.RWMutex
	ids     []uuid.UUID
	now     func() time.Time
}

func NewTodoStorage() *TodoStorage {
	return &TodoStorage{
		storage: make(map[uuid.UUID]*todo.Todo),
		mtx:     &sync.RWMutex{},
		ids:     []uuid.UUID{},
		now:     time.Now,
	}
}

// WithClock подменяет источник времени для created_at.
func (s *TodoStorage) WithClock(now func() time.Time) *TodoStorage {
	s.now = now
	return s
}

func (s *TodoStorage) HealthCheck(ctx context.Context) error {
	logger.Debug("Repository: Хранилище в памяти доступно")
	return nil
}

func (s *TodoStorage) Create(ctx context.Context, newTodo todo.NewTodo) (*todo.Todo, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	created := &todo.Todo{
		ID:        uuid.New(),
		UserID:    newTodo.UserID,
		Text:      newTodo.Text,
		Completed: false,
		Category:  newTodo.Category,
		DueDate:   copyTime(newTodo.DueDate),
		CreatedAt: s.now(),
	}

	s.storage[created.ID] = created
	s.ids = append(s.ids, created.ID)

	out := *created
	return &out, nil
}

func (s *TodoStorage) List(ctx context.Context, owner uuid.UUID, opts todo.ListOptions) ([]todo.Todo, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := []todo.Todo{}
	// обратный порядок вставки, чтобы при равном created_at новые шли первыми
	for i := len(s.ids) - 1; i >= 0; i-- {
		t := s.storage[s.ids[i]]
		if t.UserID != owner {
			continue
		}
		if opts.OnlyWithDueDate && t.DueDate == nil {
			continue
		}
		item := *t
		item.DueDate = copyTime(t.DueDate)
		res = append(res, item)
	}

	todo.Order(res, opts.OrderBy)
	return res, nil
}

func (s *TodoStorage) SetCompleted(ctx context.Context, owner, id uuid.UUID, completed bool) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	t, ok := s.storage[id]
	if !ok || t.UserID != owner {
		return repo.ErrNotFound
	}
	t.Completed = completed
	return nil
}

func (s *TodoStorage) Delete(ctx context.Context, owner, id uuid.UUID) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	t, ok := s.storage[id]
	if !ok || t.UserID != owner {
		return repo.ErrNotFound
	}

	delete(s.storage, id)
	for ind, val := range s.ids {
		if val == id {
			s.ids = append(s.ids[:ind], s.ids[ind+1:]...)
			break
		}
	}
	return nil
}

func copyTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
