package inmemory

import (
	"context"
	"sync"
	"time"

	"todoCalendar/internal/models/user"
	repo "todoCalendar/internal/repository"

	"github.com/google/uuid"
)

// SessionStorage хранит сессии аутентификации в памяти процесса.
type SessionStorage struct {
	storage map[string]user.AuthSession
	mtx     *sync.RWMutex
}

func NewSessionStorage() *SessionStorage {
	return &SessionStorage{
		storage: make(map[string]user.AuthSession),
		mtx:     &sync.RWMutex{},
	}
}

func (s *SessionStorage) HealthCheck(ctx context.Context) error {
	return nil
}

func (s *SessionStorage) Save(ctx context.Context, session user.AuthSession) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.storage[session.ID] = session
	return nil
}

func (s *SessionStorage) Get(ctx context.Context, id string) (*user.AuthSession, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	session, ok := s.storage[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return &session, nil
}

func (s *SessionStorage) Delete(ctx context.Context, id string) error {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	if _, ok := s.storage[id]; !ok {
		return repo.ErrNotFound
	}
	delete(s.storage, id)
	return nil
}

func (s *SessionStorage) DeleteByUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	var removed []string
	for id, session := range s.storage {
		if session.UserID == userID {
			delete(s.storage, id)
			removed = append(removed, id)
		}
	}
	return removed, nil
}

// DeleteExpired удаляет и возвращает сессии, истёкшие к моменту now.
func (s *SessionStorage) DeleteExpired(ctx context.Context, now time.Time) ([]user.AuthSession, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	var expired []user.AuthSession
	for id, session := range s.storage {
		if session.Expired(now) {
			delete(s.storage, id)
			expired = append(expired, session)
		}
	}
	return expired, nil
}
