package identity

import (
	"sync"

	"todoCalendar/internal/logger"
	"todoCalendar/internal/models/user"

	"go.uber.org/zap"
)

type EventType string

const (
	EventSignedIn       EventType = "SIGNED_IN"
	EventSignedOut      EventType = "SIGNED_OUT"
	EventSessionExpired EventType = "SESSION_EXPIRED"
)

type Event struct {
	Type      EventType
	SessionID string
	User      user.Identity
}

// Subscribe регистрирует получателя событий. Медленный получатель теряет
// события, но не блокирует сервис. cancel закрывает канал.
func (s *Service) Subscribe() (<-chan Event, func()) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	id := s.nextSubID
	s.nextSubID++
	ch := make(chan Event, s.buffer)
	s.subscribers[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mtx.Lock()
			defer s.mtx.Unlock()
			delete(s.subscribers, id)
			close(ch)
		})
	}
	return ch, cancel
}

func (s *Service) publish(ev Event) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	for id, ch := range s.subscribers {
		select {
		case ch <- ev:
		default:
			logger.Warn("Identity: Подписчик не успевает, событие отброшено",
				zap.Int("subscriber", id),
				zap.String("event", string(ev.Type)))
		}
	}
}
