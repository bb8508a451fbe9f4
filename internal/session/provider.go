// Package session tracks who is signed in for one application session and
// tells interested views when that changes.
package session

import (
	"context"
	"sync"

	"todoCalendar/internal/identity"
	"todoCalendar/internal/logger"
	"todoCalendar/internal/models/user"
	"todoCalendar/internal/service"

	"go.uber.org/zap"
)

const LoginRoute = "/login"

type Status string

const (
	StatusUnknown       Status = "unknown"
	StatusAuthenticated Status = "authenticated"
	StatusAnonymous     Status = "anonymous"
)

type State struct {
	Status   Status         `json:"status"`
	Identity *user.Identity `json:"user,omitempty"`
}

func (s State) Authenticated() bool {
	return s.Status == StatusAuthenticated && s.Identity != nil
}

type IdentityService interface {
	SignInWithPassword(ctx context.Context, email, password string) (*identity.Session, error)
	SignUp(ctx context.Context, email, password string) (*user.Identity, error)
	SignOut(ctx context.Context, token string) error
	GetSession(ctx context.Context, token string) (*identity.Session, error)
	Subscribe() (<-chan identity.Event, func())
}

type Provider struct {
	identity IdentityService

	mtx     sync.RWMutex
	state   State
	current *identity.Session

	obsMtx    sync.Mutex
	observers map[int]func(State)
	nextObsID int

	queueMtx sync.Mutex
	queue    []State
	wake     chan struct{}

	cancelEvents func()
	done         chan struct{}
	closeOnce    sync.Once
	wg           sync.WaitGroup
}

func NewProvider(identitySvc IdentityService) *Provider {
	p := &Provider{
		identity:  identitySvc,
		state:     State{Status: StatusUnknown},
		observers: make(map[int]func(State)),
		wake:      make(chan struct{}, 1),
		done:      make(chan struct{}),
	}

	events, cancel := identitySvc.Subscribe()
	p.cancelEvents = cancel

	p.wg.Add(2)
	go p.dispatch()
	go p.listen(events)
	return p
}

// Close останавливает фоновые горутины; ожидающие уведомления отбрасываются.
func (p *Provider) Close() {
	p.closeOnce.Do(func() {
		p.cancelEvents()
		close(p.done)
		p.wg.Wait()
	})
}

func (p *Provider) State() State {
	p.mtx.RLock()
	defer p.mtx.RUnlock()
	return p.state
}

func (p *Provider) Token() string {
	p.mtx.RLock()
	defer p.mtx.RUnlock()
	if p.current == nil {
		return ""
	}
	return p.current.AccessToken
}

// Subscribe регистрирует наблюдателя. Вызовы идут по порядку из горутины провайдера.
func (p *Provider) Subscribe(fn func(State)) func() {
	p.obsMtx.Lock()
	defer p.obsMtx.Unlock()

	id := p.nextObsID
	p.nextObsID++
	p.observers[id] = fn

	return func() {
		p.obsMtx.Lock()
		defer p.obsMtx.Unlock()
		delete(p.observers, id)
	}
}

// Load восстанавливает сессию по сохранённому токену.
// При сбое транспорта состояние остаётся unknown и возвращается ошибка.
func (p *Provider) Load(ctx context.Context, token string) error {
	if token == "" {
		p.setAnonymous()
		return nil
	}

	sess, err := p.identity.GetSession(ctx, token)
	if err != nil {
		if service.IsKind(err, service.KindAuth) {
			logger.Debug("Session: Сохранённая сессия недействительна", zap.Error(err))
			p.setAnonymous()
			return nil
		}
		logger.Error("Session: Не удалось проверить сессию", err)
		return err
	}

	p.setAuthenticated(sess)
	return nil
}

func (p *Provider) SignIn(ctx context.Context, email, password string) (*identity.Session, error) {
	sess, err := p.identity.SignInWithPassword(ctx, email, password)
	if err != nil {
		p.setAnonymous()
		return nil, service.NewAuthError(service.MessageOf(err, identity.MsgInvalidCredentials), err)
	}

	logger.Info("Session: Вход выполнен", zap.String("user_id", sess.User.ID.String()))
	p.setAuthenticated(sess)
	return sess, nil
}

// SignUp создаёт учётную запись, не выполняя вход.
func (p *Provider) SignUp(ctx context.Context, email, password string) (*user.Identity, error) {
	return p.identity.SignUp(ctx, email, password)
}

// SignOut всегда завершается в anonymous и возвращает маршрут для перехода.
func (p *Provider) SignOut(ctx context.Context) string {
	if token := p.Token(); token != "" {
		if err := p.identity.SignOut(ctx, token); err != nil {
			logger.Warn("Session: Ошибка выхода на стороне identity", zap.Error(err))
		}
	}
	p.setAnonymous()
	return LoginRoute
}

// Validate перепроверяет живую сессию перед записью.
func (p *Provider) Validate(ctx context.Context) (user.Identity, error) {
	token := p.Token()
	if token == "" {
		p.setAnonymous()
		return user.Identity{}, service.NewAuthError(identity.MsgSessionNotFound, nil)
	}

	sess, err := p.identity.GetSession(ctx, token)
	if err != nil {
		if service.IsKind(err, service.KindAuth) {
			p.setAnonymous()
		} else {
			logger.Warn("Session: Сессию не удалось перепроверить", zap.Error(err))
		}
		return user.Identity{}, err
	}
	return sess.User, nil
}

func (p *Provider) setAuthenticated(sess *identity.Session) {
	p.mtx.Lock()
	who := sess.User
	p.current = sess
	changed := p.state.Status != StatusAuthenticated || p.state.Identity == nil || *p.state.Identity != who
	p.state = State{Status: StatusAuthenticated, Identity: &who}
	next := p.state
	p.mtx.Unlock()

	if changed {
		p.enqueue(next)
	}
}

func (p *Provider) setAnonymous() {
	p.mtx.Lock()
	changed := p.state.Status != StatusAnonymous
	p.current = nil
	p.state = State{Status: StatusAnonymous}
	next := p.state
	p.mtx.Unlock()

	if changed {
		p.enqueue(next)
	}
}

func (p *Provider) enqueue(state State) {
	p.queueMtx.Lock()
	p.queue = append(p.queue, state)
	p.queueMtx.Unlock()

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

func (p *Provider) dispatch() {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			return
		case <-p.wake:
		}

		p.queueMtx.Lock()
		pending := p.queue
		p.queue = nil
		p.queueMtx.Unlock()

		for _, state := range pending {
			p.obsMtx.Lock()
			observers := make([]func(State), 0, len(p.observers))
			for id := 0; id < p.nextObsID; id++ {
				if fn, ok := p.observers[id]; ok {
					observers = append(observers, fn)
				}
			}
			p.obsMtx.Unlock()

			for _, fn := range observers {
				fn(state)
			}
		}
	}
}

// listen переводит провайдер в anonymous, когда собственная сессия отозвана извне.
func (p *Provider) listen(events <-chan identity.Event) {
	defer p.wg.Done()
	for {
		select {
		case <-p.done:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			if ev.Type != identity.EventSignedOut && ev.Type != identity.EventSessionExpired {
				continue
			}

			p.mtx.RLock()
			own := p.current != nil && p.current.ID == ev.SessionID
			p.mtx.RUnlock()

			if own {
				logger.Info("Session: Сессия завершена извне", zap.String("event", string(ev.Type)))
				p.setAnonymous()
			}
		}
	}
}
