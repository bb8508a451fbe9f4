// Package identity is the authentication backend: accounts, password checks,
// access tokens and the auth-state event stream consumed by session providers.
package identity

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"todoCalendar/internal/logger"
	"todoCalendar/internal/models/user"
	repo "todoCalendar/internal/repository"
	"todoCalendar/internal/service"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	MsgInvalidCredentials = "Invalid login credentials"
	MsgAlreadyRegistered  = "User already registered"
	MsgPasswordTooShort   = "Password should be at least 6 characters"
	MsgSessionNotFound    = "Session not found"
	MsgSessionExpired     = "Session expired"
	MsgCredentialsMissing = "Email and password are required"
	msgUnavailable        = "the identity service is unavailable"

	MinPasswordLength = 6
)

type UserRepository interface {
	Create(context.Context, *user.User) error
	GetByEmail(context.Context, string) (*user.User, error)
	GetByID(context.Context, uuid.UUID) (*user.User, error)
}

type SessionRepository interface {
	HealthCheck(context.Context) error
	Save(context.Context, user.AuthSession) error
	Get(context.Context, string) (*user.AuthSession, error)
	Delete(context.Context, string) error
	DeleteByUser(context.Context, uuid.UUID) ([]string, error)
	DeleteExpired(context.Context, time.Time) ([]user.AuthSession, error)
}

// Session is what a successful sign-in hands back to the client.
type Session struct {
	ID          string        `json:"-"`
	AccessToken string        `json:"access_token"`
	ExpiresAt   time.Time     `json:"expires_at"`
	User        user.Identity `json:"user"`
}

type Service struct {
	users    UserRepository
	sessions SessionRepository
	tokens   *tokenIssuer
	cost     int
	now      func() time.Time

	mtx         sync.RWMutex
	subscribers map[int]chan Event
	nextSubID   int
	buffer      int
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

func WithTokenTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.tokens.ttl = ttl
		}
	}
}

func WithIssuer(issuer string) Option {
	return func(s *Service) {
		if issuer != "" {
			s.tokens.issuer = issuer
		}
	}
}

func WithBcryptCost(cost int) Option {
	return func(s *Service) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.cost = cost
		}
	}
}

func WithEventBuffer(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.buffer = size
		}
	}
}

func New(users UserRepository, sessions SessionRepository, secret []byte, opts ...Option) *Service {
	s := &Service{
		users:    users,
		sessions: sessions,
		tokens: &tokenIssuer{
			secret: secret,
			issuer: "todocal",
			ttl:    24 * time.Hour,
		},
		cost:        bcrypt.DefaultCost,
		now:         time.Now,
		subscribers: make(map[int]chan Event),
		buffer:      16,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.tokens.now = s.now
	return s
}

func (s *Service) HealthCheck(ctx context.Context) error {
	return s.sessions.HealthCheck(ctx)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func (s *Service) SignUp(ctx context.Context, email, password string) (*user.Identity, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, service.NewValidationError("email", MsgCredentialsMissing)
	}
	if len(password) < MinPasswordLength {
		return nil, service.NewValidationError("password", MsgPasswordTooShort)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		logger.Error("Identity: Не удалось захешировать пароль", err)
		return nil, service.NewFetchError(msgUnavailable, err)
	}

	u := &user.User{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    s.now(),
	}
	err = s.users.Create(ctx, u)
	if errors.Is(err, repo.ErrAlreadyExists) {
		return nil, service.NewValidationError("email", MsgAlreadyRegistered)
	}
	if err != nil {
		logger.Error("Identity: Не удалось создать пользователя", err)
		return nil, service.NewFetchError(msgUnavailable, err)
	}

	logger.Info("Identity: Зарегистрирован пользователь", zap.String("user_id", u.ID.String()))
	identity := u.Identity()
	return &identity, nil
}

func (s *Service) SignInWithPassword(ctx context.Context, email, password string) (*Session, error) {
	email = normalizeEmail(email)
	if email == "" || password == "" {
		return nil, service.NewAuthError(MsgCredentialsMissing, nil)
	}

	u, err := s.users.GetByEmail(ctx, email)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, service.NewAuthError(MsgInvalidCredentials, nil)
	}
	if err != nil {
		logger.Error("Identity: Не удалось получить пользователя", err)
		return nil, service.NewFetchError(msgUnavailable, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		logger.Info("Identity: Неверный пароль", zap.String("user_id", u.ID.String()))
		return nil, service.NewAuthError(MsgInvalidCredentials, nil)
	}

	now := s.now()
	auth := user.AuthSession{
		ID:        uuid.NewString(),
		UserID:    u.ID,
		Email:     u.Email,
		ExpiresAt: now.Add(s.tokens.ttl),
		CreatedAt: now,
	}
	if err := s.sessions.Save(ctx, auth); err != nil {
		logger.Error("Identity: Не удалось сохранить сессию", err)
		return nil, service.NewFetchError(msgUnavailable, err)
	}

	token, err := s.tokens.issue(auth)
	if err != nil {
		logger.Error("Identity: Не удалось подписать токен", err)
		return nil, service.NewFetchError(msgUnavailable, err)
	}

	session := &Session{ID: auth.ID, AccessToken: token, ExpiresAt: auth.ExpiresAt, User: auth.Identity()}
	s.publish(Event{Type: EventSignedIn, SessionID: auth.ID, User: auth.Identity()})
	return session, nil
}

// GetSession проверяет токен и живую запись сессии.
func (s *Service) GetSession(ctx context.Context, token string) (*Session, error) {
	sessionID, err := s.tokens.parse(token)
	if errors.Is(err, errTokenExpired) {
		return nil, service.NewAuthError(MsgSessionExpired, err)
	}
	if err != nil {
		return nil, service.NewAuthError(MsgSessionNotFound, err)
	}

	auth, err := s.sessions.Get(ctx, sessionID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, service.NewAuthError(MsgSessionNotFound, err)
	}
	if err != nil {
		logger.Error("Identity: Не удалось получить сессию", err)
		return nil, service.NewFetchError(msgUnavailable, err)
	}
	if auth.Expired(s.now()) {
		return nil, service.NewAuthError(MsgSessionExpired, nil)
	}

	return &Session{ID: auth.ID, AccessToken: token, ExpiresAt: auth.ExpiresAt, User: auth.Identity()}, nil
}

// SignOut отзывает сессию токена, даже если его срок уже истёк.
func (s *Service) SignOut(ctx context.Context, token string) error {
	sessionID, err := s.tokens.subject(token)
	if err != nil {
		return service.NewAuthError(MsgSessionNotFound, err)
	}

	auth, err := s.sessions.Get(ctx, sessionID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil
	}
	if err != nil {
		return service.NewFetchError(msgUnavailable, err)
	}

	if err := s.sessions.Delete(ctx, sessionID); err != nil && !errors.Is(err, repo.ErrNotFound) {
		logger.Error("Identity: Не удалось удалить сессию", err)
		return service.NewFetchError(msgUnavailable, err)
	}

	s.publish(Event{Type: EventSignedOut, SessionID: sessionID, User: auth.Identity()})
	return nil
}

// PurgeExpired удаляет истёкшие сессии и рассылает SESSION_EXPIRED.
func (s *Service) PurgeExpired(ctx context.Context, now time.Time) (int, error) {
	expired, err := s.sessions.DeleteExpired(ctx, now)
	for _, auth := range expired {
		s.publish(Event{Type: EventSessionExpired, SessionID: auth.ID, User: auth.Identity()})
	}
	if err != nil {
		logger.Error("Identity: Ошибка очистки сессий", err)
		return len(expired), service.NewFetchError(msgUnavailable, err)
	}
	return len(expired), nil
}
