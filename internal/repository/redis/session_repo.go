package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"todoCalendar/internal/logger"
	"todoCalendar/internal/models/user"
	repo "todoCalendar/internal/repository"

	"github.com/google/uuid"
	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	sessionKeyPrefix = "todocal:session:"
	expiryIndexKey   = "todocal:sessions:expiry"
	// запись живёт дольше сессии, чтобы сборщик успел её прочитать
	expiredGrace = time.Hour
)

func sessionKey(id string) string {
	return sessionKeyPrefix + id
}

func userSessionsKey(userID uuid.UUID) string {
	return "todocal:user:" + userID.String() + ":sessions"
}

type Options struct {
	Addr     string
	Password string
	DB       int
}

type SessionStorage struct {
	client *goredis.Client
}

func New(ctx context.Context, opts Options) (*SessionStorage, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		logger.Error("Repository: Redis недоступен", err, zap.String("addr", opts.Addr))
		return nil, fmt.Errorf("подключение к redis: %w", err)
	}

	logger.Info("Repository: Подключение к Redis", zap.String("addr", opts.Addr))
	return &SessionStorage{client: client}, nil
}

func (s *SessionStorage) Close() error {
	return s.client.Close()
}

func (s *SessionStorage) HealthCheck(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		logger.Error("Repository: Redis недоступен", err)
		return fmt.Errorf("проверка redis: %w", err)
	}
	return nil
}

func (s *SessionStorage) Save(ctx context.Context, session user.AuthSession) error {
	payload, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("сериализация сессии: %w", err)
	}

	ttl := time.Until(session.ExpiresAt) + expiredGrace
	if ttl <= 0 {
		ttl = expiredGrace
	}

	_, err = s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Set(ctx, sessionKey(session.ID), payload, ttl)
		pipe.ZAdd(ctx, expiryIndexKey, goredis.Z{
			Score:  float64(session.ExpiresAt.Unix()),
			Member: session.ID,
		})
		pipe.SAdd(ctx, userSessionsKey(session.UserID), session.ID)
		return nil
	})
	if err != nil {
		logger.Error("Repository: Не удалось сохранить сессию", err)
		return fmt.Errorf("сохранение сессии: %w", err)
	}
	return nil
}

func (s *SessionStorage) Get(ctx context.Context, id string) (*user.AuthSession, error) {
	payload, err := s.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, goredis.Nil) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		logger.Error("Repository: Не удалось получить сессию", err)
		return nil, fmt.Errorf("получение сессии: %w", err)
	}

	var session user.AuthSession
	if err := json.Unmarshal(payload, &session); err != nil {
		return nil, fmt.Errorf("разбор сессии: %w", err)
	}
	return &session, nil
}

func (s *SessionStorage) Delete(ctx context.Context, id string) error {
	session, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	return s.remove(ctx, *session)
}

func (s *SessionStorage) DeleteByUser(ctx context.Context, userID uuid.UUID) ([]string, error) {
	ids, err := s.client.SMembers(ctx, userSessionsKey(userID)).Result()
	if err != nil {
		logger.Error("Repository: Не удалось получить сессии пользователя", err)
		return nil, fmt.Errorf("сессии пользователя: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	_, err = s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		for _, id := range ids {
			pipe.Del(ctx, sessionKey(id))
			pipe.ZRem(ctx, expiryIndexKey, id)
		}
		pipe.Del(ctx, userSessionsKey(userID))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("удаление сессий пользователя: %w", err)
	}
	return ids, nil
}

// DeleteExpired снимает с индекса все сессии с ExpiresAt <= now.
func (s *SessionStorage) DeleteExpired(ctx context.Context, now time.Time) ([]user.AuthSession, error) {
	ids, err := s.client.ZRangeByScore(ctx, expiryIndexKey, &goredis.ZRangeBy{
		Min: "-inf",
		Max: strconv.FormatInt(now.Unix(), 10),
	}).Result()
	if err != nil {
		logger.Error("Repository: Не удалось получить истёкшие сессии", err)
		return nil, fmt.Errorf("истёкшие сессии: %w", err)
	}

	expired := make([]user.AuthSession, 0, len(ids))
	for _, id := range ids {
		session, err := s.Get(ctx, id)
		if errors.Is(err, repo.ErrNotFound) {
			s.client.ZRem(ctx, expiryIndexKey, id)
			continue
		}
		if err != nil {
			return expired, err
		}
		if !session.Expired(now) {
			continue
		}
		if err := s.remove(ctx, *session); err != nil {
			return expired, err
		}
		expired = append(expired, *session)
	}

	if len(expired) > 0 {
		logger.Debug("Repository: Удалены истёкшие сессии", zap.Int("count", len(expired)))
	}
	return expired, nil
}

func (s *SessionStorage) remove(ctx context.Context, session user.AuthSession) error {
	_, err := s.client.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.Del(ctx, sessionKey(session.ID))
		pipe.ZRem(ctx, expiryIndexKey, session.ID)
		pipe.SRem(ctx, userSessionsKey(session.UserID), session.ID)
		return nil
	})
	if err != nil {
		logger.Error("Repository: Не удалось удалить сессию", err)
		return fmt.Errorf("удаление сессии: %w", err)
	}
	return nil
}
