// Package firestore keeps todos and users in Cloud Firestore.
//
// Documents live in the "todos" and "users" collections. Users are keyed by
// lowercased email so that duplicate sign-ups fail on Create.
package firestore

import (
	"context"
	"fmt"

	"todoCalendar/internal/logger"

	"cloud.google.com/go/firestore"
	"go.uber.org/zap"
)

const (
	todosCollection = "todos"
	usersCollection = "users"
)

type Storage struct {
	client *firestore.Client
}

// New connects to projectID. FIRESTORE_EMULATOR_HOST is honoured by the client.
func New(ctx context.Context, projectID string) (*Storage, error) {
	client, err := firestore.NewClient(ctx, projectID)
	if err != nil {
		logger.Error("Repository: Не удалось создать клиент Firestore", err, zap.String("project_id", projectID))
		return nil, fmt.Errorf("создание клиента Firestore: %w", err)
	}

	logger.Info("Repository: Подключение к Firestore", zap.String("project_id", projectID))
	return &Storage{client: client}, nil
}

func (s *Storage) Close() error {
	return s.client.Close()
}

func (s *Storage) HealthCheck(ctx context.Context) error {
	_, err := s.client.Collection(usersCollection).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		logger.Error("Repository: Firestore недоступен", err)
		return fmt.Errorf("проверка Firestore: %w", err)
	}
	return nil
}

func (s *Storage) Todos() *TodoStorage {
	return &TodoStorage{client: s.client}
}

func (s *Storage) Users() *UserStorage {
	return &UserStorage{client: s.client}
}
