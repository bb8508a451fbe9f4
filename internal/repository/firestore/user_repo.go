package firestore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"todoCalendar/internal/logger"
	"todoCalendar/internal/models/user"
	repo "todoCalendar/internal/repository"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type userDoc struct {
	ID           string    `firestore:"id"`
	Email        string    `firestore:"email"`
	PasswordHash string    `firestore:"passwordHash"`
	CreatedAt    time.Time `firestore:"createdAt"`
}

func (d userDoc) toModel() (*user.User, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return nil, fmt.Errorf("id пользователя: %w", err)
	}
	return &user.User{ID: id, Email: d.Email, PasswordHash: d.PasswordHash, CreatedAt: d.CreatedAt}, nil
}

type UserStorage struct {
	client *firestore.Client
}

func (s *UserStorage) Create(ctx context.Context, u *user.User) error {
	if u.CreatedAt.IsZero() {
		u.CreatedAt = time.Now().UTC()
	}
	doc := userDoc{ID: u.ID.String(), Email: u.Email, PasswordHash: u.PasswordHash, CreatedAt: u.CreatedAt}

	_, err := s.client.Collection(usersCollection).Doc(strings.ToLower(u.Email)).Create(ctx, doc)
	if status.Code(err) == codes.AlreadyExists {
		return repo.ErrAlreadyExists
	}
	if err != nil {
		logger.Error("Repository: Не удалось добавить пользователя", err)
		return fmt.Errorf("добавление пользователя: %w", err)
	}
	return nil
}

func (s *UserStorage) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	snap, err := s.client.Collection(usersCollection).Doc(strings.ToLower(email)).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		logger.Error("Repository: Не удалось получить пользователя", err)
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}

	var doc userDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("разбор пользователя: %w", err)
	}
	return doc.toModel()
}

func (s *UserStorage) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	iter := s.client.Collection(usersCollection).Where("id", "==", id.String()).Limit(1).Documents(ctx)
	defer iter.Stop()

	snap, err := iter.Next()
	if errors.Is(err, iterator.Done) {
		return nil, repo.ErrNotFound
	}
	if err != nil {
		logger.Error("Repository: Не удалось получить пользователя", err)
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}

	var doc userDoc
	if err := snap.DataTo(&doc); err != nil {
		return nil, fmt.Errorf("разбор пользователя: %w", err)
	}
	return doc.toModel()
}
