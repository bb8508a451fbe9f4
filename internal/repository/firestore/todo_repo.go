package firestore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"todoCalendar/internal/logger"
	"todoCalendar/internal/models/todo"
	repo "todoCalendar/internal/repository"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type todoDoc struct {
	ID        string     `firestore:"id"`
	UserID    string     `firestore:"userId"`
	Text      string     `firestore:"text"`
	Completed bool       `firestore:"completed"`
	Category  string     `firestore:"category"`
	DueDate   *time.Time `firestore:"dueDate"`
	CreatedAt time.Time  `firestore:"createdAt"`
}

func (d todoDoc) toModel() (todo.Todo, error) {
	id, err := uuid.Parse(d.ID)
	if err != nil {
		return todo.Todo{}, fmt.Errorf("id задачи: %w", err)
	}
	owner, err := uuid.Parse(d.UserID)
	if err != nil {
		return todo.Todo{}, fmt.Errorf("владелец задачи: %w", err)
	}
	return todo.Todo{
		ID:        id,
		UserID:    owner,
		Text:      d.Text,
		Completed: d.Completed,
		Category:  d.Category,
		DueDate:   d.DueDate,
		CreatedAt: d.CreatedAt,
	}, nil
}

type TodoStorage struct {
	client *firestore.Client
}

func (s *TodoStorage) HealthCheck(ctx context.Context) error {
	_, err := s.client.Collection(todosCollection).Limit(1).Documents(ctx).GetAll()
	if err != nil {
		logger.Error("Repository: Firestore недоступен", err)
		return fmt.Errorf("проверка Firestore: %w", err)
	}
	return nil
}

func (s *TodoStorage) Create(ctx context.Context, newTodo todo.NewTodo) (*todo.Todo, error) {
	doc := todoDoc{
		ID:        uuid.New().String(),
		UserID:    newTodo.UserID.String(),
		Text:      newTodo.Text,
		Category:  newTodo.Category,
		DueDate:   newTodo.DueDate,
		CreatedAt: time.Now().UTC(),
	}

	_, err := s.client.Collection(todosCollection).Doc(doc.ID).Create(ctx, doc)
	if err != nil {
		logger.Error("Repository: Не удалось добавить задачу", err)
		return nil, fmt.Errorf("добавление задачи: %w", err)
	}

	created, err := doc.toModel()
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// List фильтрует только по владельцу; остальное делается на клиенте,
// чтобы не требовать составных индексов.
func (s *TodoStorage) List(ctx context.Context, owner uuid.UUID, opts todo.ListOptions) ([]todo.Todo, error) {
	iter := s.client.Collection(todosCollection).
		Where("userId", "==", owner.String()).
		Documents(ctx)
	defer iter.Stop()

	todos := []todo.Todo{}
	for {
		snap, err := iter.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			logger.Error("Repository: Ошибка итерации по задачам", err)
			return nil, fmt.Errorf("итерация по задачам: %w", err)
		}

		var doc todoDoc
		if err := snap.DataTo(&doc); err != nil {
			logger.Error("Repository: Не удалось разобрать задачу", err, zap.String("doc", snap.Ref.ID))
			return nil, fmt.Errorf("разбор задачи: %w", err)
		}
		if opts.OnlyWithDueDate && doc.DueDate == nil {
			continue
		}

		t, err := doc.toModel()
		if err != nil {
			return nil, err
		}
		todos = append(todos, t)
	}

	todo.Order(todos, opts.OrderBy)
	return todos, nil
}

func (s *TodoStorage) SetCompleted(ctx context.Context, owner, id uuid.UUID, completed bool) error {
	return s.withOwnedDoc(ctx, owner, id, func(tx *firestore.Transaction, ref *firestore.DocumentRef) error {
		return tx.Update(ref, []firestore.Update{{Path: "completed", Value: completed}})
	})
}

func (s *TodoStorage) Delete(ctx context.Context, owner, id uuid.UUID) error {
	return s.withOwnedDoc(ctx, owner, id, func(tx *firestore.Transaction, ref *firestore.DocumentRef) error {
		return tx.Delete(ref)
	})
}

// withOwnedDoc выполняет apply в транзакции, если документ принадлежит owner.
func (s *TodoStorage) withOwnedDoc(ctx context.Context, owner, id uuid.UUID, apply func(*firestore.Transaction, *firestore.DocumentRef) error) error {
	ref := s.client.Collection(todosCollection).Doc(id.String())

	err := s.client.RunTransaction(ctx, func(ctx context.Context, tx *firestore.Transaction) error {
		snap, err := tx.Get(ref)
		if err != nil {
			return err
		}
		var doc todoDoc
		if err := snap.DataTo(&doc); err != nil {
			return err
		}
		if doc.UserID != owner.String() {
			return repo.ErrNotFound
		}
		return apply(tx, ref)
	})

	switch {
	case err == nil:
		return nil
	case errors.Is(err, repo.ErrNotFound), status.Code(err) == codes.NotFound:
		return repo.ErrNotFound
	default:
		logger.Error("Repository: Ошибка транзакции Firestore", err, zap.String("todo_id", id.String()))
		return fmt.Errorf("изменение задачи: %w", err)
	}
}
