package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"todoCalendar/internal/logger"
	"todoCalendar/internal/models/user"
	repo "todoCalendar/internal/repository"

	"github.com/google/uuid"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

type UserStorage struct {
	pool *pgxpool.Pool
}

func (s *UserStorage) Create(ctx context.Context, u *user.User) error {
	start := time.Now()

	query := `INSERT INTO users (id, email, password_hash)
				VALUES ($1, $2, $3)
				RETURNING created_at`

	err := s.pool.QueryRow(ctx, query, u.ID, u.Email, u.PasswordHash).Scan(&u.CreatedAt)
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			logger.Warn("Repository: Пользователь с такой почтой уже существует", zap.String("email", u.Email))
			return repo.ErrAlreadyExists
		}
		logger.Error("Repository: Не удалось добавить пользователя", err, zap.Duration("ms", time.Since(start)))
		return fmt.Errorf("добавление пользователя: %w", err)
	}

	warnIfSlow(start, 50*time.Millisecond, "create_user")
	return nil
}

func (s *UserStorage) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return s.getOne(ctx, `SELECT id, email, password_hash, created_at FROM users WHERE lower(email) = lower($1)`, email)
}

func (s *UserStorage) GetByID(ctx context.Context, id uuid.UUID) (*user.User, error) {
	return s.getOne(ctx, `SELECT id, email, password_hash, created_at FROM users WHERE id = $1`, id)
}

func (s *UserStorage) getOne(ctx context.Context, query string, arg any) (*user.User, error) {
	start := time.Now()

	u := &user.User{}
	err := s.pool.QueryRow(ctx, query, arg).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, repo.ErrNotFound
		}
		logger.Error("Repository: Не удалось получить пользователя", err, zap.Duration("ms", time.Since(start)))
		return nil, fmt.Errorf("получение пользователя: %w", err)
	}

	warnIfSlow(start, 100*time.Millisecond, "get_user")
	return u, nil
}
