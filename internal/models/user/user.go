package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `db:"id"`
	Email        string    `db:"email"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
}

// Identity is the part of a user visible to the rest of the application.
type Identity struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

func (u User) Identity() Identity {
	return Identity{ID: u.ID, Email: u.Email}
}

type AuthSession struct {
	ID        string    `json:"id"`
	UserID    uuid.UUID `json:"user_id"`
	Email     string    `json:"email"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (s AuthSession) Identity() Identity {
	return Identity{ID: s.UserID, Email: s.Email}
}

func (s AuthSession) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
