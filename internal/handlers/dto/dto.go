package dto

import (
	"time"

	"todoCalendar/internal/models/user"
	"todoCalendar/internal/notify"

	"github.com/google/uuid"
)

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type CreateTodoRequest struct {
	Text     string     `json:"text" validate:"required"`
	Category string     `json:"category,omitempty"`
	DueDate  *time.Time `json:"due_date,omitempty"`
}

type FilterRequest struct {
	Filter string `json:"filter"`
}

type SortRequest struct {
	Sort string `json:"sort" validate:"required"`
}

type ThemeRequest struct {
	Theme string `json:"theme" validate:"required"`
}

type SessionResponse struct {
	Status string         `json:"status"`
	User   *user.Identity `json:"user,omitempty"`
}

type NotificationResponse struct {
	ID          uuid.UUID `json:"id"`
	Level       string    `json:"level"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	DurationMs  int64     `json:"duration_ms"`
	CreatedAt   time.Time `json:"created_at"`
}

func FromNotification(n notify.Notification) NotificationResponse {
	return NotificationResponse{
		ID:          n.ID,
		Level:       string(n.Level),
		Title:       n.Title,
		Description: n.Description,
		DurationMs:  n.Duration.Milliseconds(),
		CreatedAt:   n.CreatedAt,
	}
}

func FromNotificationList(notes []notify.Notification) []NotificationResponse {
	result := make([]NotificationResponse, len(notes))
	for i, n := range notes {
		result[i] = FromNotification(n)
	}
	return result
}
