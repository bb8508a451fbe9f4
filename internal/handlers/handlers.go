package handlers

import (
	"context"
	"net/http"
	"time"

	"todoCalendar/internal/locale"
	"todoCalendar/internal/logger"
	"todoCalendar/internal/middleware"
	"todoCalendar/internal/service"
	"todoCalendar/internal/workspace"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

type Handler struct {
	printer *locale.Printer
	cookies middleware.CookieOptions
	checks  map[string]HealthChecker
}

func New(printer *locale.Printer, cookies middleware.CookieOptions, checks map[string]HealthChecker) *Handler {
	if printer == nil {
		printer = locale.MustNew("en")
	}
	return &Handler{
		printer: printer,
		cookies: cookies,
		checks:  checks,
	}
}

func workspaceOf(w http.ResponseWriter, r *http.Request) (*workspace.Workspace, bool) {
	ws, ok := middleware.WorkspaceFrom(r.Context())
	if !ok {
		logger.Error("HTTP: Запрос без рабочего пространства", nil, zap.String("path", r.URL.Path))
		writeMessage(w, http.StatusInternalServerError, "workspace is missing")
	}
	return ws, ok
}

func todoID(r *http.Request) (uuid.UUID, error) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		logger.Warn("HTTP: Неверный id задачи", zap.String("id", raw))
		return uuid.Nil, service.NewValidationError("id", "Invalid todo id")
	}
	return id, nil
}

func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	status := http.StatusOK
	checks := make(map[string]string, len(h.checks))
	for name, checker := range h.checks {
		if err := checker.HealthCheck(ctx); err != nil {
			logger.Warn("HTTP: Проверка здоровья не пройдена", zap.String("component", name), zap.Error(err))
			checks[name] = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "ok"
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}
	writeFields(w, status,
		kv("status", overall),
		kv("checks", checks),
	)
}
