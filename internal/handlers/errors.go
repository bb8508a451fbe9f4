package handlers

import (
	"errors"
	"net/http"

	"todoCalendar/internal/logger"
	"todoCalendar/internal/service"
	"todoCalendar/internal/session"

	"go.uber.org/zap"
)

func handleBusinessError(w http.ResponseWriter, err error) bool {
	var businessErr *service.BusinessError
	if !errors.As(err, &businessErr) {
		return false
	}

	statusCode := mapBusinessErrorToHTTP(businessErr.Kind)

	logger.Warn("HTTP: Бизнес-ошибка",
		zap.String("error_code", businessErr.Code),
		zap.Int("http_status", statusCode))

	fields := []jsonField{
		kv("error", businessErr.Message),
		kv("code", businessErr.Code),
	}
	if len(businessErr.Details) > 0 {
		fields = append(fields, kv("details", businessErr.Details))
	}
	if businessErr.Kind == service.KindAuth {
		fields = append(fields, kv("redirect", session.LoginRoute))
	}
	writeFields(w, statusCode, fields...)
	return true
}

func mapBusinessErrorToHTTP(kind service.ErrorKind) int {
	switch kind {
	case service.KindAuth:
		return http.StatusUnauthorized
	case service.KindValidation:
		return http.StatusBadRequest
	case service.KindNotFound:
		return http.StatusNotFound
	case service.KindWrite, service.KindFetch:
		return http.StatusBadGateway
	default:
		return http.StatusBadRequest
	}
}

// respondError отвечает по бизнес-ошибке или 500 для остальных.
func respondError(w http.ResponseWriter, err error) {
	if handleBusinessError(w, err) {
		return
	}
	logger.Error("HTTP: Необработанная ошибка", err)
	writeMessage(w, http.StatusInternalServerError, "internal error")
}
