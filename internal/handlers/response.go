package handlers

import (
	"encoding/json"
	"net/http"

	"todoCalendar/internal/logger"

	"go.uber.org/zap"
)

// jsonField - одно поле объекта ответа.
type jsonField struct {
	key   string
	value any
}

func kv(key string, value any) jsonField {
	return jsonField{key: key, value: value}
}

// writeFields собирает поля в один объект; при повторе ключа побеждает последнее.
func writeFields(w http.ResponseWriter, code int, fields ...jsonField) {
	body := make(map[string]any, len(fields))
	for _, f := range fields {
		body[f.key] = f.value
	}
	writeBody(w, code, body)
}

func writeBody(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warn("HTTP: Не удалось записать ответ", zap.Int("status", code), zap.Error(err))
	}
}

func writeMessage(w http.ResponseWriter, code int, message string) {
	writeFields(w, code, kv("error", message))
}
