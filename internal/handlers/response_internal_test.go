package handlers

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"todoCalendar/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type brokenWriter struct {
	*httptest.ResponseRecorder
}

func (b brokenWriter) Write([]byte) (int, error) {
	return 0, errors.New("connection reset by peer")
}

func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.WarnLevel)
	prev := logger.Logger
	logger.Logger = zap.New(core)
	t.Cleanup(func() { logger.Logger = prev })
	return logs
}

func TestWriteBodyLogsEncodeFailure(t *testing.T) {
	logs := observeLogs(t)
	rec := httptest.NewRecorder()

	writeBody(brokenWriter{rec}, http.StatusOK, map[string]string{"status": "ok"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "HTTP: Не удалось записать ответ", entry.Message)
	assert.Equal(t, "connection reset by peer", entry.ContextMap()["error"])
}

func TestWriteFieldsLastKeyWins(t *testing.T) {
	logs := observeLogs(t)
	rec := httptest.NewRecorder()

	writeFields(rec, http.StatusBadRequest, kv("error", "first"), kv("code", "X"), kv("error", "second"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"second","code":"X"}`, rec.Body.String())
	assert.Zero(t, logs.Len())
}
