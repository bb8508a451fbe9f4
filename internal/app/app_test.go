package app_test

import (
	"context"
	"testing"
	"time"

	"todoCalendar/internal/app"
	"todoCalendar/internal/config"

	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{
			Host:            "127.0.0.1",
			Port:            "0",
			RequestTimeout:  time.Second,
			ShutdownTimeout: time.Second,
		},
		Repository: config.RepositoryConfig{Type: "inmemory"},
		Sessions:   config.SessionsConfig{Type: "inmemory"},
		Auth: config.AuthConfig{
			JWTSecret:  "secret",
			Issuer:     "todocal",
			TokenTTL:   time.Hour,
			BcryptCost: 4,
		},
		App: config.AppConfig{
			Locale:        "en",
			Timezone:      "UTC",
			WorkspaceTTL:  time.Hour,
			SweepInterval: time.Minute,
		},
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	application, err := app.New(testConfig()).Init(ctx)
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- application.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("приложение не остановилось")
	}
}

func TestInitRejectsUnknownTimezone(t *testing.T) {
	cfg := testConfig()
	cfg.App.Timezone = "Mars/Olympus"

	_, err := app.New(cfg).Init(context.Background())
	require.Error(t, err)
}
