package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"todoCalendar/internal/app"
	"todoCalendar/internal/config"
	"todoCalendar/internal/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "загрузка конфигурации: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.New(cfg).Init(ctx)
	if err != nil {
		logger.Error("Ошибка инициализации приложения", err)
		logger.Sync()
		os.Exit(1)
	}

	if err := application.Run(ctx); err != nil {
		logger.Error("Приложение завершилось с ошибкой", err)
		os.Exit(1)
	}
	logger.Info("Приложение остановлено")
}
