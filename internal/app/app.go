package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"todoCalendar/internal/config"
	"todoCalendar/internal/handlers"
	"todoCalendar/internal/identity"
	"todoCalendar/internal/locale"
	"todoCalendar/internal/logger"
	"todoCalendar/internal/middleware"
	"todoCalendar/internal/repository/firestore"
	"todoCalendar/internal/repository/inmemory"
	"todoCalendar/internal/repository/postgres"
	"todoCalendar/internal/repository/redis"
	"todoCalendar/internal/service"
	"todoCalendar/internal/worker"
	"todoCalendar/internal/workspace"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config    *config.Config
	server    *http.Server
	registry  *workspace.Registry
	worker    *worker.CleanupWorker
	shutdowns []func() // функции для graceful shutdown
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

// Init собирает зависимости; при ошибке уже открытые ресурсы закрываются.
func (a *App) Init(ctx context.Context) (_ *App, err error) {
	defer func() {
		if err != nil {
			a.shutdown()
		}
	}()

	if err := logger.Init(a.config.Logging.Development); err != nil {
		return nil, fmt.Errorf("инициализация логгера: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	printer, err := locale.New(a.config.App.Locale)
	if err != nil {
		return nil, fmt.Errorf("инициализация локали: %w", err)
	}
	loc, err := a.config.Location()
	if err != nil {
		return nil, err
	}

	todos, users, err := a.initRepository(ctx)
	if err != nil {
		return nil, err
	}
	sessions, err := a.initSessions(ctx)
	if err != nil {
		return nil, err
	}

	idp := identity.New(users, sessions, []byte(a.config.Auth.JWTSecret),
		identity.WithIssuer(a.config.Auth.Issuer),
		identity.WithTokenTTL(a.config.Auth.TokenTTL),
		identity.WithBcryptCost(a.config.Auth.BcryptCost),
	)
	store := service.NewTodoStore(todos)

	a.registry = workspace.NewRegistry(workspace.Deps{
		Identity: idp,
		Store:    store,
		Printer:  printer,
		Location: loc,
	})
	a.shutdowns = append(a.shutdowns, a.registry.Close)

	cookies := middleware.CookieOptions{
		Secure: a.config.Server.SecureCookies,
		MaxAge: a.config.App.WorkspaceTTL,
	}
	h := handlers.New(printer, cookies, map[string]handlers.HealthChecker{
		"store":    store,
		"identity": idp,
	})
	router := handlers.NewRouter(h, a.registry, handlers.RouterConfig{
		AllowedOrigins: a.config.Server.AllowedOrigins,
		RequestTimeout: a.config.Server.RequestTimeout,
		RateLimit:      a.config.Server.RateLimit,
		Cookies:        cookies,
	})

	a.server = &http.Server{
		Addr:              a.config.GetServerAddr(),
		Handler:           otelhttp.NewHandler(router, "todocal"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	a.worker = worker.NewCleanupWorker(idp, a.registry,
		worker.WithInterval(a.config.App.SweepInterval),
		worker.WithIdleTTL(a.config.App.WorkspaceTTL),
	)

	logger.Info("Приложение инициализировано",
		zap.String("repository", a.config.Repository.Type),
		zap.String("sessions", a.config.Sessions.Type),
		zap.String("addr", a.server.Addr))
	return a, nil
}

func (a *App) initRepository(ctx context.Context) (service.TodoRepository, identity.UserRepository, error) {
	switch a.config.Repository.Type {
	case "postgres":
		db, err := postgres.New(ctx, a.config.Database.URL, postgres.PoolConfig{
			MaxConnections: a.config.Database.MaxConnections,
			MinConnections: a.config.Database.MinConnections,
			IdleTimeout:    a.config.Database.IdleTimeout,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("подключение к postgres: %w", err)
		}
		a.shutdowns = append(a.shutdowns, db.Close)

		if err := db.Migrate(ctx); err != nil {
			return nil, nil, fmt.Errorf("миграции: %w", err)
		}
		return db.Todos(), db.Users(), nil

	case "firestore":
		db, err := firestore.New(ctx, a.config.Firestore.ProjectID)
		if err != nil {
			return nil, nil, fmt.Errorf("подключение к firestore: %w", err)
		}
		a.shutdowns = append(a.shutdowns, func() {
			if err := db.Close(); err != nil {
				logger.Warn("Ошибка закрытия firestore", zap.Error(err))
			}
		})
		return db.Todos(), db.Users(), nil

	default:
		logger.Warn("Используется хранилище в памяти, данные не сохраняются между запусками")
		return inmemory.NewTodoStorage(), inmemory.NewUserStorage(), nil
	}
}

func (a *App) initSessions(ctx context.Context) (identity.SessionRepository, error) {
	if a.config.Sessions.Type != "redis" {
		return inmemory.NewSessionStorage(), nil
	}

	sessions, err := redis.New(ctx, redis.Options{
		Addr:     a.config.Redis.Addr,
		Password: a.config.Redis.Password,
		DB:       a.config.Redis.DB,
	})
	if err != nil {
		return nil, fmt.Errorf("подключение к redis: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		if err := sessions.Close(); err != nil {
			logger.Warn("Ошибка закрытия redis", zap.Error(err))
		}
	})
	return sessions, nil
}

// Run обслуживает HTTP и фоновую очистку до отмены ctx.
func (a *App) Run(ctx context.Context) error {
	defer a.shutdown()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("HTTP: Сервер запущен", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("http сервер: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		return a.worker.Start(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("HTTP: Остановка сервера...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.config.Server.ShutdownTimeout)
		defer cancel()
		return a.server.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (a *App) shutdown() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
}
