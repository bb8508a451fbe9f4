package worker

import (
	"context"
	"fmt"
	"time"

	"todoCalendar/internal/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type SessionPurger interface {
	PurgeExpired(ctx context.Context, now time.Time) (int, error)
}

type WorkspaceSweeper interface {
	Sweep(idle time.Duration) int
}

// CleanupWorker по расписанию удаляет истёкшие сессии и простаивающие рабочие пространства.
type CleanupWorker struct {
	cron     *cron.Cron
	purger   SessionPurger
	sweeper  WorkspaceSweeper
	interval time.Duration
	idle     time.Duration
	now      func() time.Time
}

type Option func(*CleanupWorker)

func WithInterval(d time.Duration) Option {
	return func(w *CleanupWorker) {
		if d > 0 {
			w.interval = d
		}
	}
}

func WithIdleTTL(d time.Duration) Option {
	return func(w *CleanupWorker) {
		if d > 0 {
			w.idle = d
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(w *CleanupWorker) {
		w.now = now
	}
}

func NewCleanupWorker(purger SessionPurger, sweeper WorkspaceSweeper, opts ...Option) *CleanupWorker {
	w := &CleanupWorker{
		purger:   purger,
		sweeper:  sweeper,
		interval: 5 * time.Minute,
		idle:     24 * time.Hour,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(w)
	}

	log := cronLogger{}
	w.cron = cron.New(cron.WithChain(
		cron.Recover(log),
		cron.SkipIfStillRunning(log),
	), cron.WithLogger(log))
	return w
}

// Start блокируется до отмены ctx и дожидается выполняющихся задач.
func (w *CleanupWorker) Start(ctx context.Context) error {
	spec := fmt.Sprintf("@every %s", w.interval)

	if _, err := w.cron.AddFunc(spec, func() { w.PurgeSessions(ctx) }); err != nil {
		return fmt.Errorf("регистрация очистки сессий: %w", err)
	}
	if _, err := w.cron.AddFunc(spec, func() { w.SweepWorkspaces() }); err != nil {
		return fmt.Errorf("регистрация очистки рабочих пространств: %w", err)
	}

	w.cron.Start()
	logger.Info("Worker: Фоновая очистка запущена", zap.Duration("interval", w.interval))

	<-ctx.Done()
	logger.Info("Worker: Фоновая очистка останавливается")
	<-w.cron.Stop().Done()
	return nil
}

func (w *CleanupWorker) PurgeSessions(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	start := time.Now()

	removed, err := w.purger.PurgeExpired(ctx, w.now())
	if err != nil {
		logger.Warn("Worker: Ошибка очистки сессий", zap.Error(err))
		return
	}

	logger.Info("Worker: Завершение очистки сессий",
		zap.Duration("ms", time.Since(start)),
		zap.Int("expired", removed),
	)
}

func (w *CleanupWorker) SweepWorkspaces() {
	start := time.Now()
	evicted := w.sweeper.Sweep(w.idle)

	logger.Info("Worker: Завершение очистки рабочих пространств",
		zap.Duration("ms", time.Since(start)),
		zap.Int("evicted", evicted),
	)
}

// cronLogger направляет сообщения планировщика в общий zap логгер.
type cronLogger struct{}

func (cronLogger) Info(msg string, keysAndValues ...interface{}) {
	logger.Logger.Sugar().Debugw("Worker: "+msg, keysAndValues...)
}

func (cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	logger.Logger.Sugar().Errorw("Worker: "+msg, append(keysAndValues, "error", err)...)
}
