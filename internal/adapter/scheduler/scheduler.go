package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// JobFunc представляет функцию задачи планировщика.
type JobFunc func(ctx context.Context) error

// JobID представляет идентификатор cron-задачи.
type JobID = cron.EntryID

// OverlapPolicy определяет политику обработки перекрывающихся выполнений задач.
type OverlapPolicy int

const (
	// AllowOverlap разрешает параллельное выполнение задач (по умолчанию).
	AllowOverlap OverlapPolicy = iota
	// SkipIfRunning пропускает выполнение, если задача уже запущена.
	SkipIfRunning
)

// JobOptions содержит опции для настройки задач.
type JobOptions struct {
	// Name - имя задачи для логирования.
	Name string
	// Timeout - максимальное время выполнения задачи (0 - без ограничения).
	Timeout time.Duration
	// OverlapPolicy - политика обработки перекрывающихся выполнений.
	OverlapPolicy OverlapPolicy
}

type jobWrapper struct {
	job     JobFunc
	options JobOptions
	running sync.Mutex
}

// cronLogger адаптер для интеграции cron logger с slog.
type cronLogger struct {
	logger *slog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.LogAttrs(context.Background(), slog.LevelDebug, msg, pairs(keysAndValues)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	attrs := append([]slog.Attr{slog.Any("error", err)}, pairs(keysAndValues)...)
	l.logger.LogAttrs(context.Background(), slog.LevelError, msg, attrs...)
}

func pairs(kv []any) []slog.Attr {
	attrs := make([]slog.Attr, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, ok := kv[i].(string)
		if !ok {
			key = fmt.Sprint(kv[i])
		}
		attrs = append(attrs, slog.Any(key, kv[i+1]))
	}
	return attrs
}

// Config содержит конфигурацию планировщика.
type Config struct {
	Logger *slog.Logger
}

// Scheduler запускает фоновые задачи обслуживания по cron-расписанию.
type Scheduler struct {
	cron      *cron.Cron
	logger    *slog.Logger
	ctx       context.Context
	cancel    context.CancelFunc
	startOnce sync.Once
	stopOnce  sync.Once
}

// New создает планировщик. Расписания поддерживают поле секунд и дескрипторы вида "@every 1h".
func New(cfg Config) *Scheduler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())

	return &Scheduler{
		cron: cron.New(
			cron.WithSeconds(),
			cron.WithLogger(cronLogger{logger: logger.With("component", "cron")}),
		),
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

// AddCronJob добавляет задачу по cron-расписанию.
// Примеры расписаний:
//   - "0 30 * * * *" - каждые 30 минут
//   - "@hourly" - каждый час
//   - "@every 5m" - каждые 5 минут
func (s *Scheduler) AddCronJob(schedule string, opts JobOptions, job JobFunc) (JobID, error) {
	if job == nil {
		return 0, fmt.Errorf("failed to add cron job %q: nil job", opts.Name)
	}
	wrapper := &jobWrapper{job: job, options: opts}

	id, err := s.cron.AddFunc(schedule, func() { s.run(wrapper) })
	if err != nil {
		return 0, fmt.Errorf("failed to add cron job %q: %w", opts.Name, err)
	}

	s.logger.Info("cron job added", "schedule", schedule, "name", opts.Name, "id", id)
	return id, nil
}

// Start запускает планировщик. Повторные вызовы игнорируются.
func (s *Scheduler) Start() {
	s.startOnce.Do(func() {
		s.logger.Info("starting scheduler")
		s.cron.Start()
	})
}

// Stop останавливает планировщик и ждет завершения выполняющихся задач.
// Если ctx истекает раньше, контекст задач отменяется и возвращается ctx.Err().
func (s *Scheduler) Stop(ctx context.Context) error {
	var err error
	s.stopOnce.Do(func() {
		s.logger.Info("stopping scheduler")
		done := s.cron.Stop()

		select {
		case <-done.Done():
		case <-ctx.Done():
			s.logger.Warn("scheduler stop deadline exceeded, cancelling jobs")
			s.cancel()
			<-done.Done()
			err = ctx.Err()
		}
		s.cancel()
		s.logger.Info("scheduler stopped")
	})
	return err
}

// run выполняет задачу с учетом её опций.
func (s *Scheduler) run(w *jobWrapper) {
	name := w.options.Name
	if name == "" {
		name = "unnamed"
	}

	if w.options.OverlapPolicy == SkipIfRunning {
		if !w.running.TryLock() {
			s.logger.Debug("skipping job execution, already running", "name", name)
			return
		}
		defer w.running.Unlock()
	}

	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("job panicked", "name", name, "panic", r)
		}
	}()

	ctx := s.ctx
	if w.options.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.options.Timeout)
		defer cancel()
	}

	start := time.Now()
	err := w.job(ctx)
	duration := time.Since(start)

	if err != nil {
		s.logger.Error("job failed", "name", name, "error", err, "duration", duration)
		return
	}
	s.logger.Debug("job completed", "name", name, "duration", duration)
}
