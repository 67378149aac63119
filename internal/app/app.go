package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/studtool/c-errs/internal/adapter/httpapi"
	"github.com/studtool/c-errs/internal/adapter/scheduler"
	"github.com/studtool/c-errs/internal/config"
	"github.com/studtool/c-errs/internal/journal"
	"github.com/studtool/c-errs/internal/platform/logger"
	"github.com/studtool/c-errs/internal/platform/sqlite"
)

const shutdownTimeout = 5 * time.Second

// App wires application components.
type App struct {
	cfg   config.Config
	log   *slog.Logger
	db    *sql.DB
	srv   *http.Server
	sched *scheduler.Scheduler
}

// New loads configuration, opens the journal and builds the HTTP server and scheduler.
func New() (*App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	log := logger.New(logger.Options{
		Env:          cfg.Env,
		ConsoleLevel: cfg.Log.ConsoleLevel,
		FileLevel:    cfg.Log.FileLevel,
		File:         cfg.Log.File,
		App:          "errsd",
	})

	ctx := context.Background()
	db, err := sqlite.Open(ctx, cfg.Journal.Path, sqlite.DefaultOptions())
	if err != nil {
		_ = logger.Close(log)
		return nil, err
	}
	if err := journal.Migrate(db); err != nil {
		_ = db.Close()
		_ = logger.Close(log)
		return nil, err
	}
	version, _, err := journal.SchemaVersion(db)
	if err != nil {
		_ = db.Close()
		_ = logger.Close(log)
		return nil, err
	}
	log.Info("journal ready", "path", cfg.Journal.Path, "schema_version", version)
	j := journal.New(db, journal.WithLogger(log.With("component", "journal")))

	sched := scheduler.New(scheduler.Config{Logger: log.With("component", "scheduler")})
	_, err = sched.AddCronJob(cfg.Journal.PruneSchedule, scheduler.JobOptions{
		Name:          "journal-prune",
		Timeout:       time.Minute,
		OverlapPolicy: scheduler.SkipIfRunning,
	}, scheduler.PruneJob(j, cfg.Journal.Retention, nil, log))
	if err != nil {
		_ = db.Close()
		_ = logger.Close(log)
		return nil, err
	}

	router := httpapi.NewRouter(httpapi.Deps{
		Log:     log.With("component", "http"),
		Journal: j,
		Render:  cfg.RenderOptions(),
	})

	return &App{
		cfg:   cfg,
		log:   log,
		db:    db,
		srv:   &http.Server{Addr: cfg.HTTP.Addr, Handler: router, ReadHeaderTimeout: 10 * time.Second},
		sched: sched,
	}, nil
}

// Run serves HTTP until SIGINT or SIGTERM, then shuts down gracefully.
func (a *App) Run() error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	return a.serve(ctx)
}

func (a *App) serve(ctx context.Context) error {
	a.log.Info("starting", "addr", a.cfg.HTTP.Addr, "env", a.cfg.Env)
	a.sched.Start()

	errCh := make(chan error, 1)
	go func() {
		if err := a.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	var serveErr error
	select {
	case <-ctx.Done():
	case serveErr = <-errCh:
		if serveErr != nil {
			a.log.Error("server", slog.Any("err", serveErr))
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := a.srv.Shutdown(shutdownCtx); err != nil {
		serveErr = errors.Join(serveErr, fmt.Errorf("failed to shut down http server: %w", err))
	}
	if err := a.sched.Stop(shutdownCtx); err != nil {
		serveErr = errors.Join(serveErr, fmt.Errorf("failed to stop scheduler: %w", err))
	}
	a.log.Info("stopped")
	return serveErr
}

// Close releases the database and the log file.
func (a *App) Close() error {
	var err error
	if cerr := a.db.Close(); cerr != nil {
		err = fmt.Errorf("failed to close journal database: %w", cerr)
	}
	return errors.Join(err, logger.Close(a.log))
}
