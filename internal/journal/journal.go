// Package journal persists error renderings so developers can inspect them later.
package journal

import (
	"context"
	"database/sql"
	"embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/studtool/c-errs/internal/platform/sqlite"
	"github.com/studtool/c-errs/pkg/errs"
	"github.com/studtool/c-errs/pkg/retry"
)

//go:embed migrations/*.sql
var migrations embed.FS

// DefaultLimit is used by Recent when the caller passes a non-positive limit.
const DefaultLimit = 50

// ErrReleased indicates an attempt to record a value that was already released.
var ErrReleased = errors.New("journal: value already released")

// Entry is a stored rendering.
type Entry struct {
	ID        int64     `json:"id"`
	Incident  string    `json:"incident"`
	Kind      errs.Kind `json:"kind"`
	Code      int8      `json:"code"`
	Message   string    `json:"message"`
	Rendered  string    `json:"rendered"`
	CreatedAt time.Time `json:"created_at"`
}

// Journal stores entries in SQLite.
type Journal struct {
	db    *sql.DB
	now   func() time.Time
	newID func() string
	retry retry.Config
}

// Option configures a Journal.
type Option func(*Journal)

// WithLogger logs writes retried on a locked database at DEBUG.
func WithLogger(log *slog.Logger) Option {
	return func(j *Journal) {
		j.retry.OnRetry = func(attempt int, err error, next time.Duration) {
			log.Debug("journal write busy, retrying", "attempt", attempt, "delay", next, "error", err)
		}
	}
}

// New creates a journal on top of db. The schema must already be migrated.
func New(db *sql.DB, opts ...Option) *Journal {
	j := &Journal{
		db:    db,
		now:   time.Now,
		newID: uuid.NewString,
		retry: retry.DefaultConfig(),
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// Migrate applies the journal schema to db.
func Migrate(db *sql.DB) error {
	if err := sqlite.ApplyMigrations(db, migrations, "migrations"); err != nil {
		return fmt.Errorf("failed to migrate journal: %w", err)
	}
	return nil
}

// SchemaVersion reports the applied journal schema version and whether the
// last migration left it dirty.
func SchemaVersion(db *sql.DB) (uint, bool, error) {
	version, dirty, err := sqlite.MigrationVersion(db, migrations, "migrations")
	if err != nil {
		return 0, false, fmt.Errorf("failed to read journal schema version: %w", err)
	}
	return version, dirty, nil
}

// Record stores v under a fresh incident ID. The caller keeps ownership of v.
func (j *Journal) Record(ctx context.Context, v *errs.Value) (Entry, error) {
	if v.Released() {
		return Entry{}, ErrReleased
	}

	e := Entry{
		Incident:  j.newID(),
		Kind:      v.Kind(),
		Code:      v.Code(),
		Message:   v.Message(),
		Rendered:  v.Rendered(),
		CreatedAt: j.now().UTC(),
	}

	res, err := j.exec(ctx,
		`INSERT INTO entries (incident, kind, code, message, rendered, created_at) VALUES (?, ?, ?, ?, ?, ?)`,
		e.Incident, int(e.Kind), int(e.Code), e.Message, e.Rendered, e.CreatedAt.UnixNano(),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("failed to insert journal entry: %w", err)
	}
	if e.ID, err = res.LastInsertId(); err != nil {
		return Entry{}, fmt.Errorf("failed to read journal entry id: %w", err)
	}
	return e, nil
}

// Recent returns up to limit entries, newest first.
func (j *Journal) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	rows, err := j.db.QueryContext(ctx,
		`SELECT id, incident, kind, code, message, rendered, created_at
		 FROM entries ORDER BY created_at DESC, id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0, limit)
	for rows.Next() {
		var (
			e          Entry
			kind, code int
			createdAt  int64
		)
		if err := rows.Scan(&e.ID, &e.Incident, &kind, &code, &e.Message, &e.Rendered, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		e.Kind = errs.Kind(kind)
		e.Code = int8(code)
		e.CreatedAt = time.Unix(0, createdAt).UTC()
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate journal: %w", err)
	}
	return entries, nil
}

// Prune deletes entries created before the given time and reports how many were removed.
func (j *Journal) Prune(ctx context.Context, before time.Time) (int64, error) {
	res, err := j.exec(ctx, `DELETE FROM entries WHERE created_at < ?`, before.UnixNano())
	if err != nil {
		return 0, fmt.Errorf("failed to prune journal: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to count pruned entries: %w", err)
	}
	return n, nil
}

// exec retries writes that hit a locked database.
func (j *Journal) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	var res sql.Result
	err := retry.Do(ctx, j.retry, func(ctx context.Context) error {
		var err error
		res, err = j.db.ExecContext(ctx, query, args...)
		return err
	}, sqlite.IsBusy)
	return res, err
}
