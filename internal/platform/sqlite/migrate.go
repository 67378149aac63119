package sqlite

import (
	"database/sql"
	"errors"
	"fmt"
	"io/fs"

	migrate "github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database"
	sqlitemigrate "github.com/golang-migrate/migrate/v4/database/sqlite"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// newMigrate собирает экземпляр migrate поверх уже открытого *sql.DB
// и встроенной (embed) директории с миграциями.
//
// migrate.Close() закрыл бы и переданный *sql.DB, поэтому вызывающий
// освобождает только источник миграций.
func newMigrate(db *sql.DB, fsys fs.FS, dir string) (*migrate.Migrate, source.Driver, error) {
	src, err := iofs.New(fsys, dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open migrations source: %w", err)
	}

	var drv database.Driver
	drv, err = sqlitemigrate.WithInstance(db, &sqlitemigrate.Config{})
	if err != nil {
		_ = src.Close()
		return nil, nil, fmt.Errorf("failed to create migrate driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite", drv)
	if err != nil {
		_ = src.Close()
		return nil, nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, src, nil
}

// ApplyMigrations применяет все доступные миграции из fsys/dir.
// Функция безопасна для повторного вызова: migrate.ErrNoChange не считается ошибкой.
func ApplyMigrations(db *sql.DB, fsys fs.FS, dir string) error {
	m, src, err := newMigrate(db, fsys, dir)
	if err != nil {
		return err
	}
	defer func() { _ = src.Close() }()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("failed to apply migrations: %w", err)
	}
	return nil
}

// MigrationVersion возвращает текущую версию примененных миграций и флаг dirty.
// Если миграции еще не применялись, возвращается версия 0.
func MigrationVersion(db *sql.DB, fsys fs.FS, dir string) (uint, bool, error) {
	m, src, err := newMigrate(db, fsys, dir)
	if err != nil {
		return 0, false, err
	}
	defer func() { _ = src.Close() }()

	version, dirty, err := m.Version()
	if err != nil {
		if errors.Is(err, migrate.ErrNilVersion) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to get migration version: %w", err)
	}
	return version, dirty, nil
}
