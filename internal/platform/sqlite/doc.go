// Package sqlite предоставляет инфраструктурные компоненты для работы с SQLite.
//
// Основные возможности:
// - Открытие БД с настройками пула и PRAGMA для каждого соединения
// - In-memory БД для тестов
// - Миграции из встроенной (embed) файловой системы через golang-migrate
// - Тестовые хелперы
//
// # Быстрый старт
//
//	db, err := sqlite.Open(ctx, "data/journal.db", sqlite.DefaultOptions())
//	if err != nil {
//		return err
//	}
//	defer db.Close()
//
// # Миграции
//
// Миграции хранятся рядом с пакетом-владельцем схемы и встраиваются через embed:
//
//	//go:embed migrations/*.sql
//	var migrations embed.FS
//
//	if err := sqlite.ApplyMigrations(db, migrations, "migrations"); err != nil {
//		return err
//	}
//
// Повторный вызов безопасен: если новых миграций нет, ошибки не будет.
//
// # Тестирование
//
//	func TestSomething(t *testing.T) {
//		tdb := sqlite.NewTestDBInMemory(t)
//		tdb.Exec(t, "CREATE TABLE t (id INTEGER PRIMARY KEY)")
//		assert.Equal(t, 0, tdb.CountRows(t, "t"))
//	}
package sqlite
