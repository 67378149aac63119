package sqlite

import "strings"

// IsBusy проверяет, является ли ошибка SQLITE_BUSY или SQLITE_LOCKED.
func IsBusy(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	return strings.Contains(errStr, "database is locked") ||
		strings.Contains(errStr, "SQLITE_BUSY") ||
		strings.Contains(errStr, "database table is locked")
}
