// Package retry repeats short operations that fail with transient errors,
// using exponential backoff.
//
// Basic usage:
//
//	err := retry.Do(ctx, retry.DefaultConfig(), func(ctx context.Context) error {
//		_, err := db.ExecContext(ctx, query, args...)
//		return err
//	}, sqlite.IsBusy)
//
// Errors the predicate rejects are returned as is. When every attempt fails,
// the result is a *RetriesExceededError that unwraps to the last error.
package retry
