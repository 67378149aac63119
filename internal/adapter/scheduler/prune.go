package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Pruner удаляет записи журнала, созданные раньше указанного момента.
type Pruner interface {
	Prune(ctx context.Context, before time.Time) (int64, error)
}

// PruneJob возвращает задачу, удаляющую записи старше retention.
// now подменяется в тестах; nil означает time.Now.
func PruneJob(p Pruner, retention time.Duration, now func() time.Time, logger *slog.Logger) JobFunc {
	if now == nil {
		now = time.Now
	}
	if logger == nil {
		logger = slog.Default()
	}

	return func(ctx context.Context) error {
		before := now().Add(-retention)
		n, err := p.Prune(ctx, before)
		if err != nil {
			return fmt.Errorf("failed to prune journal: %w", err)
		}
		if n > 0 {
			logger.InfoContext(ctx, "journal pruned", "removed", n, "before", before)
		}
		return nil
	}
}
