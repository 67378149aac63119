// Package scheduler runs background maintenance jobs on cron schedules.
//
// Features:
//   - Cron-style scheduling using github.com/robfig/cron/v3 (seconds field enabled)
//   - Per-job timeouts and named jobs
//   - Skip-if-running overlap policy
//   - Panic recovery and structured logging with slog
//   - Graceful shutdown with a deadline
//
// Basic usage:
//
//	s := scheduler.New(scheduler.Config{Logger: logger})
//
//	_, err := s.AddCronJob("@every 1h", scheduler.JobOptions{
//		Name:          "journal-prune",
//		Timeout:       time.Minute,
//		OverlapPolicy: scheduler.SkipIfRunning,
//	}, scheduler.PruneJob(journal, 30*24*time.Hour, nil, logger))
//	if err != nil {
//		return err
//	}
//
//	s.Start()
//	defer s.Stop(ctx)
package scheduler
