package scheduler

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForAtLeast(t *testing.T, counter *int64, expected int64, timeout time.Duration) {
	t.Helper()

	require.Eventually(t, func() bool {
		return atomic.LoadInt64(counter) >= expected
	}, timeout, 10*time.Millisecond, "значение счётчика не достигло ожидаемого уровня")
}

// syncBuffer защищает буфер логов от гонок между задачами и тестом.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func newTestLogger() (*slog.Logger, *syncBuffer) {
	buf := &syncBuffer{}
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}

func TestScheduler_New(t *testing.T) {
	s := New(Config{})

	assert.NotNil(t, s.cron)
	assert.NotNil(t, s.logger, "без логгера используется slog.Default")
}

func TestScheduler_AddCronJob(t *testing.T) {
	s := New(Config{})
	defer func() { _ = s.Stop(context.Background()) }()

	var counter int64
	_, err := s.AddCronJob("@every 1s", JobOptions{Name: "count"}, func(ctx context.Context) error {
		atomic.AddInt64(&counter, 1)
		return nil
	})
	require.NoError(t, err)

	s.Start()

	waitForAtLeast(t, &counter, 1, 3*time.Second)
}

func TestScheduler_AddCronJobInvalid(t *testing.T) {
	s := New(Config{})

	_, err := s.AddCronJob("invalid schedule", JobOptions{Name: "bad"}, func(ctx context.Context) error { return nil })
	require.Error(t, err)
	assert.Contains(t, err.Error(), `failed to add cron job "bad"`)

	_, err = s.AddCronJob("@every 1s", JobOptions{Name: "nil"}, nil)
	assert.Error(t, err)
}

func TestScheduler_JobErrorAndPanic(t *testing.T) {
	logger, buf := newTestLogger()
	s := New(Config{Logger: logger})
	defer func() { _ = s.Stop(context.Background()) }()

	var failed, panicked int64
	_, err := s.AddCronJob("@every 1s", JobOptions{Name: "failing"}, func(ctx context.Context) error {
		atomic.AddInt64(&failed, 1)
		return errors.New("test error")
	})
	require.NoError(t, err)
	_, err = s.AddCronJob("@every 1s", JobOptions{Name: "panicking"}, func(ctx context.Context) error {
		atomic.AddInt64(&panicked, 1)
		panic("boom")
	})
	require.NoError(t, err)

	s.Start()

	waitForAtLeast(t, &failed, 2, 4*time.Second)
	waitForAtLeast(t, &panicked, 2, 4*time.Second)

	logs := buf.String()
	assert.Contains(t, logs, "job failed")
	assert.Contains(t, logs, "job panicked")
}

func TestScheduler_JobTimeout(t *testing.T) {
	s := New(Config{})
	defer func() { _ = s.Stop(context.Background()) }()

	deadlines := make(chan error, 1)
	_, err := s.AddCronJob("@every 1s", JobOptions{Name: "slow", Timeout: 50 * time.Millisecond}, func(ctx context.Context) error {
		<-ctx.Done()
		select {
		case deadlines <- ctx.Err():
		default:
		}
		return ctx.Err()
	})
	require.NoError(t, err)

	s.Start()

	select {
	case err := <-deadlines:
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	case <-time.After(3 * time.Second):
		t.Fatal("задача не получила таймаут")
	}
}

func TestScheduler_SkipIfRunning(t *testing.T) {
	logger, buf := newTestLogger()
	s := New(Config{Logger: logger})

	var runs int64
	release := make(chan struct{})
	_, err := s.AddCronJob("* * * * * *", JobOptions{Name: "long", OverlapPolicy: SkipIfRunning}, func(ctx context.Context) error {
		atomic.AddInt64(&runs, 1)
		select {
		case <-release:
		case <-ctx.Done():
		}
		return nil
	})
	require.NoError(t, err)

	s.Start()

	waitForAtLeast(t, &runs, 1, 3*time.Second)
	require.Eventually(t, func() bool {
		return bytes.Contains([]byte(buf.String()), []byte("skipping job execution"))
	}, 4*time.Second, 20*time.Millisecond)

	assert.Equal(t, int64(1), atomic.LoadInt64(&runs), "пока задача выполняется, новые запуски пропускаются")

	close(release)
	require.NoError(t, s.Stop(context.Background()))
}

func TestScheduler_StopIdempotent(t *testing.T) {
	s := New(Config{})
	s.Start()
	s.Start()

	assert.NoError(t, s.Stop(context.Background()))
	assert.NoError(t, s.Stop(context.Background()))
}

func TestScheduler_StopDeadline(t *testing.T) {
	s := New(Config{})

	started := make(chan struct{})
	var once sync.Once
	_, err := s.AddCronJob("* * * * * *", JobOptions{Name: "blocking"}, func(ctx context.Context) error {
		once.Do(func() { close(started) })
		<-ctx.Done()
		return ctx.Err()
	})
	require.NoError(t, err)

	s.Start()

	select {
	case <-started:
	case <-time.After(3 * time.Second):
		t.Fatal("задача не запустилась")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	err = s.Stop(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

type fakePruner struct {
	before time.Time
	n      int64
	err    error
}

func (p *fakePruner) Prune(_ context.Context, before time.Time) (int64, error) {
	p.before = before
	return p.n, p.err
}

func TestPruneJob(t *testing.T) {
	now := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }

	t.Run("deletes entries older than retention", func(t *testing.T) {
		logger, buf := newTestLogger()
		p := &fakePruner{n: 3}

		err := PruneJob(p, 24*time.Hour, clock, logger)(context.Background())
		require.NoError(t, err)

		assert.Equal(t, now.Add(-24*time.Hour), p.before)
		assert.Contains(t, buf.String(), "journal pruned")
		assert.Contains(t, buf.String(), "removed=3")
	})

	t.Run("nothing to prune is silent", func(t *testing.T) {
		logger, buf := newTestLogger()

		err := PruneJob(&fakePruner{}, time.Hour, clock, logger)(context.Background())
		require.NoError(t, err)
		assert.Empty(t, buf.String())
	})

	t.Run("storage error is wrapped", func(t *testing.T) {
		storeErr := errors.New("disk I/O error")

		err := PruneJob(&fakePruner{err: storeErr}, time.Hour, clock, nil)(context.Background())
		require.Error(t, err)
		assert.ErrorIs(t, err, storeErr)
		assert.Contains(t, err.Error(), "failed to prune journal")
	})
}
