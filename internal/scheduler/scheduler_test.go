package scheduler

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubProcessor struct {
	mu    sync.Mutex
	calls []time.Time
	count int
	err   error
}

func (p *stubProcessor) ProcessDue(ctx context.Context, now time.Time) (int, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := ctx.Deadline(); !ok {
		return 0, errors.New("missing deadline")
	}
	p.calls = append(p.calls, now)
	return p.count, p.err
}

func (p *stubProcessor) Calls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.calls)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func waitStopped(t *testing.T, s *Scheduler) {
	t.Helper()
	select {
	case <-s.Stop().Done():
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop")
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "0 * * * * *", cfg.Schedule)
	assert.Equal(t, 2*time.Minute, cfg.Timeout)
	assert.True(t, cfg.Enabled)
}

func TestNew_DefaultsTimeoutAndLogger(t *testing.T) {
	s := New(Config{Schedule: "0 * * * * *"}, &stubProcessor{}, nil)

	assert.Equal(t, DefaultConfig().Timeout, s.config.Timeout)
	assert.NotNil(t, s.logger)
}

func TestStart_Disabled(t *testing.T) {
	s := New(Config{Schedule: "0 * * * * *", Enabled: false}, &stubProcessor{}, quietLogger())

	require.NoError(t, s.Start())
	assert.False(t, s.IsRunning())
	assert.True(t, s.NextRunTime().IsZero())
}

func TestStart_InvalidSchedule(t *testing.T) {
	s := New(Config{Schedule: "every minute", Enabled: true}, &stubProcessor{}, quietLogger())

	assert.Error(t, s.Start())
	assert.False(t, s.IsRunning())
}

func TestStart_RunsOnSchedule(t *testing.T) {
	proc := &stubProcessor{count: 2}
	s := New(Config{Schedule: "* * * * * *", Timeout: time.Second, Enabled: true}, proc, quietLogger())

	require.NoError(t, s.Start())
	assert.True(t, s.IsRunning())
	assert.False(t, s.NextRunTime().IsZero())

	require.Eventually(t, func() bool { return proc.Calls() > 0 }, 3*time.Second, 20*time.Millisecond)

	waitStopped(t, s)
	assert.False(t, s.IsRunning())
}

func TestRunNow(t *testing.T) {
	fixed := time.Date(2024, time.March, 1, 12, 0, 0, 0, time.UTC)
	proc := &stubProcessor{err: errors.New("database unavailable")}
	s := New(Config{Schedule: "0 0 0 1 1 *", Timeout: time.Second, Enabled: true}, proc, quietLogger())
	s.now = func() time.Time { return fixed }

	assert.True(t, s.LastRunTime().IsZero())

	s.RunNow()
	waitStopped(t, s)

	require.Equal(t, 1, proc.Calls())
	assert.True(t, proc.calls[0].Equal(fixed))
	assert.True(t, s.LastRunTime().Equal(fixed))
}

func TestRunNow_AfterStop(t *testing.T) {
	proc := &stubProcessor{}
	s := New(Config{Schedule: "0 0 0 1 1 *", Timeout: time.Second, Enabled: true}, proc, quietLogger())
	require.NoError(t, s.Start())

	waitStopped(t, s)
	s.RunNow()
	waitStopped(t, s)

	assert.Equal(t, 0, proc.Calls())
	assert.True(t, s.LastRunTime().IsZero())
}

func TestRunNow_ConcurrentWithStop(t *testing.T) {
	proc := &stubProcessor{}
	s := New(Config{Schedule: "0 0 0 1 1 *", Timeout: time.Second, Enabled: true}, proc, quietLogger())
	require.NoError(t, s.Start())

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.RunNow()
		}()
	}
	waitStopped(t, s)
	wg.Wait()

	// Every pass admitted before Stop has finished by the time Stop reports done.
	calls := proc.Calls()
	waitStopped(t, s)
	assert.Equal(t, calls, proc.Calls())
}
