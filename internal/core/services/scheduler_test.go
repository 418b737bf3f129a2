package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lankadocs/gazette-cli/internal/adapters/driven/storage/memory"
	"github.com/lankadocs/gazette-cli/internal/core/domain"
	"github.com/lankadocs/gazette-cli/internal/core/ports/driving"
)

type fakeSyncService struct {
	mu    sync.Mutex
	calls int
	err   error
	state domain.SyncState
}

var _ driving.SyncService = (*fakeSyncService)(nil)

func (f *fakeSyncService) Sync(ctx context.Context, force bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func (f *fakeSyncService) State() domain.SyncState {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeSyncService) Events() <-chan domain.SyncProgress { return nil }

func (f *fakeSyncService) MarkSeen(ctx context.Context, _ []string) error { return nil }

func (f *fakeSyncService) MarkAllSeen(ctx context.Context) error { return nil }

func (f *fakeSyncService) Start(ctx context.Context) error { return nil }

func (f *fakeSyncService) Stop() error { return nil }

func (f *fakeSyncService) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func dueTask() *domain.ScheduledTask {
	return &domain.ScheduledTask{
		ID:       domain.TaskIDDocumentSync,
		Name:     "Document Sync",
		Interval: time.Hour,
		Enabled:  true,
		// Zero NextRun means due immediately.
	}
}

func startScheduler(t *testing.T, s *Scheduler) {
	t.Helper()
	go func() {
		_ = s.Start(context.Background())
	}()
	t.Cleanup(func() { _ = s.Stop() })
}

func TestSchedulerInitialisesTask(t *testing.T) {
	store := memory.NewSchedulerStore()
	s := NewScheduler(domain.DefaultSchedulerConfig(), store, &fakeSyncService{})

	startScheduler(t, s)

	require.Eventually(t, func() bool {
		task, err := store.GetTask(context.Background(), domain.TaskIDDocumentSync)
		return err == nil && task != nil
	}, time.Second, 5*time.Millisecond)

	task, err := store.GetTask(context.Background(), domain.TaskIDDocumentSync)
	require.NoError(t, err)
	assert.Equal(t, domain.RefreshInterval, task.Interval)
	assert.True(t, task.Enabled)
	assert.False(t, task.NextRun.IsZero())
}

func TestSchedulerRunsDueTask(t *testing.T) {
	store := memory.NewSchedulerStore()
	require.NoError(t, store.SaveTask(context.Background(), dueTask()))

	syncSvc := &fakeSyncService{
		state: domain.SyncState{Stats: domain.SyncStats{Normalised: 7}},
	}
	s := NewScheduler(domain.DefaultSchedulerConfig(), store, syncSvc)

	startScheduler(t, s)

	require.Eventually(t, func() bool { return syncSvc.callCount() >= 1 },
		time.Second, 5*time.Millisecond)
	require.NoError(t, s.Stop())

	task, err := store.GetTask(context.Background(), domain.TaskIDDocumentSync)
	require.NoError(t, err)
	assert.True(t, task.NextRun.After(task.LastRun))
	assert.Empty(t, task.LastError)
	assert.False(t, task.LastSuccess.IsZero())

	history, err := store.GetTaskHistory(context.Background(), domain.TaskIDDocumentSync, 10)
	require.NoError(t, err)
	require.NotEmpty(t, history)
	assert.True(t, history[0].Success)
	assert.NotEmpty(t, history[0].ID)
	assert.Equal(t, 7, history[0].ItemsProcessed)
}

func TestSchedulerRecordsFailure(t *testing.T) {
	store := memory.NewSchedulerStore()
	require.NoError(t, store.SaveTask(context.Background(), dueTask()))

	syncSvc := &fakeSyncService{err: errors.New("sources down")}
	s := NewScheduler(domain.DefaultSchedulerConfig(), store, syncSvc)

	startScheduler(t, s)

	require.Eventually(t, func() bool { return syncSvc.callCount() >= 1 },
		time.Second, 5*time.Millisecond)
	require.NoError(t, s.Stop())

	task, err := store.GetTask(context.Background(), domain.TaskIDDocumentSync)
	require.NoError(t, err)
	assert.Equal(t, "sources down", task.LastError)
	// Failure still reschedules.
	assert.True(t, task.NextRun.After(task.LastRun))

	history, err := store.GetTaskHistory(context.Background(), domain.TaskIDDocumentSync, 10)
	require.NoError(t, err)
	require.NotEmpty(t, history)
	assert.False(t, history[0].Success)
}

func TestSchedulerSkipsDisabledTask(t *testing.T) {
	store := memory.NewSchedulerStore()
	task := dueTask()
	task.Enabled = false
	require.NoError(t, store.SaveTask(context.Background(), task))

	cfg := domain.SchedulerConfig{
		Enabled: true,
		TaskConfigs: map[string]domain.TaskConfig{
			domain.TaskIDDocumentSync: {Enabled: false, Interval: time.Hour},
		},
	}
	syncSvc := &fakeSyncService{}
	s := NewScheduler(cfg, store, syncSvc)

	startScheduler(t, s)

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, syncSvc.callCount())
}

func TestSchedulerStopIsIdempotent(t *testing.T) {
	s := NewScheduler(domain.DefaultSchedulerConfig(), memory.NewSchedulerStore(), &fakeSyncService{})

	require.NoError(t, s.Stop())

	startScheduler(t, s)
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, s.Stop())
	require.NoError(t, s.Stop())
}
