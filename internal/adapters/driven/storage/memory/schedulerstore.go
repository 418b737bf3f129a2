package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/lankadocs/gazette-cli/internal/core/domain"
	"github.com/lankadocs/gazette-cli/internal/core/ports/driven"
)

// SchedulerStore is an in-memory driven.SchedulerStore.
type SchedulerStore struct {
	mu      sync.Mutex
	tasks   map[string]domain.ScheduledTask
	results []domain.TaskResult
}

var _ driven.SchedulerStore = (*SchedulerStore)(nil)

// NewSchedulerStore creates an empty in-memory scheduler store.
func NewSchedulerStore() *SchedulerStore {
	return &SchedulerStore{tasks: make(map[string]domain.ScheduledTask)}
}

func (s *SchedulerStore) GetTask(ctx context.Context, taskID string) (*domain.ScheduledTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	task, ok := s.tasks[taskID]
	if !ok {
		return nil, nil
	}
	return &task, nil
}

func (s *SchedulerStore) ListTasks(ctx context.Context) ([]domain.ScheduledTask, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ScheduledTask, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *SchedulerStore) SaveTask(ctx context.Context, task *domain.ScheduledTask) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[task.ID] = *task
	return nil
}

func (s *SchedulerStore) DeleteTask(ctx context.Context, taskID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tasks, taskID)
	return nil
}

func (s *SchedulerStore) RecordResult(ctx context.Context, result *domain.TaskResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, *result)
	return nil
}

func (s *SchedulerStore) GetTaskHistory(ctx context.Context, taskID string, limit int) ([]domain.TaskResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []domain.TaskResult
	for _, r := range s.results {
		if r.TaskID == taskID {
			out = append(out, r)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartedAt.After(out[j].StartedAt) })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *SchedulerStore) PruneHistory(ctx context.Context, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	byTask := make(map[string][]domain.TaskResult)
	for _, r := range s.results {
		byTask[r.TaskID] = append(byTask[r.TaskID], r)
	}
	s.results = s.results[:0]
	for _, results := range byTask {
		sort.Slice(results, func(i, j int) bool { return results[i].StartedAt.After(results[j].StartedAt) })
		if len(results) > keep {
			results = results[:keep]
		}
		s.results = append(s.results, results...)
	}
	return nil
}
