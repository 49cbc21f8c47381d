package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/attune-labs/attune-agent/internal/domain"
)

type TaskStore struct {
	mu    sync.RWMutex
	tasks map[domain.TaskID]*domain.Task
}

func NewTaskStore() *TaskStore {
	return &TaskStore{tasks: make(map[domain.TaskID]*domain.Task)}
}

func (s *TaskStore) CreateTask(_ context.Context, t *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[t.ID]; exists {
		return errors.New("task already exists")
	}
	cp := *t
	s.tasks[t.ID] = &cp
	return nil
}

func (s *TaskStore) UpdateTask(_ context.Context, t *domain.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.tasks[t.ID]; !exists {
		return ErrNotFound
	}
	cp := *t
	s.tasks[t.ID] = &cp
	return nil
}

func (s *TaskStore) GetTask(_ context.Context, id domain.TaskID) (*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *t
	return &cp, nil
}

func (s *TaskStore) ListTasks(_ context.Context, userID domain.UserID, statuses []domain.TaskStatus) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	wanted := make(map[domain.TaskStatus]bool, len(statuses))
	for _, st := range statuses {
		wanted[st] = true
	}

	var out []*domain.Task
	for _, t := range s.tasks {
		if t.UserID != userID {
			continue
		}
		if len(statuses) > 0 && !wanted[t.Status] {
			continue
		}
		cp := *t
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}
