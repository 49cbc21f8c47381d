package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/attune-labs/attune-agent/internal/domain"
)

type CheckInStore struct {
	mu       sync.RWMutex
	checkins map[domain.UserID][]*domain.CheckIn
}

func NewCheckInStore() *CheckInStore {
	return &CheckInStore{checkins: make(map[domain.UserID][]*domain.CheckIn)}
}

func (s *CheckInStore) AppendCheckIn(_ context.Context, c *domain.CheckIn) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *c
	s.checkins[c.UserID] = append(s.checkins[c.UserID], &cp)
	return nil
}

func (s *CheckInStore) LatestCheckIn(_ context.Context, userID domain.UserID, isResponse bool) (*domain.CheckIn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *domain.CheckIn
	for _, c := range s.checkins[userID] {
		if c.IsResponse != isResponse {
			continue
		}
		if latest == nil || c.CreatedAt.After(latest.CreatedAt) {
			latest = c
		}
	}
	if latest == nil {
		return nil, nil
	}
	cp := *latest
	return &cp, nil
}

func (s *CheckInStore) ListCheckIns(_ context.Context, userID domain.UserID, limit int) ([]*domain.CheckIn, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.CheckIn
	for _, c := range s.checkins[userID] {
		cp := *c
		out = append(out, &cp)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}
