package memory

import (
	"context"
	"errors"
	"sync"

	"github.com/attune-labs/attune-agent/internal/domain"
)

var ErrNotFound = errors.New("not found")

type UserStore struct {
	mu    sync.RWMutex
	users map[domain.UserID]*domain.User
}

func NewUserStore() *UserStore {
	return &UserStore{users: make(map[domain.UserID]*domain.User)}
}

func (s *UserStore) CreateUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.ID]; exists {
		return errors.New("user already exists")
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *UserStore) UpdateUser(_ context.Context, user *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.users[user.ID]; !exists {
		return ErrNotFound
	}
	cp := *user
	s.users[user.ID] = &cp
	return nil
}

func (s *UserStore) GetUser(_ context.Context, id domain.UserID) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *UserStore) ListActiveUsers(_ context.Context) ([]*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.User
	for _, u := range s.users {
		if u.Active {
			cp := *u
			out = append(out, &cp)
		}
	}
	return out, nil
}

func (s *UserStore) ListUsers(_ context.Context) ([]*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.User
	for _, u := range s.users {
		cp := *u
		out = append(out, &cp)
	}
	return out, nil
}
