package memory

import (
	"context"
	"sync"

	"github.com/portfolio-ledger/internal/domain/user"
)

// UserStore keeps user profiles in process memory
type UserStore struct {
	mu    sync.RWMutex
	users map[string]user.User
}

func NewUserStore(users ...user.User) *UserStore {
	s := &UserStore{users: make(map[string]user.User, len(users))}
	for _, u := range users {
		s.users[u.ID] = u
	}
	return s
}

var _ user.Repository = (*UserStore)(nil)

func (s *UserStore) GetByID(_ context.Context, id string) (user.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound{UserID: id}
	}
	return u, nil
}

func (s *UserStore) Save(_ context.Context, u user.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
	return nil
}
