package service

import (
	"context"
	"sync"

	"github.com/portfolio-ledger/internal/domain/budget"
	"github.com/portfolio-ledger/internal/domain/user"
	rsvc "github.com/portfolio-ledger/internal/reconciliation/service"
)

// UserServiceImpl serves the single configured user
type UserServiceImpl struct {
	mu     sync.Mutex
	userID string
	users  user.Repository
	engine rsvc.ReconciliationService
}

func NewUserService(userID string, users user.Repository, engine rsvc.ReconciliationService) UserService {
	return &UserServiceImpl{
		userID: userID,
		users:  users,
		engine: engine,
	}
}

func (s *UserServiceImpl) GetProfile(ctx context.Context) (Profile, error) {
	u, err := s.users.GetByID(ctx, s.userID)
	if err != nil {
		return Profile{}, err
	}
	return Profile{User: u, Budget: s.engine.Budget(ctx)}, nil
}

// UpdateProfile serializes read-modify-write so concurrent updates do not drop fields
func (s *UserServiceImpl) UpdateProfile(ctx context.Context, update user.ProfileUpdate) (Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current, err := s.users.GetByID(ctx, s.userID)
	if err != nil {
		return Profile{}, err
	}
	updated, err := current.Apply(update)
	if err != nil {
		return Profile{}, err
	}
	if err := s.users.Save(ctx, updated); err != nil {
		return Profile{}, err
	}
	return Profile{User: updated, Budget: s.engine.Budget(ctx)}, nil
}

func (s *UserServiceImpl) GetBudget(ctx context.Context) budget.Budget {
	return s.engine.Budget(ctx)
}
