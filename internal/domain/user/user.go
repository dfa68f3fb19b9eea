package user

import (
	"context"
	"errors"
	"strings"
)

var ErrEmptyName = errors.New("name cannot be empty")

// User is the profile of the budget owner. Budget fields live elsewhere and
// are never changed by a profile update.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	ImageURL string `json:"imageUrl"`
}

// ProfileUpdate carries the fields a caller may change; nil means unchanged.
type ProfileUpdate struct {
	Name     *string
	Email    *string
	ImageURL *string
}

// Apply returns a copy of u with the update applied.
func (u User) Apply(upd ProfileUpdate) (User, error) {
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if name == "" {
			return u, ErrEmptyName
		}
		u.Name = name
	}
	if upd.Email != nil {
		u.Email = strings.TrimSpace(*upd.Email)
	}
	if upd.ImageURL != nil {
		u.ImageURL = strings.TrimSpace(*upd.ImageURL)
	}
	return u, nil
}

// Repository stores user profiles
type Repository interface {
	GetByID(ctx context.Context, id string) (User, error)
	Save(ctx context.Context, u User) error
}

// ErrUserNotFound indicates a missing profile
type ErrUserNotFound struct {
	UserID string
}

func (e ErrUserNotFound) Error() string {
	return "user not found: " + e.UserID
}

// Is implements the errors.Is interface for ErrUserNotFound
func (e ErrUserNotFound) Is(target error) bool {
	t, ok := target.(ErrUserNotFound)
	if !ok {
		return false
	}
	return t.UserID == "" || t.UserID == e.UserID
}
