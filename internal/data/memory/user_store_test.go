package memory

import (
	"context"
	"testing"

	"github.com/portfolio-ledger/internal/domain/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserStore(t *testing.T) {
	ctx := context.Background()
	store := NewUserStore(user.User{ID: "user1", Name: "John Doe"})

	got, err := store.GetByID(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, "John Doe", got.Name)

	_, err = store.GetByID(ctx, "user2")
	assert.ErrorIs(t, err, user.ErrUserNotFound{UserID: "user2"})

	got.Email = "john@example.com"
	require.NoError(t, store.Save(ctx, got))

	saved, err := store.GetByID(ctx, "user1")
	require.NoError(t, err)
	assert.Equal(t, "john@example.com", saved.Email)
}
