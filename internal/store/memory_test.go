package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heybanco/spendcast/backend/internal/model"
)

func TestMemoryStoreUsers(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	user := &model.User{ClientID: "c1", PasswordHash: "hash", CreatedAt: time.Now().UTC()}
	require.NoError(t, m.CreateUser(ctx, user))

	t.Run("create duplicate", func(t *testing.T) {
		assert.ErrorIs(t, m.CreateUser(ctx, user), ErrAlreadyExists)
	})

	t.Run("get returns a copy", func(t *testing.T) {
		got, err := m.GetUser(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, "hash", got.PasswordHash)

		got.PasswordHash = "mutated"
		again, err := m.GetUser(ctx, "c1")
		require.NoError(t, err)
		assert.Equal(t, "hash", again.PasswordHash)
	})

	t.Run("get missing", func(t *testing.T) {
		_, err := m.GetUser(ctx, "ghost")
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMemoryStoreSessionTokens(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	tok := &model.SessionToken{Token: "t1", ClientID: "c1", CreatedAt: time.Now().UTC()}
	require.NoError(t, m.CreateSessionToken(ctx, tok))

	t.Run("get", func(t *testing.T) {
		got, err := m.GetSessionToken(ctx, "t1")
		require.NoError(t, err)
		assert.Equal(t, "c1", got.ClientID)
	})

	t.Run("create duplicate", func(t *testing.T) {
		assert.ErrorIs(t, m.CreateSessionToken(ctx, tok), ErrAlreadyExists)
	})

	t.Run("delete then get", func(t *testing.T) {
		require.NoError(t, m.DeleteSessionToken(ctx, "t1"))
		_, err := m.GetSessionToken(ctx, "t1")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run("delete missing", func(t *testing.T) {
		assert.ErrorIs(t, m.DeleteSessionToken(ctx, "ghost"), ErrNotFound)
	})
}
