package store

import (
	"context"
	"fmt"
	"sync"

	"github.com/heybanco/spendcast/backend/internal/model"
)

// MemoryStore implements Store with in-memory maps for local development and
// tests.
type MemoryStore struct {
	mu sync.RWMutex

	users  map[string]*model.User
	tokens map[string]*model.SessionToken
}

// NewMemoryStore creates a new in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:  make(map[string]*model.User),
		tokens: make(map[string]*model.SessionToken),
	}
}

func (m *MemoryStore) CreateUser(ctx context.Context, user *model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.users[user.ClientID]; ok {
		return fmt.Errorf("user %s: %w", user.ClientID, ErrAlreadyExists)
	}
	u := *user
	m.users[user.ClientID] = &u
	return nil
}

func (m *MemoryStore) GetUser(ctx context.Context, clientID string) (*model.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	u, ok := m.users[clientID]
	if !ok {
		return nil, fmt.Errorf("user %s: %w", clientID, ErrNotFound)
	}
	copied := *u
	return &copied, nil
}

func (m *MemoryStore) CreateSessionToken(ctx context.Context, token *model.SessionToken) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tokens[token.Token]; ok {
		return fmt.Errorf("session token: %w", ErrAlreadyExists)
	}
	t := *token
	m.tokens[token.Token] = &t
	return nil
}

func (m *MemoryStore) GetSessionToken(ctx context.Context, token string) (*model.SessionToken, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	t, ok := m.tokens[token]
	if !ok {
		return nil, fmt.Errorf("session token: %w", ErrNotFound)
	}
	copied := *t
	return &copied, nil
}

func (m *MemoryStore) DeleteSessionToken(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.tokens[token]; !ok {
		return fmt.Errorf("session token: %w", ErrNotFound)
	}
	delete(m.tokens, token)
	return nil
}
