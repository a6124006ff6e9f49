// Package auth implements account registration, login, and bearer-token
// session resolution backed by the store.
package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/heybanco/spendcast/backend/internal/model"
	"github.com/heybanco/spendcast/backend/internal/store"
)

// ErrInvalidCredentials covers both unknown accounts and bad passwords, so
// login failures do not reveal which one happened.
var ErrInvalidCredentials = errors.New("invalid credentials")

// ErrInvalidToken marks tokens that do not resolve to a session.
var ErrInvalidToken = errors.New("invalid or expired token")

// ErrUserExists marks registration against an already-registered client id.
var ErrUserExists = errors.New("user already exists")

// Sessions issues and resolves session tokens.
type Sessions struct {
	store store.Store
}

// NewSessions creates a session manager on top of the given store.
func NewSessions(s store.Store) *Sessions {
	return &Sessions{store: s}
}

// Register creates an account with a bcrypt-hashed password.
func (s *Sessions) Register(ctx context.Context, clientID, password string) error {
	if clientID == "" || password == "" {
		return fmt.Errorf("client id and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	user := &model.User{
		ClientID:     clientID,
		PasswordHash: string(hash),
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.store.CreateUser(ctx, user); err != nil {
		if errors.Is(err, store.ErrAlreadyExists) {
			return ErrUserExists
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

// Login verifies credentials and issues a new opaque session token.
func (s *Sessions) Login(ctx context.Context, clientID, password string) (string, error) {
	user, err := s.store.GetUser(ctx, clientID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrInvalidCredentials
		}
		return "", fmt.Errorf("get user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", ErrInvalidCredentials
	}

	token := uuid.New().String()
	st := &model.SessionToken{
		Token:     token,
		ClientID:  clientID,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.store.CreateSessionToken(ctx, st); err != nil {
		return "", fmt.Errorf("create session token: %w", err)
	}
	return token, nil
}

// Resolve maps a token back to its client id.
func (s *Sessions) Resolve(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", ErrInvalidToken
	}
	st, err := s.store.GetSessionToken(ctx, token)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return "", ErrInvalidToken
		}
		return "", fmt.Errorf("get session token: %w", err)
	}
	return st.ClientID, nil
}
