// Package store persists user accounts and session tokens. The transaction
// dataset itself is immutable and lives in the dataset package; only
// credentials and sessions need a mutable store.
package store

import (
	"context"
	"errors"

	"github.com/heybanco/spendcast/backend/internal/model"
)

// ErrNotFound marks lookups for records that do not exist.
var ErrNotFound = errors.New("not found")

// ErrAlreadyExists marks creates that collide with an existing record.
var ErrAlreadyExists = errors.New("already exists")

// Store defines the database operations used by the auth and service layers.
type Store interface {
	// User operations
	CreateUser(ctx context.Context, user *model.User) error
	GetUser(ctx context.Context, clientID string) (*model.User, error)

	// Session token operations
	CreateSessionToken(ctx context.Context, token *model.SessionToken) error
	GetSessionToken(ctx context.Context, token string) (*model.SessionToken, error)
	DeleteSessionToken(ctx context.Context, token string) error
}
