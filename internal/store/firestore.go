package store

import (
	"context"
	"fmt"

	"cloud.google.com/go/firestore"

	"github.com/heybanco/spendcast/backend/internal/model"
)

const (
	usersCollection  = "users"
	tokensCollection = "sessionTokens"
)

// FirestoreStore implements the Store interface using Firestore.
type FirestoreStore struct {
	client *firestore.Client
}

// NewFirestoreStore creates a new Firestore-backed store.
func NewFirestoreStore(client *firestore.Client) Store {
	return &FirestoreStore{client: client}
}

func (s *FirestoreStore) CreateUser(ctx context.Context, user *model.User) error {
	// Create fails on an existing document, which keeps registration
	// idempotency checks on the database side.
	_, err := s.client.Collection(usersCollection).Doc(user.ClientID).Create(ctx, user)
	if err != nil {
		return fmt.Errorf("create user %s: %w: %v", user.ClientID, ErrAlreadyExists, err)
	}
	return nil
}

func (s *FirestoreStore) GetUser(ctx context.Context, clientID string) (*model.User, error) {
	doc, err := s.client.Collection(usersCollection).Doc(clientID).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("user %s: %w: %v", clientID, ErrNotFound, err)
	}

	var user model.User
	if err := doc.DataTo(&user); err != nil {
		return nil, fmt.Errorf("parse user %s: %w", clientID, err)
	}
	return &user, nil
}

func (s *FirestoreStore) CreateSessionToken(ctx context.Context, token *model.SessionToken) error {
	_, err := s.client.Collection(tokensCollection).Doc(token.Token).Create(ctx, token)
	if err != nil {
		return fmt.Errorf("create session token: %w: %v", ErrAlreadyExists, err)
	}
	return nil
}

func (s *FirestoreStore) GetSessionToken(ctx context.Context, token string) (*model.SessionToken, error) {
	doc, err := s.client.Collection(tokensCollection).Doc(token).Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("session token: %w: %v", ErrNotFound, err)
	}

	var st model.SessionToken
	if err := doc.DataTo(&st); err != nil {
		return nil, fmt.Errorf("parse session token: %w", err)
	}
	return &st, nil
}

func (s *FirestoreStore) DeleteSessionToken(ctx context.Context, token string) error {
	if _, err := s.client.Collection(tokensCollection).Doc(token).Delete(ctx); err != nil {
		return fmt.Errorf("delete session token: %w", err)
	}
	return nil
}
