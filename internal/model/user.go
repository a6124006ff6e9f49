package model

import "time"

// User is a registered account. The password is stored only as a bcrypt hash.
type User struct {
	ClientID     string    `firestore:"clientId"`
	PasswordHash string    `firestore:"passwordHash"`
	CreatedAt    time.Time `firestore:"createdAt"`
}

// SessionToken maps an opaque bearer token to a client ID.
type SessionToken struct {
	Token     string    `firestore:"token"`
	ClientID  string    `firestore:"clientId"`
	CreatedAt time.Time `firestore:"createdAt"`
}
