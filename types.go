package goCrypt

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// UserRecord is the credential view of a user returned by [UserProvider].
//
// PasswordSalt is the stable salt of every password hash of the user and
// never changes. TokenSalt signs the user's tokens; rotating it revokes them.
type UserRecord struct {
	UserID       string
	Username     string
	PasswordHash string
	PasswordSalt uuid.UUID
	TokenSalt    uuid.UUID
}

// CreateUserInput carries a new account to [UserProvider.CreateUser].
type CreateUserInput struct {
	Username     string
	PasswordHash string
	PasswordSalt uuid.UUID
	TokenSalt    uuid.UUID
}

// UserProvider is the interface callers implement to connect the engine to
// their user storage.
//
// Lookups of unknown users must return an error matching [ErrUserNotFound].
// CreateUser must return an error matching [ErrAccountExists] when the
// username is taken.
type UserProvider interface {
	GetUserByUsername(ctx context.Context, username string) (UserRecord, error)
	GetUserByID(ctx context.Context, userID string) (UserRecord, error)
	CreateUser(ctx context.Context, input CreateUserInput) (UserRecord, error)
	UpdatePasswordHash(ctx context.Context, userID string, newHash string) error
	RotateTokenSalt(ctx context.Context, userID string, newSalt uuid.UUID) error
}

// LoginResult is returned by [Engine.Login].
type LoginResult struct {
	UserID    string
	Username  string
	Token     string
	ExpiresAt time.Time
	// Upgraded reports that the stored credential was re-hashed with the
	// default scheme during this login.
	Upgraded bool
}

// AuthResult is returned by [Engine.Authenticate]. Token is a freshly issued
// token with a new expiration.
type AuthResult struct {
	UserID    string
	Username  string
	Token     string
	ExpiresAt time.Time
}
