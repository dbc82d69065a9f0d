package domain

import "context"

//go:generate mockgen -source=repository.go -destination=../mocks/mock_repository.go -package=mocks

type Repository interface {
	Users(ctx context.Context) ([]User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	// CreateUser stores user and its password hash. It fails with
	// ErrUserExists when the email is already registered.
	CreateUser(ctx context.Context, user User, passwordHash string) error
	SaveUser(ctx context.Context, user User) error
	PasswordHash(ctx context.Context, userID string) (string, error)

	LoadSession(ctx context.Context) (*Session, error)
	StoreSession(ctx context.Context, session Session) error
	ClearSession(ctx context.Context) error
}
