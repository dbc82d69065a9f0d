package repository

import (
	"context"
	"strings"

	"github.com/dovepeak/quotemaster/internal/auth/domain"
	"github.com/dovepeak/quotemaster/internal/storage"
)

type repo struct {
	g     *storage.Gateway
	users *storage.Collection[domain.User]
}

func New(g *storage.Gateway) domain.Repository {
	return &repo{
		g:     g,
		users: storage.NewCollection[domain.User](g, storage.Users),
	}
}

func (r *repo) Users(ctx context.Context) ([]domain.User, error) {
	return r.users.GetAll(ctx)
}

func (r *repo) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	users, err := r.users.GetAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *repo) CreateUser(ctx context.Context, user domain.User, passwordHash string) error {
	if err := r.g.Write(ctx, storage.PasswordKey(user.ID), passwordHash); err != nil {
		return err
	}
	return r.users.Update(ctx, func(users []domain.User) ([]domain.User, error) {
		for _, u := range users {
			if strings.EqualFold(u.Email, user.Email) {
				return nil, domain.ErrUserExists
			}
		}
		return append(users, user), nil
	})
}

func (r *repo) SaveUser(ctx context.Context, user domain.User) error {
	_, err := r.users.Save(ctx, user)
	return err
}

func (r *repo) PasswordHash(ctx context.Context, userID string) (string, error) {
	var hash string
	found, err := r.g.Read(ctx, storage.PasswordKey(userID), &hash)
	if err != nil {
		return "", err
	}
	if !found {
		return "", domain.ErrInvalidCredentials
	}
	return hash, nil
}

func (r *repo) LoadSession(ctx context.Context) (*domain.Session, error) {
	var session domain.Session
	found, err := r.g.Read(ctx, storage.AuthSession, &session)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, domain.ErrSessionNotFound
	}
	return &session, nil
}

func (r *repo) StoreSession(ctx context.Context, session domain.Session) error {
	return r.g.Write(ctx, storage.AuthSession, session)
}

func (r *repo) ClearSession(ctx context.Context) error {
	return r.g.Remove(ctx, storage.AuthSession)
}
