package skroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// SignupService registers new local users.
type SignupService struct {
	Users  UserStore
	Hasher PasswordHasher
}

// Signup hashes the password and inserts a new user record. A duplicate
// email rejects with ReasonEmailExists; the store's uniqueness constraint is
// the arbiter, so two concurrent signups for the same email resolve to
// exactly one winner without any pre-read.
func (s *SignupService) Signup(ctx context.Context, creds Credentials) (*User, error) {
	hash, err := s.Hasher.Hash(creds.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.Users.CreateUser(ctx, &User{
		FullName:     creds.FullName,
		Email:        NormalizeEmail(creds.Email),
		PasswordHash: hash,
	})
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			return nil, Reject(ReasonEmailExists)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	slog.Info("registered local user", slog.String("user_id", user.ID))
	return user, nil
}
