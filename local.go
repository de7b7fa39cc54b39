package skroll

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// LocalAuthenticator validates email/password credentials against the
// credential store.
type LocalAuthenticator struct {
	Users  UserStore
	Hasher PasswordHasher
}

// Authenticate checks the (email, password) pair and returns the matching
// user. Expected failures come back as a *Rejection:
//
//   - unknown email and wrong password both reject with
//     ReasonBadCredentials and share one message, so the response never
//     confirms whether an account exists;
//   - a known account with no password hash (created via Google) rejects
//     with ReasonPasswordLoginUnavailable, which is intentionally
//     distinguishable since the caller already owns the email.
//
// Only store connectivity problems surface as plain errors.
func (a *LocalAuthenticator) Authenticate(ctx context.Context, email, password string) (*User, error) {
	email = NormalizeEmail(email)

	user, err := a.Users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, Reject(ReasonBadCredentials)
		}
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}

	if !user.HasPassword() {
		return nil, Reject(ReasonPasswordLoginUnavailable)
	}

	ok, err := a.Hasher.Compare(user.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("failed to verify password: %w", err)
	}
	if !ok {
		return nil, Reject(ReasonBadCredentials)
	}

	return user, nil
}

// NormalizeEmail lowercases and trims an email so lookups and the store's
// uniqueness constraint agree on one canonical form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
