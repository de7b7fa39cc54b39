package skroll

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

// IdentityResolver maps a verified external identity to a local user record,
// creating or linking as needed. There is no rejection outcome here: a
// verified identity with an email always resolves to some user unless the
// store fails.
type IdentityResolver struct {
	Users UserStore
}

// Resolve runs the ordered resolution:
//
//  1. Lookup by google id. A hit is returned as-is: repeat logins are
//     idempotent and never mutate the record, and the google-id match takes
//     precedence over email so an already-linked account is never re-linked
//     or duplicated even if its email changed upstream.
//  2. Lookup by email. A hit is a local-only user signing in with Google
//     for the first time: the google id is set atomically on the existing
//     record, preserving the password hash, name and id.
//  3. Otherwise a new user is created with the google id and no password.
//
// The create in step 3 races with concurrent first-time logins and signups
// for the same email. The store's uniqueness constraint decides the winner;
// on ErrEmailExists the loser re-runs the resolution and converges on the
// winner's record instead of surfacing a spurious failure.
func (r *IdentityResolver) Resolve(ctx context.Context, ident ExternalIdentity) (*User, error) {
	if ident.Email == "" {
		return nil, fmt.Errorf("external identity for google id %q carries no email", ident.GoogleID)
	}
	if ident.GoogleID == "" {
		return nil, errors.New("external identity carries no google id")
	}
	ident.Email = NormalizeEmail(ident.Email)

	user, err := r.resolveOnce(ctx, ident)
	if errors.Is(err, ErrEmailExists) {
		// A concurrent insert won the uniqueness race. Re-reading finds the
		// winner's row and the link path converges idempotently.
		user, err = r.resolveOnce(ctx, ident)
	}
	return user, err
}

func (r *IdentityResolver) resolveOnce(ctx context.Context, ident ExternalIdentity) (*User, error) {
	user, err := r.Users.GetUserByGoogleID(ctx, ident.GoogleID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up user by google id: %w", err)
	}

	user, err = r.Users.GetUserByEmail(ctx, ident.Email)
	if err == nil {
		linked, err := r.Users.LinkGoogleID(ctx, user.ID, ident.GoogleID)
		if err != nil {
			return nil, fmt.Errorf("failed to link google account: %w", err)
		}
		slog.Info("linked google account to existing user",
			slog.String("user_id", linked.ID))
		return linked, nil
	}
	if !errors.Is(err, ErrUserNotFound) {
		return nil, fmt.Errorf("failed to look up user by email: %w", err)
	}

	created, err := r.Users.CreateUser(ctx, &User{
		FullName: ident.FullName,
		Email:    ident.Email,
		GoogleID: ident.GoogleID,
	})
	if err != nil {
		// ErrEmailExists propagates unwrapped so Resolve can retry.
		if errors.Is(err, ErrEmailExists) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user from google identity: %w", err)
	}
	slog.Info("created new user from google identity",
		slog.String("user_id", created.ID))
	return created, nil
}
