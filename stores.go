package skroll

import (
	"context"
	"errors"
	"time"
)

// User is the unified identity record reachable through either
// authentication path (local email/password or Google OAuth).
//
// PasswordHash and GoogleID are optional: an empty PasswordHash means the
// user cannot authenticate locally, an empty GoogleID means the account was
// never linked to Google. A user always has at least one of the two.
// Neither field is ever serialized to JSON.
type User struct {
	ID       string `json:"id"`
	FullName string `json:"fullName"`
	Email    string `json:"email"`

	PasswordHash string `json:"-"`
	GoogleID     string `json:"-"`

	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
}

// HasPassword reports whether the user can authenticate with a local password.
func (u *User) HasPassword() bool { return u.PasswordHash != "" }

// IsLinked reports whether the user is linked to a Google identity.
func (u *User) IsLinked() bool { return u.GoogleID != "" }

// Sanitized returns a copy of the user with the password hash removed.
// Everything outside the credential store boundary works with sanitized
// users; only the local authenticator and the signup service ever see a hash.
func (u *User) Sanitized() *User {
	out := *u
	out.PasswordHash = ""
	return &out
}

// ExternalIdentity is a verified (provider id, email, display name) triple
// supplied by the OAuth client after a successful provider handshake. The
// core trusts it as pre-verified input.
type ExternalIdentity struct {
	GoogleID string
	Email    string
	FullName string
}

var (
	// ErrUserNotFound is returned by store lookups when no record matches.
	ErrUserNotFound = errors.New("user not found")

	// ErrEmailExists is returned by CreateUser when the insert hits the
	// uniqueness constraint on email (or google_id). Callers treat it as
	// "a concurrent writer won" and retry as a lookup.
	ErrEmailExists = errors.New("user with this email already exists")
)

// UserStore persists user identity records. The store is the single source
// of truth: it enforces the uniqueness constraint on email at the storage
// layer and serializes conflicting writes, so none of the callers hold locks
// across store calls.
type UserStore interface {
	GetUserByID(ctx context.Context, id string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	GetUserByGoogleID(ctx context.Context, googleID string) (*User, error)

	// CreateUser inserts a new user record. If user.ID is empty the store
	// assigns one; the assigned ID is immutable and never reused. A
	// uniqueness violation yields ErrEmailExists, not a store failure.
	CreateUser(ctx context.Context, user *User) (*User, error)

	// LinkGoogleID atomically sets the google id on an existing record,
	// preserving every other field. Returns the updated record.
	LinkGoogleID(ctx context.Context, userID, googleID string) (*User, error)
}
