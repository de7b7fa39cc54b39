package skroll

import (
	"context"
	"log/slog"
)

// Status tags the three shapes an authentication attempt can take.
type Status string

const (
	StatusSuccess  Status = "success"
	StatusRejected Status = "rejected"
	StatusError    Status = "error"
)

// Outcome is the uniform result of one authentication attempt. Exactly one
// of the payload fields is meaningful per status:
//
//	success  -> User (sanitized: the password hash is stripped before the
//	            record can leave the core)
//	rejected -> Reason
//	error    -> Err (server-side detail only; never shown to the client)
type Outcome struct {
	Status Status
	User   *User
	Reason ReasonCode
	Err    error
}

// Auth orchestrates one authentication attempt end-to-end: it drives the
// authenticator or resolver, establishes the session on success, and
// normalizes every result into an Outcome. Handlers only ever see outcomes,
// never raw store errors or password hashes.
type Auth struct {
	Local    *LocalAuthenticator
	Resolver *IdentityResolver
	Signups  *SignupService
	Sessions *SessionManager
}

// Login runs the local email/password path and establishes a session on
// success.
func (a *Auth) Login(ctx context.Context, email, password string) Outcome {
	user, err := a.Local.Authenticate(ctx, email, password)
	if err != nil {
		return a.fail("login", err)
	}
	return a.establish(ctx, user)
}

// Signup registers a new local user. Per the signup contract the new user is
// not logged in automatically; the client logs in afterwards.
func (a *Auth) Signup(ctx context.Context, creds Credentials) Outcome {
	user, err := a.Signups.Signup(ctx, creds)
	if err != nil {
		return a.fail("signup", err)
	}
	return Outcome{Status: StatusSuccess, User: user.Sanitized()}
}

// OAuthLogin resolves a verified external identity to a local user and
// establishes a session. Rejection is not a normal outcome on this path:
// the provider already verified the identity, so anything short of success
// is an error the boundary turns into a failure redirect.
func (a *Auth) OAuthLogin(ctx context.Context, ident ExternalIdentity) Outcome {
	user, err := a.Resolver.Resolve(ctx, ident)
	if err != nil {
		return a.fail("oauth", err)
	}
	return a.establish(ctx, user)
}

// Logout invalidates the current session.
func (a *Auth) Logout(ctx context.Context) error {
	return a.Sessions.Invalidate(ctx)
}

// CurrentUser restores the session user, already sanitized.
func (a *Auth) CurrentUser(ctx context.Context) (*User, error) {
	user, err := a.Sessions.Restore(ctx)
	if err != nil {
		return nil, err
	}
	return user.Sanitized(), nil
}

func (a *Auth) establish(ctx context.Context, user *User) Outcome {
	if _, err := a.Sessions.Establish(ctx, user); err != nil {
		return a.fail("session", err)
	}
	return Outcome{Status: StatusSuccess, User: user.Sanitized()}
}

// fail splits err into the rejected and error outcome shapes. Rejections are
// expected and not logged; everything else is a store or infrastructure
// failure that gets full detail in the server log and none in the response.
func (a *Auth) fail(op string, err error) Outcome {
	if rej, ok := AsRejection(err); ok {
		return Outcome{Status: StatusRejected, Reason: rej.Code}
	}
	slog.Error("authentication failed", slog.String("op", op), slog.Any("error", err))
	return Outcome{Status: StatusError, Err: err}
}
