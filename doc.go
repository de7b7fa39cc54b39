// Package skroll implements the skroll authentication backend: local
// email/password signup and login, Google OAuth login, and unified user
// identities reachable through either path.
//
// # Architecture
//
// User: the single identity record. A user carries an email (unique, the
// join key between the two authentication paths), optionally a bcrypt
// password hash (local signup) and optionally a google id (OAuth linkage).
//
// LocalAuthenticator: validates email/password pairs against the credential
// store. Unknown email and wrong password produce one indistinguishable
// rejection; a password-less Google account attempting local login produces
// a distinct one.
//
// IdentityResolver: maps a verified Google identity to a local user. A
// google-id match wins outright; an email match links the google id onto the
// existing local account; a miss on both creates a new user. Repeat logins
// are idempotent and uniqueness races converge on the concurrent winner.
//
// SessionManager: converts an authenticated user into a server-side session
// (scs) plus a signed JWT auth token, and restores the live user record from
// either on later requests.
//
// Auth: the facade. Every authentication attempt ends as one of three
// outcome shapes - success with a sanitized user, rejection with a reason
// code, or error - and the password hash never leaves the store boundary.
//
// # Basic Usage
//
// Build the pieces around a UserStore implementation (stores/gorm for
// Postgres, stores for in-memory):
//
//	users := stores.NewMemoryUserStore()
//	hasher := &skroll.BcryptHasher{}
//	sessions := skroll.NewSessionManager(users, secret, 24*time.Hour)
//	auth := &skroll.Auth{
//	    Local:    &skroll.LocalAuthenticator{Users: users, Hasher: hasher},
//	    Resolver: &skroll.IdentityResolver{Users: users},
//	    Signups:  &skroll.SignupService{Users: users, Hasher: hasher},
//	    Sessions: sessions,
//	}
//
// Mount the HTTP boundary behind the session middleware:
//
//	handler := &skroll.AuthHandler{Auth: auth}
//	r := mux.NewRouter()
//	handler.RegisterRoutes(r)
//	http.ListenAndServe(addr, sessions.LoadAndSave(r))
//
// # Security
//
// Passwords are hashed with bcrypt at default cost. Session cookies are
// HttpOnly and regenerated on login. Responses carry only {id, fullName,
// email}; the hash and the google id are excluded from JSON serialization
// at the type level.
package skroll
