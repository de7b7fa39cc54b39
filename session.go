package skroll

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/golang-jwt/jwt/v5"
)

// sessionKeyUserID is the session variable holding the authenticated user id.
// Only the id goes into the session; the password hash is excluded by
// construction because the session never sees the full record.
const sessionKeyUserID = "loggedInUserId"

// SessionManager converts an authenticated user into a durable session and
// reconstructs the user from it on later requests. It wraps an injected
// scs.SessionManager (cookie-token sessions backed by a pluggable store)
// and additionally issues a signed JWT auth token for non-cookie callers.
type SessionManager struct {
	Sessions *scs.SessionManager
	Users    UserStore

	// JWT auth token configuration.
	JWTSecretKey string
	JWTIssuer    string
	TokenTTL     time.Duration
}

// NewSessionManager builds a SessionManager with a fresh scs session
// manager. Lifetime defaults to 24 hours when zero.
func NewSessionManager(users UserStore, secretKey string, lifetime time.Duration) *SessionManager {
	if lifetime <= 0 {
		lifetime = 24 * time.Hour
	}
	sessions := scs.New()
	sessions.Lifetime = lifetime
	sessions.Cookie.Name = "skroll_session"
	sessions.Cookie.HttpOnly = true

	return &SessionManager{
		Sessions:     sessions,
		Users:        users,
		JWTSecretKey: secretKey,
		JWTIssuer:    "skroll",
		TokenTTL:     lifetime,
	}
}

// Establish records the user in the request's session and returns a signed
// auth token for the same identity. The session token is renewed first so a
// pre-login session id never survives authentication.
func (m *SessionManager) Establish(ctx context.Context, user *User) (string, error) {
	if err := m.Sessions.RenewToken(ctx); err != nil {
		return "", fmt.Errorf("failed to renew session token: %w", err)
	}
	m.Sessions.Put(ctx, sessionKeyUserID, user.ID)
	return m.IssueAuthToken(user.ID)
}

// Restore resolves the request's session back to the current user record.
// It always re-fetches live data, so profile mutations show up on the next
// request and a deleted user yields ErrNoSession.
func (m *SessionManager) Restore(ctx context.Context) (*User, error) {
	userID := m.Sessions.GetString(ctx, sessionKeyUserID)
	if userID == "" {
		return nil, ErrNoSession
	}

	user, err := m.Users.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return nil, ErrNoSession
		}
		return nil, fmt.Errorf("failed to restore session user: %w", err)
	}
	return user, nil
}

// Invalidate destroys the request's session (logout).
func (m *SessionManager) Invalidate(ctx context.Context) error {
	return m.Sessions.Destroy(ctx)
}

// IssueAuthToken signs a JWT whose subject is the user id. The token carries
// nothing but identity claims; it is the cross-service companion of the
// session cookie.
func (m *SessionManager) IssueAuthToken(userID string) (string, error) {
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub": userID,
		"iss": m.JWTIssuer,
		"iat": now.Unix(),
		"exp": now.Add(m.TokenTTL).Unix(),
	})
	signed, err := token.SignedString([]byte(m.JWTSecretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign auth token: %w", err)
	}
	return signed, nil
}

// VerifyAuthToken validates a signed auth token and returns its subject.
func (m *SessionManager) VerifyAuthToken(tokenString string) (string, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(m.JWTSecretKey), nil
	})
	if err != nil {
		return "", err
	}
	if !token.Valid {
		return "", errors.New("invalid token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("claims is not a map")
	}
	sub, err := claims.GetSubject()
	if err != nil {
		return "", err
	}
	if sub == "" {
		return "", errors.New("subject not found")
	}
	return sub, nil
}

// LoadAndSave exposes the scs middleware that loads and commits session data
// around each request. Mount it once, at the outermost layer.
func (m *SessionManager) LoadAndSave(next http.Handler) http.Handler {
	return m.Sessions.LoadAndSave(next)
}
