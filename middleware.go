package skroll

import (
	"context"
	"errors"
	"net/http"
)

type contextKey string

const userContextKey contextKey = "skroll.user"

// Middleware loads the authenticated user for downstream handlers. The
// session is the primary source; the signed auth token (header or cookie)
// is the fallback for non-cookie callers. The user travels in the request
// context as an explicit value, not in any package-level state.
type Middleware struct {
	Sessions *SessionManager

	// AuthTokenHeaderName defaults to "Authorization" (bearer token).
	AuthTokenHeaderName string
	// AuthTokenCookieName defaults to "skroll_auth_token".
	AuthTokenCookieName string
}

func (m *Middleware) headerName() string {
	if m.AuthTokenHeaderName != "" {
		return m.AuthTokenHeaderName
	}
	return "Authorization"
}

func (m *Middleware) cookieName() string {
	if m.AuthTokenCookieName != "" {
		return m.AuthTokenCookieName
	}
	return "skroll_auth_token"
}

// ExtractUser resolves the requester's identity, if any, and makes it
// available via UserFromContext. It never rejects: anonymous requests pass
// through untouched.
func (m *Middleware) ExtractUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if user, err := m.resolveUser(r); err == nil {
			r = r.WithContext(ContextWithUser(r.Context(), user))
		}
		next.ServeHTTP(w, r)
	})
}

// EnsureUser is ExtractUser plus a 401 for anonymous requests.
func (m *Middleware) EnsureUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, err := m.resolveUser(r)
		if err != nil {
			writeMessage(w, http.StatusUnauthorized, MsgUnauthorized)
			return
		}
		next.ServeHTTP(w, r.WithContext(ContextWithUser(r.Context(), user)))
	})
}

// resolveUser tries the session first, then any presented auth tokens.
func (m *Middleware) resolveUser(r *http.Request) (*User, error) {
	user, err := m.Sessions.Restore(r.Context())
	if err == nil {
		return user.Sanitized(), nil
	}
	if !errors.Is(err, ErrNoSession) {
		return nil, err
	}

	for _, token := range m.presentedTokens(r) {
		userID, err := m.Sessions.VerifyAuthToken(token)
		if err != nil {
			continue
		}
		user, err := m.Sessions.Users.GetUserByID(r.Context(), userID)
		if err != nil {
			continue
		}
		return user.Sanitized(), nil
	}
	return nil, ErrNoSession
}

func (m *Middleware) presentedTokens(r *http.Request) []string {
	var tokens []string
	for _, v := range r.Header.Values(m.headerName()) {
		tokens = append(tokens, trimBearer(v))
	}
	for _, cookie := range r.CookiesNamed(m.cookieName()) {
		if cookie.Value != "" {
			tokens = append(tokens, cookie.Value)
		}
	}
	return tokens
}

func trimBearer(v string) string {
	const prefix = "Bearer "
	if len(v) > len(prefix) && v[:len(prefix)] == prefix {
		return v[len(prefix):]
	}
	return v
}

// ContextWithUser returns a context carrying the given user.
func ContextWithUser(ctx context.Context, user *User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext returns the authenticated user placed by the middleware.
func UserFromContext(ctx context.Context) (*User, bool) {
	user, ok := ctx.Value(userContextKey).(*User)
	return user, ok && user != nil
}
