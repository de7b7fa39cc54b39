package skroll_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	skroll "github.com/SOULBRODA023/skroll-backend-two"
	"github.com/SOULBRODA023/skroll-backend-two/stores"
)

// Bearer tokens let non-cookie callers through EnsureUser.
func TestMiddlewareBearerToken(t *testing.T) {
	users := stores.NewMemoryUserStore()
	user := seedLocalUser(t, users, "Ada Lovelace", "ada@example.com", "Secret1!")
	sessions := skroll.NewSessionManager(users, "test-secret", time.Hour)
	mw := &skroll.Middleware{Sessions: sessions}

	var seen *skroll.User
	protected := mw.EnsureUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = skroll.UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	server := httptest.NewServer(sessions.LoadAndSave(protected))
	defer server.Close()

	token, err := sessions.IssueAuthToken(user.ID)
	if err != nil {
		t.Fatalf("IssueAuthToken failed: %v", err)
	}

	tests := []struct {
		name       string
		setup      func(*http.Request)
		wantStatus int
	}{
		{
			name:       "no credentials",
			setup:      func(r *http.Request) {},
			wantStatus: http.StatusUnauthorized,
		},
		{
			name: "authorization header",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer "+token)
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "auth token cookie",
			setup: func(r *http.Request) {
				r.AddCookie(&http.Cookie{Name: "skroll_auth_token", Value: token})
			},
			wantStatus: http.StatusOK,
		},
		{
			name: "garbage token",
			setup: func(r *http.Request) {
				r.Header.Set("Authorization", "Bearer garbage")
			},
			wantStatus: http.StatusUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seen = nil
			req, err := http.NewRequest(http.MethodGet, server.URL, nil)
			if err != nil {
				t.Fatalf("NewRequest failed: %v", err)
			}
			tt.setup(req)

			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				t.Fatalf("Request failed: %v", err)
			}
			resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Fatalf("Expected %d, got %d", tt.wantStatus, resp.StatusCode)
			}
			if tt.wantStatus == http.StatusOK {
				if seen == nil || seen.ID != user.ID {
					t.Errorf("Expected user %s in context, got %v", user.ID, seen)
				}
				if seen.PasswordHash != "" {
					t.Error("Context user must be sanitized")
				}
			}
		})
	}
}

func TestExtractUserPassesAnonymousThrough(t *testing.T) {
	users := stores.NewMemoryUserStore()
	sessions := skroll.NewSessionManager(users, "test-secret", time.Hour)
	mw := &skroll.Middleware{Sessions: sessions}

	var hadUser bool
	handler := mw.ExtractUser(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, hadUser = skroll.UserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))
	server := httptest.NewServer(sessions.LoadAndSave(handler))
	defer server.Close()

	resp, err := http.Get(server.URL)
	if err != nil {
		t.Fatalf("Request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if hadUser {
		t.Error("Anonymous request should carry no user")
	}
}
