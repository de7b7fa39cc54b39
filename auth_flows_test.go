package skroll_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"

	skroll "github.com/SOULBRODA023/skroll-backend-two"
	"github.com/SOULBRODA023/skroll-backend-two/stores"
)

// setupServer wires the full HTTP stack over an in-memory store and returns
// a test server plus a cookie-carrying client.
func setupServer(t *testing.T) (*httptest.Server, *http.Client, *skroll.AuthHandler) {
	t.Helper()

	users := stores.NewMemoryUserStore()
	sessions := skroll.NewSessionManager(users, "test-secret", time.Hour)
	auth := &skroll.Auth{
		Local:    &skroll.LocalAuthenticator{Users: users, Hasher: testHasher},
		Resolver: &skroll.IdentityResolver{Users: users},
		Signups:  &skroll.SignupService{Users: users, Hasher: testHasher},
		Sessions: sessions,
	}
	handler := &skroll.AuthHandler{Auth: auth}

	router := mux.NewRouter()
	handler.RegisterRoutes(router)

	server := httptest.NewServer(sessions.LoadAndSave(router))
	t.Cleanup(server.Close)

	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("Failed to create cookie jar: %v", err)
	}
	client := &http.Client{Jar: jar}

	return server, client, handler
}

func postJSON(t *testing.T, client *http.Client, url string, payload map[string]string) (*http.Response, map[string]any) {
	t.Helper()
	body, _ := json.Marshal(payload)
	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s failed: %v", url, err)
	}
	return resp, decodeBody(t, resp)
}

func decodeBody(t *testing.T, resp *http.Response) map[string]any {
	t.Helper()
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("Failed to read body: %v", err)
	}
	if strings.Contains(string(raw), "passwordHash") || strings.Contains(string(raw), "googleId") {
		t.Errorf("Response body leaks credential fields: %s", raw)
	}

	var decoded map[string]any
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &decoded); err != nil {
			t.Fatalf("Failed to decode body %q: %v", raw, err)
		}
	}
	return decoded
}

var signupPayload = map[string]string{
	"fullName": "Ada Lovelace",
	"email":    "ada@example.com",
	"password": "Secret1!",
}

func TestSignupFlow(t *testing.T) {
	server, client, _ := setupServer(t)

	resp, body := postJSON(t, client, server.URL+"/api/auth/signup", signupPayload)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("Expected 201, got %d: %v", resp.StatusCode, body)
	}
	if body["message"] != "User registered successfully. Please log in." {
		t.Errorf("Unexpected message: %v", body["message"])
	}
	user, ok := body["user"].(map[string]any)
	if !ok {
		t.Fatalf("Expected a user object, got %v", body)
	}
	if user["email"] != "ada@example.com" {
		t.Errorf("Unexpected email: %v", user["email"])
	}
	if user["id"] == "" || user["id"] == nil {
		t.Error("Expected an assigned user id")
	}

	// Signup does not log in: the protected route stays closed.
	protResp, err := client.Get(server.URL + "/api/protected")
	if err != nil {
		t.Fatalf("GET protected failed: %v", err)
	}
	decodeBody(t, protResp)
	if protResp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected 401 after signup without login, got %d", protResp.StatusCode)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	server, client, _ := setupServer(t)

	postJSON(t, client, server.URL+"/api/auth/signup", signupPayload)
	resp, body := postJSON(t, client, server.URL+"/api/auth/signup", signupPayload)

	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("Expected 409, got %d", resp.StatusCode)
	}
	if body["message"] != "User with this email already exists." {
		t.Errorf("Unexpected message: %v", body["message"])
	}
}

func TestSignupValidation(t *testing.T) {
	server, client, _ := setupServer(t)

	resp, body := postJSON(t, client, server.URL+"/api/auth/signup", map[string]string{
		"fullName": "Al",
		"email":    "not-an-email",
		"password": "weak",
	})
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("Expected 400, got %d", resp.StatusCode)
	}
	errs, ok := body["errors"].([]any)
	if !ok || len(errs) == 0 {
		t.Fatalf("Expected an errors array, got %v", body)
	}
	fields := map[string]bool{}
	for _, e := range errs {
		entry := e.(map[string]any)
		fields[entry["field"].(string)] = true
	}
	for _, field := range []string{"fullName", "email", "password"} {
		if !fields[field] {
			t.Errorf("Expected an error for field %s, got %v", field, body)
		}
	}
}

func TestLoginFlow(t *testing.T) {
	server, client, _ := setupServer(t)
	postJSON(t, client, server.URL+"/api/auth/signup", signupPayload)

	resp, body := postJSON(t, client, server.URL+"/api/auth/login", map[string]string{
		"email":    "ada@example.com",
		"password": "Secret1!",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %v", resp.StatusCode, body)
	}
	if body["message"] != "Logged in successfully!" {
		t.Errorf("Unexpected message: %v", body["message"])
	}

	// The session cookie now opens the protected route and /me.
	protResp, err := client.Get(server.URL + "/api/protected")
	if err != nil {
		t.Fatalf("GET protected failed: %v", err)
	}
	protBody := decodeBody(t, protResp)
	if protResp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 on protected, got %d", protResp.StatusCode)
	}
	if protBody["message"] != "You have access to protected data!" {
		t.Errorf("Unexpected message: %v", protBody["message"])
	}

	meResp, err := client.Get(server.URL + "/api/auth/me")
	if err != nil {
		t.Fatalf("GET me failed: %v", err)
	}
	meBody := decodeBody(t, meResp)
	if meResp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200 on me, got %d", meResp.StatusCode)
	}
	user := meBody["user"].(map[string]any)
	if user["email"] != "ada@example.com" {
		t.Errorf("Unexpected current user: %v", user)
	}
}

func TestLoginRejections(t *testing.T) {
	server, client, handler := setupServer(t)
	postJSON(t, client, server.URL+"/api/auth/signup", signupPayload)

	// A Google-only account for the password-less case.
	if _, err := handler.Auth.Resolver.Resolve(t.Context(), skroll.ExternalIdentity{
		GoogleID: "google-grace",
		Email:    "grace@example.com",
		FullName: "Grace Hopper",
	}); err != nil {
		t.Fatalf("Failed to seed google user: %v", err)
	}

	tests := []struct {
		name        string
		email       string
		password    string
		wantMessage string
	}{
		{
			name:        "wrong password",
			email:       "ada@example.com",
			password:    "WrongPass1!",
			wantMessage: "Incorrect email or password.",
		},
		{
			name:        "unknown email",
			email:       "nobody@example.com",
			password:    "Secret1!",
			wantMessage: "Incorrect email or password.",
		},
		{
			name:        "google-only account",
			email:       "grace@example.com",
			password:    "Secret1!",
			wantMessage: "Please log in with Google.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := postJSON(t, client, server.URL+"/api/auth/login", map[string]string{
				"email":    tt.email,
				"password": tt.password,
			})
			if resp.StatusCode != http.StatusUnauthorized {
				t.Fatalf("Expected 401, got %d", resp.StatusCode)
			}
			if body["message"] != tt.wantMessage {
				t.Errorf("Expected %q, got %v", tt.wantMessage, body["message"])
			}
		})
	}
}

func TestLogoutFlow(t *testing.T) {
	server, client, _ := setupServer(t)
	postJSON(t, client, server.URL+"/api/auth/signup", signupPayload)
	postJSON(t, client, server.URL+"/api/auth/login", map[string]string{
		"email":    "ada@example.com",
		"password": "Secret1!",
	})

	resp, body := postJSON(t, client, server.URL+"/api/auth/logout", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d", resp.StatusCode)
	}
	if body["message"] != "Logged out successfully." {
		t.Errorf("Unexpected message: %v", body["message"])
	}

	protResp, err := client.Get(server.URL + "/api/protected")
	if err != nil {
		t.Fatalf("GET protected failed: %v", err)
	}
	protBody := decodeBody(t, protResp)
	if protResp.StatusCode != http.StatusUnauthorized {
		t.Errorf("Expected 401 after logout, got %d", protResp.StatusCode)
	}
	if protBody["message"] != "Unauthorized. Please log in." {
		t.Errorf("Unexpected message: %v", protBody["message"])
	}
}

// The google identity path establishes the same session as local login.
func TestGoogleIdentityFlow(t *testing.T) {
	users := stores.NewMemoryUserStore()
	sessions := skroll.NewSessionManager(users, "test-secret", time.Hour)
	auth := &skroll.Auth{
		Local:    &skroll.LocalAuthenticator{Users: users, Hasher: testHasher},
		Resolver: &skroll.IdentityResolver{Users: users},
		Signups:  &skroll.SignupService{Users: users, Hasher: testHasher},
		Sessions: sessions,
	}
	handler := &skroll.AuthHandler{Auth: auth}

	router := mux.NewRouter()
	handler.RegisterRoutes(router)
	router.HandleFunc("/test/google", func(w http.ResponseWriter, r *http.Request) {
		handler.HandleGoogleIdentity(skroll.ExternalIdentity{
			GoogleID: "google-123",
			Email:    "new@example.com",
			FullName: "New User",
		}, w, r)
	})

	server := httptest.NewServer(sessions.LoadAndSave(router))
	defer server.Close()

	jar, _ := cookiejar.New(nil)
	client := &http.Client{Jar: jar}

	resp, err := client.Get(server.URL + "/test/google")
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	body := decodeBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %v", resp.StatusCode, body)
	}
	if body["message"] != "Google login successful!" {
		t.Errorf("Unexpected message: %v", body["message"])
	}

	protResp, err := client.Get(server.URL + "/api/protected")
	if err != nil {
		t.Fatalf("GET protected failed: %v", err)
	}
	decodeBody(t, protResp)
	if protResp.StatusCode != http.StatusOK {
		t.Errorf("Expected 200 on protected after google login, got %d", protResp.StatusCode)
	}
}

func TestLoginFormEncoded(t *testing.T) {
	server, client, _ := setupServer(t)
	postJSON(t, client, server.URL+"/api/auth/signup", signupPayload)

	resp, err := client.Post(server.URL+"/api/auth/login",
		"application/x-www-form-urlencoded",
		strings.NewReader("email=ada%40example.com&password=Secret1%21"))
	if err != nil {
		t.Fatalf("POST failed: %v", err)
	}
	body := decodeBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %v", resp.StatusCode, body)
	}
}
