package oauth2

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v3/userinfo"

// GoogleOAuth2 drives the Google authorization-code flow. HandleStart
// redirects to the consent page, HandleCallback verifies the state
// cookie, exchanges the code and hands the verified profile to
// HandleIdentity.
type GoogleOAuth2 struct {
	HandleIdentity HandleIdentityFunc

	// UserInfoURL can be overridden in tests to point at a fake provider.
	UserInfoURL string

	oauthConfig oauth2.Config
}

func NewGoogleOAuth2(clientID, clientSecret, callbackURL string, handleIdentity HandleIdentityFunc) *GoogleOAuth2 {
	if clientID == "" {
		clientID = os.Getenv("GOOGLE_CLIENT_ID")
	}
	if clientSecret == "" {
		clientSecret = os.Getenv("GOOGLE_CLIENT_SECRET")
	}
	if callbackURL == "" {
		callbackURL = os.Getenv("GOOGLE_CALLBACK_URL")
	}
	return &GoogleOAuth2{
		HandleIdentity: handleIdentity,
		UserInfoURL:    googleUserInfoURL,
		oauthConfig: oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  callbackURL,
			Scopes: []string{
				"https://www.googleapis.com/auth/userinfo.email",
				"https://www.googleapis.com/auth/userinfo.profile",
			},
			Endpoint: google.Endpoint,
		},
	}
}

// SetEndpoint replaces the provider endpoint, for tests.
func (g *GoogleOAuth2) SetEndpoint(endpoint oauth2.Endpoint) {
	g.oauthConfig.Endpoint = endpoint
}

func (g *GoogleOAuth2) HandleStart(w http.ResponseWriter, r *http.Request) {
	Redirector(&g.oauthConfig)(w, r)
}

func (g *GoogleOAuth2) HandleCallback(w http.ResponseWriter, r *http.Request) {
	stateCookie, err := r.Cookie(stateCookieName)
	if err != nil {
		http.Error(w, "missing oauth state", http.StatusBadRequest)
		return
	}
	clearStateCookie(w)
	if r.FormValue("state") != stateCookie.Value {
		http.Error(w, "invalid oauth state", http.StatusBadRequest)
		return
	}

	token, err := g.oauthConfig.Exchange(r.Context(), r.FormValue("code"))
	if err != nil {
		slog.Error("google code exchange failed", "error", err)
		http.Error(w, "code exchange failed", http.StatusBadGateway)
		return
	}

	ident, err := g.fetchUserInfo(r, token)
	if err != nil {
		slog.Error("google userinfo fetch failed", "error", err)
		http.Error(w, "userinfo fetch failed", http.StatusBadGateway)
		return
	}

	g.HandleIdentity(*ident, w, r)
}

func (g *GoogleOAuth2) fetchUserInfo(r *http.Request, token *oauth2.Token) (*Identity, error) {
	client := g.oauthConfig.Client(r.Context(), token)
	resp, err := client.Get(g.UserInfoURL)
	if err != nil {
		return nil, fmt.Errorf("fetching userinfo: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("userinfo returned status %d", resp.StatusCode)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading userinfo: %w", err)
	}

	var info struct {
		Sub   string `json:"sub"`
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.Unmarshal(body, &info); err != nil {
		return nil, fmt.Errorf("decoding userinfo: %w", err)
	}
	if info.Sub == "" {
		return nil, fmt.Errorf("userinfo missing subject")
	}
	return &Identity{Subject: info.Sub, Email: info.Email, Name: info.Name}, nil
}
