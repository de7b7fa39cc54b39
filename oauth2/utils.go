package oauth2

import (
	"crypto/rand"
	"encoding/base64"
	"net/http"
	"time"

	"golang.org/x/oauth2"
)

// Identity is the provider-verified profile handed to the application
// after a successful callback. Subject is the provider's stable user id.
type Identity struct {
	Subject string
	Email   string
	Name    string
}

// HandleIdentityFunc receives the verified identity and finishes the
// login (resolve the user, establish the session, write the response).
type HandleIdentityFunc func(ident Identity, w http.ResponseWriter, r *http.Request)

const stateCookieName = "oauthstate"

func generateStateCookie(w http.ResponseWriter) string {
	b := make([]byte, 16)
	rand.Read(b)
	state := base64.URLEncoding.EncodeToString(b)
	http.SetCookie(w, &http.Cookie{
		Name:     stateCookieName,
		Value:    state,
		Path:     "/",
		Expires:  time.Now().Add(10 * time.Minute),
		HttpOnly: true,
	})
	return state
}

func clearStateCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:   stateCookieName,
		Path:   "/",
		MaxAge: -1,
	})
}

// Redirector returns a handler that stamps a fresh state cookie and
// sends the browser to the provider's consent page.
func Redirector(oauthConfig *oauth2.Config) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		state := generateStateCookie(w)
		http.Redirect(w, r, oauthConfig.AuthCodeURL(state), http.StatusFound)
	}
}
