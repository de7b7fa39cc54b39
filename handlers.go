package skroll

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
)

// User-facing messages for the success and failure shapes of each route.
const (
	MsgSignupSuccess = "User registered successfully. Please log in."
	MsgLoginSuccess  = "Logged in successfully!"
	MsgGoogleSuccess = "Google login successful!"
	MsgGoogleFailed  = "Google login failed."
	MsgLogoutSuccess = "Logged out successfully."
	MsgUnauthorized  = "Unauthorized. Please log in."
	MsgProtectedData = "You have access to protected data!"
	MsgSignupError   = "Server error during signup."
	MsgLoginError    = "Server error during login."
)

// MetricsRecorder counts authentication outcomes. A nil recorder is valid
// and records nothing.
type MetricsRecorder interface {
	RecordSignup(status Status)
	RecordLogin(method string, status Status)
	RecordSessionRestore(hit bool)
}

// AuthHandler is the HTTP boundary over the auth facade. It parses request
// bodies, applies the signup policy, and renders outcomes as the API's JSON
// shapes. No password hash and no google id ever appear in a response body:
// the facade sanitizes users and the User JSON tags drop both fields.
type AuthHandler struct {
	Auth    *Auth
	Policy  *SignupPolicy
	Metrics MetricsRecorder

	// OAuth start/callback handlers, typically from the oauth2 package.
	// Left nil, the google routes are not registered.
	OAuthStart    http.Handler
	OAuthCallback http.Handler
}

// RegisterRoutes mounts the auth API onto the router.
func (h *AuthHandler) RegisterRoutes(r *mux.Router) {
	auth := r.PathPrefix("/api/auth").Subrouter()
	auth.HandleFunc("/signup", h.HandleSignup).Methods(http.MethodPost)
	auth.HandleFunc("/login", h.HandleLogin).Methods(http.MethodPost)
	auth.HandleFunc("/logout", h.HandleLogout).Methods(http.MethodPost)
	auth.HandleFunc("/me", h.HandleMe).Methods(http.MethodGet)
	if h.OAuthStart != nil {
		auth.Handle("/google", h.OAuthStart).Methods(http.MethodGet)
	}
	if h.OAuthCallback != nil {
		auth.Handle("/google/callback", h.OAuthCallback).Methods(http.MethodGet)
	}

	mw := h.middleware()
	r.Handle("/api/protected", mw.EnsureUser(http.HandlerFunc(h.HandleProtected))).Methods(http.MethodGet)
}

func (h *AuthHandler) middleware() *Middleware {
	return &Middleware{Sessions: h.Auth.Sessions}
}

// HandleSignup processes POST /api/auth/signup.
func (h *AuthHandler) HandleSignup(w http.ResponseWriter, r *http.Request) {
	creds, ok := h.parseCredentials(w, r)
	if !ok {
		return
	}

	if fieldErrs := h.policy().Validate(creds); len(fieldErrs) > 0 {
		writeFieldErrors(w, fieldErrs)
		return
	}

	outcome := h.Auth.Signup(r.Context(), creds)
	h.recordSignup(outcome.Status)
	switch outcome.Status {
	case StatusSuccess:
		writeUserResponse(w, http.StatusCreated, MsgSignupSuccess, outcome.User)
	case StatusRejected:
		writeMessage(w, http.StatusConflict, outcome.Reason.Message())
	default:
		writeMessage(w, http.StatusInternalServerError, MsgSignupError)
	}
}

// HandleLogin processes POST /api/auth/login.
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	creds, ok := h.parseCredentials(w, r)
	if !ok {
		return
	}
	if creds.Email == "" || creds.Password == "" {
		writeFieldErrors(w, []*AuthError{
			NewAuthError(ErrCodeMissingField, "Email and password are required.", ""),
		})
		return
	}

	outcome := h.Auth.Login(r.Context(), creds.Email, creds.Password)
	h.recordLogin("local", outcome.Status)
	switch outcome.Status {
	case StatusSuccess:
		writeUserResponse(w, http.StatusOK, MsgLoginSuccess, outcome.User)
	case StatusRejected:
		writeMessage(w, http.StatusUnauthorized, outcome.Reason.Message())
	default:
		writeMessage(w, http.StatusInternalServerError, MsgLoginError)
	}
}

// HandleGoogleIdentity finishes the OAuth path. The oauth2 callback handler
// calls it with the already-verified identity; from here on the flow is the
// same establish-session-and-respond as local login.
func (h *AuthHandler) HandleGoogleIdentity(ident ExternalIdentity, w http.ResponseWriter, r *http.Request) {
	outcome := h.Auth.OAuthLogin(r.Context(), ident)
	h.recordLogin("google", outcome.Status)
	if outcome.Status != StatusSuccess {
		// The provider vouched for the identity, so there is no rejection
		// shape here: anything short of success is a failure.
		writeMessage(w, http.StatusUnauthorized, MsgGoogleFailed)
		return
	}
	writeUserResponse(w, http.StatusOK, MsgGoogleSuccess, outcome.User)
}

// HandleLogout processes POST /api/auth/logout.
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if err := h.Auth.Logout(r.Context()); err != nil {
		writeMessage(w, http.StatusInternalServerError, MsgLoginError)
		return
	}
	writeMessage(w, http.StatusOK, MsgLogoutSuccess)
}

// HandleMe returns the current session user.
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user, err := h.Auth.CurrentUser(r.Context())
	if err != nil {
		h.recordRestore(false)
		if errors.Is(err, ErrNoSession) {
			writeMessage(w, http.StatusUnauthorized, MsgUnauthorized)
			return
		}
		writeMessage(w, http.StatusInternalServerError, MsgLoginError)
		return
	}
	h.recordRestore(true)
	writeUserResponse(w, http.StatusOK, "", user)
}

// HandleProtected is the example resource behind EnsureUser.
func (h *AuthHandler) HandleProtected(w http.ResponseWriter, r *http.Request) {
	user, ok := UserFromContext(r.Context())
	if !ok {
		writeMessage(w, http.StatusUnauthorized, MsgUnauthorized)
		return
	}
	writeUserResponse(w, http.StatusOK, MsgProtectedData, user)
}

func (h *AuthHandler) policy() *SignupPolicy {
	if h.Policy != nil {
		return h.Policy
	}
	return DefaultSignupPolicy()
}

func (h *AuthHandler) recordSignup(s Status) {
	if h.Metrics != nil {
		h.Metrics.RecordSignup(s)
	}
}

func (h *AuthHandler) recordLogin(method string, s Status) {
	if h.Metrics != nil {
		h.Metrics.RecordLogin(method, s)
	}
}

func (h *AuthHandler) recordRestore(hit bool) {
	if h.Metrics != nil {
		h.Metrics.RecordSessionRestore(hit)
	}
}

// parseCredentials reads credentials from a JSON or form-encoded body.
func (h *AuthHandler) parseCredentials(w http.ResponseWriter, r *http.Request) (Credentials, bool) {
	var creds Credentials

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/x-www-form-urlencoded") ||
		strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseForm(); err != nil {
			writeFieldErrors(w, []*AuthError{NewAuthError(ErrCodeMissingField, "Error parsing form.", "")})
			return creds, false
		}
		creds.FullName = r.FormValue("fullName")
		creds.Email = r.FormValue("email")
		creds.Password = r.FormValue("password")
		return creds, true
	}

	var body struct {
		FullName string `json:"fullName"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeFieldErrors(w, []*AuthError{NewAuthError(ErrCodeMissingField, "Invalid request body.", "")})
		return creds, false
	}
	creds.FullName = body.FullName
	creds.Email = body.Email
	creds.Password = body.Password
	return creds, true
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{"message": message})
}

// writeUserResponse renders the success shape {message, user:{id, fullName,
// email}}. The User JSON tags keep passwordHash and googleId out of the body
// regardless of how the value got here.
func writeUserResponse(w http.ResponseWriter, status int, message string, user *User) {
	payload := map[string]any{"user": user}
	if message != "" {
		payload["message"] = message
	}
	writeJSON(w, status, payload)
}

// writeFieldErrors renders validation failures in the 400 shape
// {errors:[{field, message}]}.
func writeFieldErrors(w http.ResponseWriter, errs []*AuthError) {
	type fieldError struct {
		Field   string `json:"field"`
		Message string `json:"message"`
	}
	out := make([]fieldError, 0, len(errs))
	for _, e := range errs {
		out = append(out, fieldError{Field: e.Field, Message: e.Message})
	}
	writeJSON(w, http.StatusBadRequest, map[string]any{"errors": out})
}
