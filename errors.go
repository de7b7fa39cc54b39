package skroll

import "errors"

// Error codes for field-level validation failures surfaced to the client.
const (
	ErrCodeMissingField    = "missing_field"
	ErrCodeInvalidEmail    = "invalid_email"
	ErrCodeInvalidFullName = "invalid_full_name"
	ErrCodeWeakPassword    = "weak_password"
)

// AuthError is a user-facing validation failure tied to a request field.
// These map to HTTP 400 with field-level messages.
type AuthError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

func (e *AuthError) Error() string { return e.Message }

// NewAuthError creates an AuthError with the given code, message and field
func NewAuthError(code, message, field string) *AuthError {
	return &AuthError{Code: code, Message: message, Field: field}
}

// ReasonCode identifies why an authentication attempt was rejected. The
// internal outcome model is the code; the user-visible text hangs off it so
// nothing downstream has to match on message strings.
type ReasonCode string

const (
	// ReasonBadCredentials covers both unknown email and wrong password.
	// The message is deliberately identical for the two cases so a response
	// never reveals whether an account exists.
	ReasonBadCredentials ReasonCode = "bad_credentials"

	// ReasonPasswordLoginUnavailable means the account exists but has no
	// password (created via Google). Distinguishable on purpose: the email
	// is already confirmed to exist by the caller owning it.
	ReasonPasswordLoginUnavailable ReasonCode = "password_login_unavailable"

	// ReasonEmailExists means a signup hit an email already registered.
	ReasonEmailExists ReasonCode = "email_exists"
)

// Message returns the user-facing text for the reason code.
func (c ReasonCode) Message() string {
	switch c {
	case ReasonPasswordLoginUnavailable:
		return "Please log in with Google."
	case ReasonEmailExists:
		return "User with this email already exists."
	default:
		return "Incorrect email or password."
	}
}

// Rejection is an expected, user-correctable authentication failure. It is
// a value, not a fault: rejections are never logged as errors and always
// recovered into a typed outcome at the facade boundary.
type Rejection struct {
	Code ReasonCode
}

func (r *Rejection) Error() string { return r.Code.Message() }

// Reject wraps a reason code as an error so authenticators can return it
// through their ordinary error path.
func Reject(code ReasonCode) error {
	return &Rejection{Code: code}
}

// AsRejection unwraps a Rejection from err, if one is there.
func AsRejection(err error) (*Rejection, bool) {
	var rej *Rejection
	if errors.As(err, &rej) {
		return rej, true
	}
	return nil, false
}

// ErrNoSession is returned by SessionManager.Restore when the request
// carries no session, the session expired, or the referenced user no longer
// exists.
var ErrNoSession = errors.New("no authenticated session")
