package skroll

import (
	"fmt"
	"regexp"
)

// Credentials represents the fields of a local signup or login request.
type Credentials struct {
	FullName string
	Email    string
	Password string
}

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

var (
	passwordUpper   = regexp.MustCompile(`[A-Z]`)
	passwordLower   = regexp.MustCompile(`[a-z]`)
	passwordDigit   = regexp.MustCompile(`[0-9]`)
	passwordSpecial = regexp.MustCompile(`[^A-Za-z0-9]`)
)

// SignupPolicy defines what a local signup must satisfy. The zero value is
// not useful; use DefaultSignupPolicy.
type SignupPolicy struct {
	MinFullNameLength int
	MinPasswordLength int

	// RequireMixedPassword enforces at least one uppercase letter, one
	// lowercase letter, one digit and one special character.
	RequireMixedPassword bool
}

// DefaultSignupPolicy returns the default signup requirements.
func DefaultSignupPolicy() *SignupPolicy {
	return &SignupPolicy{
		MinFullNameLength:    3,
		MinPasswordLength:    6,
		RequireMixedPassword: true,
	}
}

// Validate checks signup credentials against the policy and returns one
// AuthError per failing field. An empty slice means the credentials pass.
func (p *SignupPolicy) Validate(creds Credentials) []*AuthError {
	var errs []*AuthError

	switch {
	case creds.FullName == "":
		errs = append(errs, NewAuthError(ErrCodeMissingField, "Full name is required.", "fullName"))
	case len(creds.FullName) < p.MinFullNameLength:
		errs = append(errs, NewAuthError(ErrCodeInvalidFullName,
			fmt.Sprintf("Full name must be at least %d characters long.", p.MinFullNameLength), "fullName"))
	}

	switch {
	case creds.Email == "":
		errs = append(errs, NewAuthError(ErrCodeMissingField, "Email is required.", "email"))
	case !emailRegex.MatchString(creds.Email):
		errs = append(errs, NewAuthError(ErrCodeInvalidEmail, "Invalid email format.", "email"))
	}

	if creds.Password == "" {
		errs = append(errs, NewAuthError(ErrCodeMissingField, "Password is required.", "password"))
		return errs
	}
	if len(creds.Password) < p.MinPasswordLength {
		errs = append(errs, NewAuthError(ErrCodeWeakPassword,
			fmt.Sprintf("Password must be at least %d characters long.", p.MinPasswordLength), "password"))
	}
	if p.RequireMixedPassword {
		if !passwordUpper.MatchString(creds.Password) {
			errs = append(errs, NewAuthError(ErrCodeWeakPassword, "Password must contain at least one uppercase letter.", "password"))
		}
		if !passwordLower.MatchString(creds.Password) {
			errs = append(errs, NewAuthError(ErrCodeWeakPassword, "Password must contain at least one lowercase letter.", "password"))
		}
		if !passwordDigit.MatchString(creds.Password) {
			errs = append(errs, NewAuthError(ErrCodeWeakPassword, "Password must contain at least one number.", "password"))
		}
		if !passwordSpecial.MatchString(creds.Password) {
			errs = append(errs, NewAuthError(ErrCodeWeakPassword, "Password must contain at least one special character.", "password"))
		}
	}

	return errs
}
