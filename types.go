package goSession

import (
	"context"

	"github.com/MrEthical07/goSession/session"
)

// TokenPair is the opaque bearer credential and refresh token issued at sign-in.
type TokenPair = session.TokenPair

// UserProfile is the authenticated user record returned by the remote API.
type UserProfile = session.UserProfile

// ProfileID identifies a user; numeric and string ids decode to the same form.
type ProfileID = session.ProfileID

// SessionState tags the current session.
type SessionState uint8

const (
	// StateAnonymous means no user is signed in and no credential is bound.
	StateAnonymous SessionState = iota
	// StateAuthenticated means a user is signed in and their token is bound.
	StateAuthenticated
)

func (s SessionState) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Session is the externally observable authentication status.
//
// Profile is non-nil exactly when State is StateAuthenticated.
type Session struct {
	State   SessionState
	Profile *UserProfile
}

// AnonymousSession returns the signed-out session.
func AnonymousSession() Session {
	return Session{State: StateAnonymous}
}

// AuthenticatedSession returns a signed-in session for profile.
func AuthenticatedSession(profile *UserProfile) Session {
	return Session{State: StateAuthenticated, Profile: profile}
}

// IsAuthenticated reports whether a user is signed in.
func (s Session) IsAuthenticated() bool {
	return s.State == StateAuthenticated && s.Profile != nil
}

// Snapshot is what consumers render from: the session plus whether a restoration or a
// mutating operation is in flight.
type Snapshot struct {
	Session Session
	Loading bool
}

func (s Snapshot) clone() Snapshot {
	s.Session.Profile = s.Session.Profile.Clone()
	return s
}

// Avatar is the optional profile picture sent with a registration.
type Avatar struct {
	Filename    string
	ContentType string
	Data        []byte
}

// RegistrationPayload is the sign-up form as submitted by the user. The Manager
// forwards it to the Authenticator unchanged.
type RegistrationPayload struct {
	Name            string
	Email           string
	Phone           string
	Password        string
	PasswordConfirm string
	Avatar          *Avatar
}

// AuthResponse is the remote API's answer to a successful authentication call.
type AuthResponse struct {
	User         *UserProfile `json:"user"`
	Token        string       `json:"token"`
	RefreshToken string       `json:"refresh_token"`
}

// Complete reports whether the response carries a user with an id, a token, and a
// refresh token.
func (r *AuthResponse) Complete() bool {
	return r != nil && r.User != nil && r.User.ID != "" && r.Token != "" && r.RefreshToken != ""
}

// Authenticator is the remote authentication collaborator.
//
// Implementations report structured rejections as *AuthError and everything else as
// *TransportError; the Manager wraps any other error as *TransportError.
type Authenticator interface {
	Register(ctx context.Context, payload RegistrationPayload) error
	Authenticate(ctx context.Context, identifier, secret string) (*AuthResponse, error)
}

// Validator checks a registration payload before it leaves the device.
type Validator interface {
	ValidateRegistration(payload RegistrationPayload) error
}

// ValidatorFunc adapts a function to [Validator].
type ValidatorFunc func(payload RegistrationPayload) error

func (f ValidatorFunc) ValidateRegistration(payload RegistrationPayload) error {
	return f(payload)
}
