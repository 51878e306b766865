package goSession

import (
	"errors"
	"fmt"
)

var (
	// ErrAuth matches every *AuthError.
	ErrAuth = errors.New("authentication rejected")
	// ErrTransport matches every *TransportError.
	ErrTransport = errors.New("transport failure")
	// ErrStorage matches every *StorageError.
	ErrStorage = errors.New("session storage failure")
	// ErrIncompleteSession is carried by the *AuthError returned when the remote API
	// answers a sign-in without a user, token, and refresh token.
	ErrIncompleteSession = errors.New("incomplete session response")
	// ErrRemoteTimeout is wrapped by a *TransportError when a remote call exceeds
	// SessionConfig.RemoteTimeout.
	ErrRemoteTimeout = errors.New("remote call timed out")
	// ErrStorageTimeout is wrapped by a *StorageError when a medium call exceeds
	// SessionConfig.StorageTimeout.
	ErrStorageTimeout = errors.New("storage call timed out")
	// ErrInvalidRegistration wraps the Validator's rejection of a sign-up payload.
	ErrInvalidRegistration = errors.New("invalid registration payload")
	// ErrManagerClosed is returned by operations on a closed Manager.
	ErrManagerClosed = errors.New("session manager closed")
	// ErrManagerNotReady is returned by operations on a Manager not built through Builder.
	ErrManagerNotReady = errors.New("session manager not initialized")
)

// AuthError is a structured rejection reported by the remote authentication API.
// Message is meant for display to the user.
type AuthError struct {
	Message string
	Status  int
	Err     error
}

func (e *AuthError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return ErrAuth.Error()
}

func (e *AuthError) Unwrap() error { return e.Err }

func (e *AuthError) Is(target error) bool { return target == ErrAuth }

// TransportError is an opaque failure talking to the remote API: network errors,
// timeouts, or responses without a structured message.
type TransportError struct {
	Op     string
	Status int
	Err    error
}

func (e *TransportError) Error() string {
	msg := "transport"
	if e.Op != "" {
		msg += " " + e.Op
	}
	if e.Status != 0 {
		msg += fmt.Sprintf(" (status %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// StorageError is a failure of the durable medium while reading, writing, or removing
// a session record.
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	msg := "storage " + e.Op
	if e.Key != "" {
		msg += " " + e.Key
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorage }
