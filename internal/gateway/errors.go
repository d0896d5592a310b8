package gateway

import (
	"errors"
	"fmt"
)

// AuthErrorKind classifies auth-provider failures.
type AuthErrorKind string

const (
	AuthInvalidCredentials AuthErrorKind = "invalidCredentials"
	AuthEmailInUse         AuthErrorKind = "emailInUse"
	AuthUnknown            AuthErrorKind = "unknown"
)

// AuthError is returned by sign-in and sign-up calls.
type AuthError struct {
	Kind AuthErrorKind
	Err  error
}

func (e *AuthError) Error() string {
	var msg string
	switch e.Kind {
	case AuthInvalidCredentials:
		msg = "invalid email or password"
	case AuthEmailInUse:
		msg = "email already registered"
	default:
		msg = "authentication failed"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *AuthError) Unwrap() error { return e.Err }

// RemoteErrorKind classifies document-store and transport failures.
type RemoteErrorKind string

const (
	RemoteNetwork  RemoteErrorKind = "network"
	RemoteNotFound RemoteErrorKind = "notFound"
	RemoteUnknown  RemoteErrorKind = "unknown"
)

// RemoteError is returned by any call that reached (or failed to reach) the backend.
type RemoteError struct {
	Kind RemoteErrorKind
	Err  error
}

func (e *RemoteError) Error() string {
	var msg string
	switch e.Kind {
	case RemoteNetwork:
		msg = "network error"
	case RemoteNotFound:
		msg = "not found"
	default:
		msg = "backend error"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *RemoteError) Unwrap() error { return e.Err }

// ErrNotSignedIn is returned by document calls that need a signed-in identity.
var ErrNotSignedIn = errors.New("not signed in")

// IsAuthKind reports whether err is an AuthError of the given kind.
func IsAuthKind(err error, kind AuthErrorKind) bool {
	var ae *AuthError
	return errors.As(err, &ae) && ae.Kind == kind
}

// IsRemoteKind reports whether err is a RemoteError of the given kind.
func IsRemoteKind(err error, kind RemoteErrorKind) bool {
	var re *RemoteError
	return errors.As(err, &re) && re.Kind == kind
}

// IsNotFound reports whether err means the document does not exist.
func IsNotFound(err error) bool {
	return IsRemoteKind(err, RemoteNotFound)
}

func notFound(collection, id string) error {
	return &RemoteError{Kind: RemoteNotFound, Err: fmt.Errorf("%s/%s", collection, id)}
}
