package discovery

import (
	"errors"
	"fmt"
)

// Kind classifies why an operation against the notes service failed.
type Kind int

const (
	// KindNetworkFailure covers transport errors and unexpected server
	// responses. These are retriable by the caller.
	KindNetworkFailure Kind = iota

	// KindValidationFailure means the request was understood and refused
	// as malformed. Retrying the same input will fail again.
	KindValidationFailure

	// KindAuthorizationDenied covers missing credentials and the
	// reciprocity gate: the caller lacks standing, not the request.
	KindAuthorizationDenied
)

func (k Kind) String() string {
	switch k {
	case KindNetworkFailure:
		return "network_failure"
	case KindValidationFailure:
		return "validation_failure"
	case KindAuthorizationDenied:
		return "authorization_denied"
	}
	return "unknown"
}

// Error is the single error type every discovery operation returns.
type Error struct {
	Kind    Kind
	Message string
	Status  int // HTTP status when one was received, else 0
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, message string, status int, err error) *Error {
	return &Error{Kind: kind, Message: message, Status: status, Err: err}
}

// KindOf extracts the classification, defaulting to network failure for
// errors that did not come from this package.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	return KindNetworkFailure
}

func IsAuthorizationDenied(err error) bool {
	return err != nil && KindOf(err) == KindAuthorizationDenied
}
