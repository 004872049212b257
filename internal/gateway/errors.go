package gateway

import (
	"errors"
	"fmt"
)

// Kind classifies a gateway failure.
type Kind int

const (
	// KindRemoteRejected means the backend answered with a non-success status.
	KindRemoteRejected Kind = iota + 1
	// KindTransport means no response reached the portal at all.
	KindTransport
	// KindContract means a response arrived but lacked a required field.
	KindContract
	// KindNotFound means a derived lookup found nothing in the fetched collection.
	KindNotFound
)

// Error is a classified backend failure. Message is safe to show to the
// patient; Err carries the underlying cause when one exists.
type Error struct {
	Kind    Kind
	Op      string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gateway: %s: %s: %v", e.Op, e.Message, e.Err)
	}
	if e.Status != 0 {
		return fmt.Sprintf("gateway: %s: status %d: %s", e.Op, e.Status, e.Message)
	}
	return fmt.Sprintf("gateway: %s: %s", e.Op, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// KindOf returns the classification of err, or zero if err is not a
// gateway error.
func KindOf(err error) Kind {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Kind
	}
	return 0
}

// UserMessage extracts the patient-facing message from err. Falls back to
// a generic message for errors that did not originate in the gateway.
func UserMessage(err error) string {
	var ge *Error
	if errors.As(err, &ge) {
		return ge.Message
	}
	return "something went wrong"
}

// IsNotFound reports whether err is a derived-lookup miss.
func IsNotFound(err error) bool { return KindOf(err) == KindNotFound }

// IsTransport reports whether err is a connectivity failure.
func IsTransport(err error) bool { return KindOf(err) == KindTransport }

func remoteRejected(op string, status int, message, fallback string) *Error {
	if message == "" {
		message = fallback
	}
	return &Error{Kind: KindRemoteRejected, Op: op, Status: status, Message: message}
}

func transportError(op string, err error) *Error {
	return &Error{Kind: KindTransport, Op: op, Message: "could not reach the server", Err: err}
}

func contractViolation(op, message string) *Error {
	return &Error{Kind: KindContract, Op: op, Message: message}
}

func notFound(op, message string) *Error {
	return &Error{Kind: KindNotFound, Op: op, Message: message}
}
