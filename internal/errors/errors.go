// Package errors defines typed errors with categories for user-friendly reporting.
// It provides a structured approach to error handling with machine-readable error kinds
// and human-friendly messages. Session and backend code return these so the CLI and
// the console can decide between an inline message, a network diagnostic, or a
// redirect to login without string matching.
//
// The package supports wrapping underlying errors while maintaining error kind information.
package errors

import (
	stderrors "errors"
	"fmt"
)

// Kind is a machine-readable error category.
type Kind string

const (
	// KindAuth covers rejected credentials, malformed login responses and
	// identities without administrative privileges.
	KindAuth Kind = "auth"
	// KindTransport covers network failures and responses that never reached
	// an HTTP status the caller could interpret.
	KindTransport Kind = "transport"
	// KindUnauthorized marks a 401 returned by any API call.
	KindUnauthorized Kind = "unauthorized"
	// KindValidation marks locally rejected input.
	KindValidation Kind = "validation"
)

// E wraps an error with kind and human-friendly message.
type E struct {
	Kind    Kind
	Message string
	Err     error
}

// Error returns the human-friendly message, followed by the wrapped cause when present.
func (e *E) Error() string {
	if e.Err != nil {
		if e.Message == "" {
			return e.Err.Error()
		}
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *E) Unwrap() error { return e.Err }

// Is matches another *E by kind, so errors.Is(err, &E{Kind: KindAuth}) works.
func (e *E) Is(target error) bool {
	t, ok := target.(*E)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

func Wrap(kind Kind, msg string, err error) *E { return &E{Kind: kind, Message: msg, Err: err} }
func New(kind Kind, msg string) *E             { return &E{Kind: kind, Message: msg} }

// Auth builds an authentication error carrying a user-facing message.
func Auth(msg string) *E { return New(KindAuth, msg) }

// Transport wraps a network-level failure.
func Transport(msg string, err error) *E { return Wrap(KindTransport, msg, err) }

// KindOf returns the kind of the first *E in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var e *E
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return ""
}

// Is reports whether err carries the given kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	return stderrors.Is(err, &E{Kind: kind})
}

// Message returns the human-friendly message of the first *E in err's chain,
// falling back to err.Error().
func Message(err error) string {
	if err == nil {
		return ""
	}
	var e *E
	if stderrors.As(err, &e) && e.Message != "" {
		return e.Message
	}
	return err.Error()
}
