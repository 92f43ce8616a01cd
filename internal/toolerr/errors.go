// Package toolerr defines the failure taxonomy shared by every tool and the
// classifier that maps upstream responses onto it.
package toolerr

import (
	"errors"
	"fmt"
)

// Kind is the machine-distinguishable class of a tool failure.
type Kind int

const (
	Unknown Kind = iota
	MissingCredential
	BadRequest
	Unauthorized
	Forbidden
	RateLimited
	UpstreamServerError
	InBandError
	MalformedResponse
	SchemaViolation
	ConflictingParameters
)

var kindNames = map[Kind]string{
	Unknown:               "Unknown",
	MissingCredential:     "MissingCredential",
	BadRequest:            "BadRequest",
	Unauthorized:          "Unauthorized",
	Forbidden:             "Forbidden",
	RateLimited:           "RateLimited",
	UpstreamServerError:   "UpstreamServerError",
	InBandError:           "InBandError",
	MalformedResponse:     "MalformedResponse",
	SchemaViolation:       "SchemaViolation",
	ConflictingParameters: "ConflictingParameters",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Error is a classified tool failure. Message is safe to show to the caller;
// Err keeps the underlying cause for logs only.
type Error struct {
	Kind    Kind
	Message string
	Status  int // upstream HTTP status, 0 when no response was involved
	Err     error
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error by kind, so errors.Is(err, &Error{Kind: RateLimited}) works.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Kind == e.Kind
}

// New creates an Error of the given kind.
func New(kind Kind, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

// Newf creates an Error with a formatted message.
func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap classifies cause under kind with a caller-facing message.
func Wrap(kind Kind, cause error, message string) *Error {
	return &Error{Kind: kind, Message: message, Err: cause}
}

// KindOf reports the kind of err. Errors outside the taxonomy are Unknown.
func KindOf(err error) Kind {
	var te *Error
	if errors.As(err, &te) {
		return te.Kind
	}
	return Unknown
}

// From converts any error into an *Error, keeping existing classifications.
func From(err error) *Error {
	if err == nil {
		return nil
	}
	var te *Error
	if errors.As(err, &te) {
		return te
	}
	return Wrap(Unknown, err, err.Error())
}
