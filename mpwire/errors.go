package mpwire

import (
	"fmt"

	"mpk/marker"
)

// ErrorKind classifies codec failures.
type ErrorKind int

const (
	// KindIo is a failure of the underlying sink or source.
	KindIo ErrorKind = iota + 1
	// KindInvalidTag is an unrecognized leading byte.
	KindInvalidTag
	// KindTypeMismatch is a take call inconsistent with the next tag.
	KindTypeMismatch
	// KindNumericOverflow is a value that does not fit the requested width.
	KindNumericOverflow
	// KindUnexpectedEOF is input that ends inside a value.
	KindUnexpectedEOF
	// KindDepthLimitExceeded is nesting beyond Config.MaxDepth.
	KindDepthLimitExceeded
	// KindUtf8Invalid is a string payload that is not valid UTF-8.
	KindUtf8Invalid
	// KindLengthOverflow is a length or count that cannot be represented.
	KindLengthOverflow
	// KindUnsupported is a Go value the walker has no mapping for.
	KindUnsupported
)

func (k ErrorKind) String() string {
	switch k {
	case KindIo:
		return "io"
	case KindInvalidTag:
		return "invalid tag"
	case KindTypeMismatch:
		return "type mismatch"
	case KindNumericOverflow:
		return "numeric overflow"
	case KindUnexpectedEOF:
		return "unexpected eof"
	case KindDepthLimitExceeded:
		return "depth limit exceeded"
	case KindUtf8Invalid:
		return "invalid utf-8"
	case KindLengthOverflow:
		return "length overflow"
	case KindUnsupported:
		return "unsupported type"
	default:
		return "unknown"
	}
}

// Error is the error type returned by every fallible codec operation.
type Error struct {
	Kind ErrorKind
	// Marker is the tag the failure relates to. It is zero when no tag
	// was involved.
	Marker marker.Marker
	Msg    string
	Err    error
}

var (
	ErrIo                 = &Error{Kind: KindIo}
	ErrInvalidTag         = &Error{Kind: KindInvalidTag}
	ErrTypeMismatch       = &Error{Kind: KindTypeMismatch}
	ErrNumericOverflow    = &Error{Kind: KindNumericOverflow}
	ErrUnexpectedEOF      = &Error{Kind: KindUnexpectedEOF}
	ErrDepthLimitExceeded = &Error{Kind: KindDepthLimitExceeded}
	ErrUtf8Invalid        = &Error{Kind: KindUtf8Invalid}
	ErrLengthOverflow     = &Error{Kind: KindLengthOverflow}
	ErrUnsupported        = &Error{Kind: KindUnsupported}
)

func (e *Error) Error() string {
	msg := "mpwire: " + e.Kind.String()
	if e.Msg != "" {
		msg += ": " + e.Msg
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches any *Error of the same kind, so callers can test against
// the package sentinels with errors.Is.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// Fatal reports whether the error leaves a Decoder unusable. Type
// mismatches and numeric overflows are detected before the cursor moves.
func (e *Error) Fatal() bool {
	return e.Kind != KindTypeMismatch && e.Kind != KindNumericOverflow
}

// KindOf returns the ErrorKind of err, or 0 when err is not a codec error.
func KindOf(err error) ErrorKind {
	for err != nil {
		if e, ok := err.(*Error); ok {
			return e.Kind
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return 0
		}
		err = u.Unwrap()
	}
	return 0
}

func newError(kind ErrorKind, m marker.Marker, format string, args ...interface{}) *Error {
	return &Error{
		Kind:   kind,
		Marker: m,
		Msg:    fmt.Sprintf(format, args...),
	}
}

func ioError(err error) *Error {
	return &Error{Kind: KindIo, Err: err}
}

func mismatch(m marker.Marker, want string) *Error {
	return newError(KindTypeMismatch, m, "expected %s, found %s", want, m)
}
