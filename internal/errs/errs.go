// Package errs defines the fatal error kinds raised while preparing a
// document: every error carries the schema path it was raised at.
package errs

import (
	"errors"
	"fmt"
)

type Kind int

const (
	KindIngestion Kind = iota
	KindClassification
	KindNormalization
)

func (k Kind) String() string {
	switch k {
	case KindIngestion:
		return "ingestion"
	case KindClassification:
		return "classification"
	case KindNormalization:
		return "normalization"
	default:
		return "unknown"
	}
}

var (
	ErrMalformedDocument      = errors.New("malformed document")
	ErrUnresolvedReference    = errors.New("unresolved reference")
	ErrUnsupportedType        = errors.New("unsupported type")
	ErrUnsupportedFormat      = errors.New("unsupported format")
	ErrUnsupportedEnum        = errors.New("unsupported enumeration")
	ErrMissingItems           = errors.New("missing array items")
	ErrMergeConflict          = errors.New("merge conflict")
	ErrUnionOfUnion           = errors.New("union of union")
	ErrInvalidMember          = errors.New("invalid union member")
	ErrCircularReference      = errors.New("circular reference")
	ErrAmbiguousDiscriminator = errors.New("ambiguous discriminator")
	ErrInvalidBranch          = errors.New("invalid polymorphic branch")
)

// Error is a fatal error for the document being processed.
type Error struct {
	Kind    Kind
	Path    string
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("[%s] %s", e.Kind, e.Message)
	if e.Path != "" {
		msg += " at " + e.Path
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

func newError(kind Kind, path string, err error, format string, args ...any) *Error {
	return &Error{
		Kind:    kind,
		Path:    path,
		Message: fmt.Sprintf(format, args...),
		Err:     err,
	}
}

func Ingestion(path string, err error, format string, args ...any) *Error {
	return newError(KindIngestion, path, err, format, args...)
}

func Classification(path string, err error, format string, args ...any) *Error {
	return newError(KindClassification, path, err, format, args...)
}

func Normalization(path string, err error, format string, args ...any) *Error {
	return newError(KindNormalization, path, err, format, args...)
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// PathOf returns the schema path of err, or "" if err carries none.
func PathOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Path
	}
	return ""
}
