package lookup

import (
	"errors"
	"fmt"
)

// Kind classifies pipeline failures for the transport layer.
type Kind int

const (
	// KindUnexpected is any failure not covered by the other kinds
	KindUnexpected Kind = iota
	// KindNoResults means search or filtering produced nothing usable
	KindNoResults
	// KindUpstream means a search, sparql or synonym call failed
	KindUpstream
	// KindInvalidInput means the caller's arguments were rejected before any call
	KindInvalidInput
)

// String returns the string representation of Kind
func (k Kind) String() string {
	switch k {
	case KindNoResults:
		return "no_results"
	case KindUpstream:
		return "upstream"
	case KindInvalidInput:
		return "invalid_input"
	default:
		return "unexpected"
	}
}

// ErrNoResults is returned when search or filtering yields nothing.
var ErrNoResults = errors.New("no results found")

// Error wraps a failure with its Kind and the operation that produced it.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// E builds an *Error.
func E(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// KindOf extracts the Kind of err. Unclassified errors are KindUnexpected.
func KindOf(err error) Kind {
	if err == nil {
		return KindUnexpected
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	if errors.Is(err, ErrNoResults) {
		return KindNoResults
	}
	return KindUnexpected
}
