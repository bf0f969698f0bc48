package gateway

import (
	"fmt"

	"golang.org/x/xerrors"
)

type Kind int

const (
	NetworkFailure Kind = iota + 1
	ParseFailure
)

func (k Kind) String() string {
	switch k {
	case NetworkFailure:
		return "network failure"
	case ParseFailure:
		return "parse failure"
	default:
		return "unknown failure"
	}
}

// Error is returned by every Client call that does not succeed.
type Error struct {
	Kind Kind
	Op   string
	URL  string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %s: %v", e.Op, e.URL, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func IsNetwork(err error) bool {
	return kindOf(err) == NetworkFailure
}

func IsParse(err error) bool {
	return kindOf(err) == ParseFailure
}

func kindOf(err error) Kind {
	var gerr *Error
	if xerrors.As(err, &gerr) {
		return gerr.Kind
	}
	return 0
}
