package analyzer

import (
	"fmt"
)

// Kind classifies why an analysis failed.
type Kind int

const (
	KindConfig Kind = iota
	KindInput
	KindNetwork
	KindResponse
)

func (k Kind) String() string {
	switch k {
	case KindConfig:
		return "config error"
	case KindInput:
		return "input error"
	case KindNetwork:
		return "network error"
	case KindResponse:
		return "response error"
	default:
		return "unknown error"
	}
}

// Error is the single failure surface the host sees. The kind stays
// inspectable while the message carries the original cause.
type Error struct {
	Kind Kind
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("image analysis failed: %s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func failed(kind Kind, err error) *Error {
	return &Error{Kind: kind, Err: err}
}
