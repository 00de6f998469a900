package gateway

import (
	"errors"
	"fmt"
)

// Kind classifies why a call failed.
type Kind int

const (
	KindNetwork Kind = iota + 1
	KindStatus
	KindRejected
	KindMalformed
	KindCanceled
)

func (k Kind) String() string {
	switch k {
	case KindNetwork:
		return "network"
	case KindStatus:
		return "status"
	case KindRejected:
		return "rejected"
	case KindMalformed:
		return "malformed"
	case KindCanceled:
		return "canceled"
	}
	return "unknown"
}

var (
	ErrNetwork   = errors.New("gateway: network failure")
	ErrStatus    = errors.New("gateway: non-2xx response")
	ErrRejected  = errors.New("gateway: request rejected")
	ErrMalformed = errors.New("gateway: malformed response")
	ErrCanceled  = errors.New("gateway: request canceled")
)

// Error is returned by every failed gateway call.
type Error struct {
	Kind    Kind
	Method  string
	Path    string
	Status  int
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s %s: %s (%d)", e.Method, e.Path, e.Message, e.Status)
	}
	return fmt.Sprintf("%s %s: %s", e.Method, e.Path, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	switch target {
	case ErrNetwork:
		return e.Kind == KindNetwork
	case ErrStatus:
		return e.Kind == KindStatus
	case ErrRejected:
		return e.Kind == KindRejected
	case ErrMalformed:
		return e.Kind == KindMalformed
	case ErrCanceled:
		return e.Kind == KindCanceled
	}
	return false
}

// Message returns the text a caller should show for err, or fallback when err
// carries nothing readable.
func Message(err error, fallback string) string {
	var gwErr *Error
	if errors.As(err, &gwErr) && gwErr.Message != "" {
		return gwErr.Message
	}
	if err != nil && fallback == "" {
		return err.Error()
	}
	return fallback
}
