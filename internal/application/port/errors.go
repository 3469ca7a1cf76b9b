package port

import (
	"errors"
	"fmt"
)

// AdapterErrorKind classifies native adapter failures.
type AdapterErrorKind int

const (
	// ErrNotFound means the native object no longer exists.
	ErrNotFound AdapterErrorKind = iota + 1
	// ErrPlatform is any failure reported by the platform layer.
	ErrPlatform
	// ErrInvalidArgument means the caller passed something the platform rejects.
	ErrInvalidArgument
)

func (k AdapterErrorKind) String() string {
	switch k {
	case ErrNotFound:
		return "not found"
	case ErrPlatform:
		return "platform error"
	case ErrInvalidArgument:
		return "invalid argument"
	default:
		return "unknown"
	}
}

// AdapterError is returned by every NativeAdapter and NativeHandle operation.
type AdapterError struct {
	Kind    AdapterErrorKind
	Message string
	Err     error
}

// NewAdapterError wraps err (which may be nil) with a kind and message.
func NewAdapterError(kind AdapterErrorKind, err error, format string, args ...any) *AdapterError {
	return &AdapterError{Kind: kind, Message: fmt.Sprintf(format, args...), Err: err}
}

func (e *AdapterError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AdapterError) Unwrap() error { return e.Err }

// IsAdapterKind reports whether err is an AdapterError of the given kind.
func IsAdapterKind(err error, kind AdapterErrorKind) bool {
	var ae *AdapterError
	return errors.As(err, &ae) && ae.Kind == kind
}
