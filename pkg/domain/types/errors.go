package types

import (
	"errors"

	"github.com/m-mizutani/goerr/v2"
)

var (
	ErrInvalidOption = goerr.New("invalid option")

	// Bad request
	ErrUnauthorized = goerr.New("unauthorized")

	// Policy error
	ErrNoPolicyResult = goerr.New("no policy result")

	// Remote call failures. Use with errors.Is, the concrete error is *KindError.
	ErrNotFound         = goerr.New("not found")
	ErrPermissionDenied = goerr.New("permission denied")
	ErrUnexpected       = goerr.New("unexpected error")
)

// ErrorKind is a class of failure of a remote call to Cloud Storage or BigQuery.
type ErrorKind string

const (
	KindNotFound         ErrorKind = "not_found"
	KindPermissionDenied ErrorKind = "permission_denied"
	KindUnexpected       ErrorKind = "unexpected"
)

func (x ErrorKind) String() string { return string(x) }

func (x ErrorKind) sentinel() error {
	switch x {
	case KindNotFound:
		return ErrNotFound
	case KindPermissionDenied:
		return ErrPermissionDenied
	default:
		return ErrUnexpected
	}
}

// KindError tags a cause with its ErrorKind. errors.Is matches the sentinel of the kind, and errors.Unwrap returns the cause.
type KindError struct {
	kind  ErrorKind
	cause error
}

func NewKindError(kind ErrorKind, cause error) *KindError {
	return &KindError{kind: kind, cause: cause}
}

func (x *KindError) Kind() ErrorKind { return x.kind }
func (x *KindError) Unwrap() error   { return x.cause }

func (x *KindError) Error() string {
	msg := x.kind.sentinel().Error()
	if x.cause == nil {
		return msg
	}
	return msg + ": " + x.cause.Error()
}

func (x *KindError) Is(target error) bool {
	return target == x.kind.sentinel()
}

// KindOf returns the ErrorKind found in the chain of err. An error without a kind is KindUnexpected.
func KindOf(err error) ErrorKind {
	var kErr *KindError
	if errors.As(err, &kErr) {
		return kErr.kind
	}
	return KindUnexpected
}
