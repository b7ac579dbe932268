package domain

import "errors"

var (
	ErrProfileNotFound   = errors.New("profile not found")
	ErrIncompleteProfile = errors.New("profile is incomplete")
	ErrMissingLocation   = errors.New("birth location is not validated")
	ErrEmptyMessage      = errors.New("message is empty")
)

// ErrorKind classifies a failure for the API surface. Every async entry point
// reports its own kind; kinds never cross feature boundaries.
type ErrorKind string

const (
	KindValidation    ErrorKind = "validation"
	KindTransport     ErrorKind = "transport"
	KindProtocol      ErrorKind = "protocol"
	KindModelOutput   ErrorKind = "model_output"
	KindConfiguration ErrorKind = "configuration"
)

// KindError wraps an error with its classification, preserving the chain for
// errors.Is/As.
type KindError struct {
	Kind ErrorKind
	Err  error
}

func (e *KindError) Error() string {
	return e.Err.Error()
}

func (e *KindError) Unwrap() error {
	return e.Err
}

func WrapKind(kind ErrorKind, err error) error {
	if err == nil {
		return nil
	}
	return &KindError{Kind: kind, Err: err}
}

// KindOf reports the classification of err, defaulting to transport for
// unclassified failures since those are almost always network-shaped.
func KindOf(err error) ErrorKind {
	var ke *KindError
	if errors.As(err, &ke) {
		return ke.Kind
	}
	return KindTransport
}
