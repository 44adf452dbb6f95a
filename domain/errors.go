package domain

import "errors"

type ErrorKind string

const (
	KindInvalidPrincipal ErrorKind = "InvalidPrincipal"
	KindInvalidRate      ErrorKind = "InvalidRate"
	KindInvalidTenure    ErrorKind = "InvalidTenure"
)

var (
	ErrInvalidPrincipal = errors.New("invalid principal")
	ErrInvalidRate      = errors.New("invalid rate")
	ErrInvalidTenure    = errors.New("invalid tenure")
)

var kindSentinels = map[ErrorKind]error{
	KindInvalidPrincipal: ErrInvalidPrincipal,
	KindInvalidRate:      ErrInvalidRate,
	KindInvalidTenure:    ErrInvalidTenure,
}

// ValidationError reports loan terms rejected before any computation.
// errors.Is matches it against the sentinel of its kind.
type ValidationError struct {
	Kind    ErrorKind
	Message string
}

func NewValidationError(kind ErrorKind, message string) *ValidationError {
	return &ValidationError{Kind: kind, Message: message}
}

func (e *ValidationError) Error() string {
	return string(e.Kind) + ": " + e.Message
}

func (e *ValidationError) Unwrap() error {
	return kindSentinels[e.Kind]
}

// KindOf returns the validation kind carried by err, if any.
func KindOf(err error) (ErrorKind, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Kind, true
	}
	return "", false
}
